package session

// Recognized capability tags. Unknown tags carried by a token are ignored.
const (
	CapReadGroups  = "read:groups"
	CapCreateGroup = "create:group"
	CapUpdateGroup = "update:group"
	CapDeleteGroup = "delete:group"

	CapReadStudents  = "read:students"
	CapCreateStudent = "create:student"
	CapUpdateStudent = "update:student"
	CapDeleteStudent = "delete:student"

	CapCreatePayment = "create:payment"
	CapDeletePayment = "delete:payment"
)

var AllCapabilities = []string{
	CapReadGroups, CapCreateGroup, CapUpdateGroup, CapDeleteGroup,
	CapReadStudents, CapCreateStudent, CapUpdateStudent, CapDeleteStudent,
	CapCreatePayment, CapDeletePayment,
}

// Capabilities is the set of capability tags granted to a session.
type Capabilities map[string]struct{}

func (c Capabilities) Has(tag string) bool {
	_, ok := c[tag]
	return ok
}

// List returns the granted tags in vocabulary order.
func (c Capabilities) List() []string {
	tags := make([]string, 0, len(c))
	for _, tag := range AllCapabilities {
		if c.Has(tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

// CapabilitiesOf derives the capability set from the session's current claims.
// Absent or malformed claims grant nothing (fails closed). The set must be
// recomputed whenever the token changes: a refreshed token may carry
// different permissions.
func CapabilitiesOf(s *Session) Capabilities {
	caps := make(Capabilities)
	if s == nil {
		return caps
	}
	claims := s.Claims()
	if claims == nil {
		return caps
	}
	known := make(map[string]struct{}, len(AllCapabilities))
	for _, tag := range AllCapabilities {
		known[tag] = struct{}{}
	}
	for _, tag := range claims.Permissions {
		if _, ok := known[tag]; ok {
			caps[tag] = struct{}{}
		}
	}
	return caps
}
