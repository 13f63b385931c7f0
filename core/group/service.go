package group

import (
	"context"
	"errors"
)

var (
	// errors
	ErrNotFound         = errors.New("group not found")
	ErrGroupHasStudents = errors.New("group still has students; remove them manually first")
)

type (
	// Gateway is the remote contract for the groups resource. Implementations
	// attach the bearer credential themselves and never retry.
	Gateway interface {
		QueryAllGroups(ctx context.Context) ([]Group, error)
		GetGroup(ctx context.Context, id int) (Group, error)
		CreateGroup(ctx context.Context, ng NewGroup) (Group, error)
		UpdateGroup(ctx context.Context, id int, ug UpdateGroup) (Group, error)
		DeleteGroup(ctx context.Context, id int) error
		AttachStudent(ctx context.Context, groupID, studentID int) error
		DetachStudent(ctx context.Context, groupID, studentID int) error
	}

	Service struct {
		gw Gateway
	}
)

func NewService(gw Gateway) *Service {
	return &Service{gw: gw}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Group, error) {
	return svc.gw.QueryAllGroups(ctx)
}

func (svc *Service) Get(ctx context.Context, id int) (Group, error) {
	return svc.gw.GetGroup(ctx, id)
}

func (svc *Service) Create(ctx context.Context, ng NewGroup) (Group, error) {
	if err := ng.Validate(); err != nil {
		return Group{}, err
	}
	return svc.gw.CreateGroup(ctx, ng)
}

func (svc *Service) Update(ctx context.Context, id int, ug UpdateGroup) (Group, error) {
	if err := ug.Validate(); err != nil {
		return Group{}, err
	}
	return svc.gw.UpdateGroup(ctx, id, ug)
}

// Delete removes a group. A group that still has students is rejected here,
// before any remote call is attempted; the server enforces the same
// constraint, this is the cheap client-side duplicate of it.
func (svc *Service) Delete(ctx context.Context, grp Group) error {
	if len(grp.Students) > 0 {
		return ErrGroupHasStudents
	}
	return svc.gw.DeleteGroup(ctx, grp.ID)
}

// Attach adds a student to a group and re-fetches the full group rather than
// patching locally: membership changes move server-derived fields (payment
// status, paid amounts) that a local patch would miss.
func (svc *Service) Attach(ctx context.Context, groupID, studentID int) (Group, error) {
	if err := svc.gw.AttachStudent(ctx, groupID, studentID); err != nil {
		return Group{}, err
	}
	return svc.gw.GetGroup(ctx, groupID)
}

func (svc *Service) Detach(ctx context.Context, groupID, studentID int) error {
	return svc.gw.DetachStudent(ctx, groupID, studentID)
}
