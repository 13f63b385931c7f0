package student

import (
	"time"

	"github.com/geniotutoring/studenttrack/core"
)

// Payment statuses computed by the backend.
const (
	StatusPaid    = "PAID"
	StatusPending = "PENDING"
)

type (
	// GroupRef is a student's-eye view of a group membership.
	GroupRef struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
		Cost  int    `json:"group_cost"`
	}

	Payment struct {
		ID        int       `json:"id"`
		Amount    float64   `json:"amount"`
		CreatedAt time.Time `json:"created_at"` // UTC
	}

	Student struct {
		ID                int        `json:"id"`
		Name              string     `json:"name"`
		ParentPhoneNumber string     `json:"parent_phone_number"`
		Status            string     `json:"status,omitempty"`      // derived server-side
		PaidAmount        float64    `json:"paid_amount,omitempty"` // derived server-side
		Groups            []GroupRef `json:"groups,omitempty"`
		Payments          []Payment  `json:"payments,omitempty"`
	}

	// PaymentStatus is the backend's derived view of what a student owes.
	PaymentStatus struct {
		Status        string  `json:"status"`
		PendingAmount float64 `json:"pending_amount"`
	}
)

func (s Student) InGroup(groupID int) bool {
	for _, ref := range s.Groups {
		if ref.ID == groupID {
			return true
		}
	}
	return false
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	Name              string `json:"name" validate:"required"`
	ParentPhoneNumber string `json:"parent_phone_number" validate:"required,phone"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.ParentPhoneNumber = core.CleanString(ns.ParentPhoneNumber)
	return core.TranslateValidationError(core.Validate.Struct(ns))
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Zero-valued fields are left untouched server-side.
type UpdateStudent struct {
	Name              string `json:"name,omitempty"`
	ParentPhoneNumber string `json:"parent_phone_number,omitempty" validate:"omitempty,phone"`
}

func (us *UpdateStudent) Validate() error {
	us.Name = core.CleanString(us.Name)
	us.ParentPhoneNumber = core.CleanString(us.ParentPhoneNumber)
	return core.TranslateValidationError(core.Validate.Struct(us))
}

func (us UpdateStudent) IsEmpty() bool {
	return us.Name == "" && us.ParentPhoneNumber == ""
}

// NewPayment records a payment received from a student's parent.
type NewPayment struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

func (np *NewPayment) Validate() error {
	return core.TranslateValidationError(core.Validate.Struct(np))
}
