package group

import (
	"github.com/geniotutoring/studenttrack/core"
	"github.com/geniotutoring/studenttrack/core/student"
)

type Group struct {
	ID       int               `json:"id"`
	Title    string            `json:"title"`
	Cost     int               `json:"group_cost"`
	Students []student.Student `json:"students"`
}

func (g Group) HasStudent(id int) bool {
	for _, st := range g.Students {
		if st.ID == id {
			return true
		}
	}
	return false
}

// NewGroup contains information needed to create a new Group.
type NewGroup struct {
	Title string `json:"title" validate:"required"`
	Cost  int    `json:"group_cost" validate:"gte=0"`
}

func (ng *NewGroup) Validate() error {
	ng.Title = core.CleanString(ng.Title)
	return core.TranslateValidationError(core.Validate.Struct(ng))
}

// UpdateGroup defines what information may be provided to modify an existing Group.
// Nil/empty fields are left untouched server-side.
type UpdateGroup struct {
	Title string `json:"title,omitempty"`
	Cost  *int   `json:"group_cost,omitempty" validate:"omitempty,gte=0"`
}

func (ug *UpdateGroup) Validate() error {
	ug.Title = core.CleanString(ug.Title)
	return core.TranslateValidationError(core.Validate.Struct(ug))
}

func (ug UpdateGroup) IsEmpty() bool {
	return ug.Title == "" && ug.Cost == nil
}
