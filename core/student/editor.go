package student

import (
	"context"

	"github.com/geniotutoring/studenttrack/core/edit"
)

type (
	// Draft is the working copy of a student's editable fields, owned
	// exclusively by the Editor while an edit session is active.
	Draft struct {
		Name              string
		ParentPhoneNumber string
	}

	// Editor reconciles draft edits of a student's scalar fields against the
	// last server-confirmed snapshot. One Editor per student instance; only
	// one edit session may be open at a time.
	Editor struct {
		svc      *Service
		state    edit.State
		snapshot Student
		draft    *Draft
	}
)

func NewEditor(svc *Service, snapshot Student) *Editor {
	return &Editor{svc: svc, snapshot: snapshot}
}

func (ed *Editor) State() edit.State { return ed.state }
func (ed *Editor) Snapshot() Student { return ed.snapshot }
func (ed *Editor) Draft() *Draft     { return ed.draft }

// StartEdit copies the snapshot's editable fields into a fresh draft.
func (ed *Editor) StartEdit() error {
	if ed.state != edit.StateViewing {
		return edit.ErrAlreadyEditing
	}
	ed.draft = &Draft{
		Name:              ed.snapshot.Name,
		ParentPhoneNumber: ed.snapshot.ParentPhoneNumber,
	}
	ed.state = edit.StateEditing
	return nil
}

func (ed *Editor) SetName(name string) error {
	if ed.state != edit.StateEditing {
		return edit.ErrNotEditing
	}
	ed.draft.Name = name
	return nil
}

func (ed *Editor) SetParentPhoneNumber(phone string) error {
	if ed.state != edit.StateEditing {
		return edit.ErrNotEditing
	}
	ed.draft.ParentPhoneNumber = phone
	return nil
}

// CancelEdit discards the draft and returns to the snapshot's
// last-committed values.
func (ed *Editor) CancelEdit() error {
	if ed.state != edit.StateEditing {
		return edit.ErrNotEditing
	}
	ed.draft = nil
	ed.state = edit.StateViewing
	return nil
}

// Commit sends the changed scalar fields in a single update call. On success
// the returned student replaces the snapshot; on failure the draft is
// retained and the session returns to Editing.
func (ed *Editor) Commit(ctx context.Context) error {
	if ed.state != edit.StateEditing {
		return edit.ErrNotEditing
	}
	ed.state = edit.StateCommitting

	us := UpdateStudent{}
	if ed.draft.Name != ed.snapshot.Name {
		us.Name = ed.draft.Name
	}
	if ed.draft.ParentPhoneNumber != ed.snapshot.ParentPhoneNumber {
		us.ParentPhoneNumber = ed.draft.ParentPhoneNumber
	}
	if us.IsEmpty() { // nothing changed
		ed.draft = nil
		ed.state = edit.StateViewing
		return nil
	}

	updated, err := ed.svc.Update(ctx, ed.snapshot.ID, us)
	if err != nil {
		ed.state = edit.StateEditing
		return err
	}
	ed.snapshot = updated
	ed.draft = nil
	ed.state = edit.StateViewing
	return nil
}
