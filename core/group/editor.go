package group

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/geniotutoring/studenttrack/core/edit"
	"github.com/geniotutoring/studenttrack/core/student"
)

type (
	// Draft is the working copy of a group's editable fields and member list,
	// owned exclusively by the Editor while an edit session is active.
	Draft struct {
		Title    string
		Cost     int
		Students []student.Student
	}

	// Editor reconciles draft edits of a group against the last
	// server-confirmed snapshot. Removals are staged locally and realized on
	// commit; additions are immediate remote actions (see AddMember). The
	// two deliberately stay distinct operation classes.
	//
	// One Editor per group instance; only one edit session may be open at a
	// time, by construction rather than by lock.
	Editor struct {
		svc      *Service
		state    edit.State
		snapshot Group
		draft    *Draft
	}

	// Op identifies a commit sub-operation.
	Op string

	// OpResult is the outcome of one commit sub-operation. Commit is not
	// transactional: each sub-operation succeeds or fails on its own.
	OpResult struct {
		Op        Op
		StudentID int // detach ops only
		Err       error
	}

	CommitResult []OpResult
)

const (
	OpUpdate Op = "update"
	OpDetach Op = "detach"
)

func (r OpResult) OK() bool { return r.Err == nil }

func (r CommitResult) OK() bool {
	for _, op := range r {
		if !op.OK() {
			return false
		}
	}
	return true
}

// Failed returns the sub-operations that failed.
func (r CommitResult) Failed() []OpResult {
	var failed []OpResult
	for _, op := range r {
		if !op.OK() {
			failed = append(failed, op)
		}
	}
	return failed
}

func NewEditor(svc *Service, snapshot Group) *Editor {
	return &Editor{svc: svc, snapshot: snapshot}
}

func (ed *Editor) State() edit.State { return ed.state }
func (ed *Editor) Snapshot() Group   { return ed.snapshot }
func (ed *Editor) Draft() *Draft     { return ed.draft }

// StartEdit copies the snapshot's editable scalar fields and member list
// into a fresh draft.
func (ed *Editor) StartEdit() error {
	if ed.state != edit.StateViewing {
		return edit.ErrAlreadyEditing
	}
	members := make([]student.Student, len(ed.snapshot.Students))
	copy(members, ed.snapshot.Students)
	ed.draft = &Draft{
		Title:    ed.snapshot.Title,
		Cost:     ed.snapshot.Cost,
		Students: members,
	}
	ed.state = edit.StateEditing
	return nil
}

func (ed *Editor) SetTitle(title string) error {
	if ed.state != edit.StateEditing {
		return edit.ErrNotEditing
	}
	ed.draft.Title = title
	return nil
}

func (ed *Editor) SetCost(cost int) error {
	if ed.state != edit.StateEditing {
		return edit.ErrNotEditing
	}
	ed.draft.Cost = cost
	return nil
}

// RemoveMember removes the student from the draft's member list only; no
// remote call is made until Commit.
func (ed *Editor) RemoveMember(studentID int) error {
	if ed.state != edit.StateEditing {
		return edit.ErrNotEditing
	}
	members := ed.draft.Students[:0]
	for _, st := range ed.draft.Students {
		if st.ID != studentID {
			members = append(members, st)
		}
	}
	ed.draft.Students = members
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

// AddMember attaches a student immediately (it is not part of the batched
// commit) and re-fetches the full group to pick up server-derived fields.
// While an edit session is active, the pending local removals survive:
// the draft keeps only the members it already had, plus the new one.
func (ed *Editor) AddMember(ctx context.Context, studentID int) error {
	if ed.state == edit.StateCommitting {
		return edit.ErrCommitting
	}
	grp, err := ed.svc.Attach(ctx, ed.snapshot.ID, studentID)
	if err != nil {
		return err
	}
	ed.snapshot = grp
	if ed.state == edit.StateEditing {
		keep := make(map[int]bool, len(ed.draft.Students)+1)
		for _, st := range ed.draft.Students {
			keep[st.ID] = true
		}
		keep[studentID] = true
		members := make([]student.Student, 0, len(grp.Students))
		for _, st := range grp.Students {
			if keep[st.ID] {
				members = append(members, st)
			}
		}
		ed.draft.Students = members
	}
	return nil
}

// Commit realizes the draft: one detach call per removed member plus one
// update call when scalar fields changed, all issued in parallel. The calls
// are independent: a failure in one does not block or roll back the others.
//
// Full success replaces the snapshot with the draft and returns to Viewing.
// On partial failure the succeeded operations are folded into the snapshot,
// members that failed to detach are restored into the retained draft and the
// session returns to Editing; nothing is retried automatically.
func (ed *Editor) Commit(ctx context.Context) (CommitResult, error) {
	if ed.state != edit.StateEditing {
		return nil, edit.ErrNotEditing
	}
	ed.state = edit.StateCommitting
	draft := ed.draft

	// removed = snapshot.members - draft.members
	inDraft := make(map[int]bool, len(draft.Students))
	for _, st := range draft.Students {
		inDraft[st.ID] = true
	}
	var removed []student.Student
	for _, st := range ed.snapshot.Students {
		if !inDraft[st.ID] {
			removed = append(removed, st)
		}
	}

	ug := UpdateGroup{}
	if draft.Title != ed.snapshot.Title {
		ug.Title = draft.Title
	}
	if draft.Cost != ed.snapshot.Cost {
		cost := draft.Cost
		ug.Cost = &cost
	}

	var (
		g          errgroup.Group
		detachErrs = make([]error, len(removed))
		updateErr  error
	)
	for i, st := range removed {
		i, st := i, st
		g.Go(func() error {
			detachErrs[i] = ed.svc.Detach(ctx, ed.snapshot.ID, st.ID)
			return nil
		})
	}
	if !ug.IsEmpty() {
		g.Go(func() error {
			_, updateErr = ed.svc.Update(ctx, ed.snapshot.ID, ug)
			return nil
		})
	}
	_ = g.Wait() // sub-operation errors are collected, never short-circuited

	result := make(CommitResult, 0, len(removed)+1)
	detachFailed := make(map[int]bool)
	for i, st := range removed {
		result = append(result, OpResult{Op: OpDetach, StudentID: st.ID, Err: detachErrs[i]})
		if detachErrs[i] != nil {
			detachFailed[st.ID] = true
		}
	}
	if !ug.IsEmpty() {
		result = append(result, OpResult{Op: OpUpdate, Err: updateErr})
	}

	if result.OK() {
		ed.snapshot = Group{
			ID:       ed.snapshot.ID,
			Title:    draft.Title,
			Cost:     draft.Cost,
			Students: draft.Students,
		}
		ed.draft = nil
		ed.state = edit.StateViewing
		return result, nil
	}

	// Partial failure: fold what succeeded into the snapshot, keep the rest
	// in the draft. Detaches that went through stay applied server-side.
	prior := ed.snapshot.Students
	var remaining []student.Student
	for _, st := range prior {
		if !inDraft[st.ID] && !detachFailed[st.ID] {
			continue // successfully detached
		}
		remaining = append(remaining, st)
	}
	ed.snapshot.Students = remaining
	if !ug.IsEmpty() && updateErr == nil {
		ed.snapshot.Title = draft.Title
		ed.snapshot.Cost = draft.Cost
	}
	// draft shows members still attached server-side, in snapshot order
	draftMembers := make([]student.Student, 0, len(remaining))
	for _, st := range remaining {
		if inDraft[st.ID] || detachFailed[st.ID] {
			draftMembers = append(draftMembers, st)
		}
	}
	draft.Students = draftMembers
	ed.state = edit.StateEditing
	return result, nil
}
