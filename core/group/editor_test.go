package group

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geniotutoring/studenttrack/core/edit"
	"github.com/geniotutoring/studenttrack/core/student"
)

// stubGateway lets each test script the remote behavior per method. Commit
// runs its sub-operations concurrently, so recorded calls are mutex-guarded.
type stubGateway struct {
	mu sync.Mutex

	getFn    func(id int) (Group, error)
	updateFn func(id int, ug UpdateGroup) (Group, error)
	attachFn func(groupID, studentID int) error
	detachFn func(groupID, studentID int) error

	detached []int // student IDs, in call order
	updates  []UpdateGroup
	deletes  []int
}

var _ Gateway = (*stubGateway)(nil)

func (s *stubGateway) QueryAllGroups(context.Context) ([]Group, error) { return nil, nil }

func (s *stubGateway) CreateGroup(_ context.Context, _ NewGroup) (Group, error) {
	return Group{}, nil
}

func (s *stubGateway) GetGroup(_ context.Context, id int) (Group, error) {
	if s.getFn != nil {
		return s.getFn(id)
	}
	return Group{}, ErrNotFound
}

func (s *stubGateway) UpdateGroup(_ context.Context, id int, ug UpdateGroup) (Group, error) {
	s.mu.Lock()
	s.updates = append(s.updates, ug)
	s.mu.Unlock()
	if s.updateFn != nil {
		return s.updateFn(id, ug)
	}
	return Group{}, nil
}

func (s *stubGateway) DeleteGroup(_ context.Context, id int) error {
	s.mu.Lock()
	s.deletes = append(s.deletes, id)
	s.mu.Unlock()
	return nil
}

func (s *stubGateway) AttachStudent(_ context.Context, groupID, studentID int) error {
	if s.attachFn != nil {
		return s.attachFn(groupID, studentID)
	}
	return nil
}

func (s *stubGateway) DetachStudent(_ context.Context, groupID, studentID int) error {
	s.mu.Lock()
	s.detached = append(s.detached, studentID)
	s.mu.Unlock()
	if s.detachFn != nil {
		return s.detachFn(groupID, studentID)
	}
	return nil
}

func members(ids ...int) []student.Student {
	students := make([]student.Student, 0, len(ids))
	for _, id := range ids {
		students = append(students, student.Student{ID: id, Name: "Student " + string(rune('A'+id))})
	}
	return students
}

func memberIDs(students []student.Student) []int {
	ids := make([]int, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	return ids
}

func mathGroup() Group {
	return Group{ID: 7, Title: "Math A", Cost: 800, Students: members(1, 2, 3)}
}

func TestEditorStartCancel(t *testing.T) {
	ed := NewEditor(NewService(&stubGateway{}), mathGroup())
	assert.Equal(t, edit.StateViewing, ed.State())
	assert.Nil(t, ed.Draft())

	if err := ed.StartEdit(); err != nil {
		t.Fatalf("StartEdit() failed: %v", err)
	}
	assert.Equal(t, edit.StateEditing, ed.State())
	assert.Equal(t, edit.ErrAlreadyEditing, ed.StartEdit())

	// scribble all over the draft, then cancel
	require.NoError(t, ed.SetTitle("Math B"))
	require.NoError(t, ed.SetCost(900))
	require.NoError(t, ed.RemoveMember(2))
	require.NoError(t, ed.CancelEdit())

	assert.Equal(t, edit.StateViewing, ed.State())
	assert.Nil(t, ed.Draft())
	assert.Equal(t, mathGroup(), ed.Snapshot(), "cancel must restore the snapshot untouched")
	assert.Equal(t, edit.ErrNotEditing, ed.CancelEdit())
}

func TestEditorGuards(t *testing.T) {
	ed := NewEditor(NewService(&stubGateway{}), mathGroup())

	assert.Equal(t, edit.ErrNotEditing, ed.SetTitle("x"))
	assert.Equal(t, edit.ErrNotEditing, ed.SetCost(1))
	assert.Equal(t, edit.ErrNotEditing, ed.RemoveMember(1))
	_, err := ed.Commit(context.Background())
	assert.Equal(t, edit.ErrNotEditing, err)
}

func TestEditorCommitSuccess(t *testing.T) {
	gw := &stubGateway{
		updateFn: func(id int, ug UpdateGroup) (Group, error) {
			return Group{ID: id, Title: "Math A", Cost: *ug.Cost}, nil
		},
	}
	ed := NewEditor(NewService(gw), mathGroup())

	require.NoError(t, ed.StartEdit())
	require.NoError(t, ed.SetCost(900))
	require.NoError(t, ed.RemoveMember(2))

	result, err := ed.Commit(context.Background())
	if err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}
	assert.True(t, result.OK())
	assert.Len(t, result, 2) // one detach, one update

	assert.Equal(t, []int{2}, gw.detached)
	require.Len(t, gw.updates, 1)
	assert.Empty(t, gw.updates[0].Title, "unchanged fields are not sent")
	require.NotNil(t, gw.updates[0].Cost)
	assert.Equal(t, 900, *gw.updates[0].Cost)

	assert.Equal(t, edit.StateViewing, ed.State())
	assert.Nil(t, ed.Draft())
	assert.Equal(t, 900, ed.Snapshot().Cost)
	assert.Equal(t, []int{1, 3}, memberIDs(ed.Snapshot().Students))
}

func TestEditorCommitNoChanges(t *testing.T) {
	gw := &stubGateway{}
	ed := NewEditor(NewService(gw), mathGroup())

	require.NoError(t, ed.StartEdit())
	result, err := ed.Commit(context.Background())
	if err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}
	assert.True(t, result.OK())
	assert.Empty(t, result)
	assert.Empty(t, gw.updates)
	assert.Empty(t, gw.detached)
	assert.Equal(t, edit.StateViewing, ed.State())
}

// A detach fails while the scalar update succeeds: the update is folded into
// the snapshot, the not-detached member stays in the retained draft and the
// session remains editable. Nothing is retried.
func TestEditorCommitPartialFailure(t *testing.T) {
	boom := errors.New("server exploded")
	gw := &stubGateway{
		detachFn: func(_, studentID int) error {
			if studentID == 2 {
				return boom
			}
			return nil
		},
		updateFn: func(id int, ug UpdateGroup) (Group, error) {
			return Group{ID: id, Title: "Math A", Cost: *ug.Cost}, nil
		},
	}
	ed := NewEditor(NewService(gw), mathGroup())

	require.NoError(t, ed.StartEdit())
	require.NoError(t, ed.SetCost(900))
	require.NoError(t, ed.RemoveMember(2))

	result, err := ed.Commit(context.Background())
	if err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}
	assert.False(t, result.OK())
	require.Len(t, result.Failed(), 1)
	failed := result.Failed()[0]
	assert.Equal(t, OpDetach, failed.Op)
	assert.Equal(t, 2, failed.StudentID)
	assert.Equal(t, boom, failed.Err)

	assert.Equal(t, edit.StateEditing, ed.State())
	// update went through: both snapshot and draft show the new cost
	assert.Equal(t, 900, ed.Snapshot().Cost)
	assert.Equal(t, 900, ed.Draft().Cost)
	// the failed removal is back in the draft, in snapshot order
	assert.Equal(t, []int{1, 2, 3}, memberIDs(ed.Draft().Students))
	assert.Equal(t, []int{1, 2, 3}, memberIDs(ed.Snapshot().Students))
}

func TestEditorCommitPartialFailureDetaches(t *testing.T) {
	boom := errors.New("server exploded")
	gw := &stubGateway{
		detachFn: func(_, studentID int) error {
			if studentID == 3 {
				return boom
			}
			return nil
		},
	}
	ed := NewEditor(NewService(gw), mathGroup())

	require.NoError(t, ed.StartEdit())
	require.NoError(t, ed.RemoveMember(2))
	require.NoError(t, ed.RemoveMember(3))

	result, err := ed.Commit(context.Background())
	if err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}
	assert.False(t, result.OK())

	// student 2 is gone for good; student 3 is back in the draft
	assert.Equal(t, []int{1, 3}, memberIDs(ed.Snapshot().Students))
	assert.Equal(t, []int{1, 3}, memberIDs(ed.Draft().Students))
	assert.Equal(t, edit.StateEditing, ed.State())

	// a second save retries only what is still staged
	require.NoError(t, ed.RemoveMember(3))
	gw.detachFn = nil
	result, err = ed.Commit(context.Background())
	if err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}
	assert.True(t, result.OK())
	assert.Equal(t, []int{1}, memberIDs(ed.Snapshot().Students))
	assert.Equal(t, edit.StateViewing, ed.State())
}

// AddMember is an immediate remote action: it attaches, re-fetches and keeps
// any staged removals pending.
func TestEditorAddMember(t *testing.T) {
	gw := &stubGateway{
		getFn: func(id int) (Group, error) {
			return Group{ID: id, Title: "Math A", Cost: 800, Students: members(1, 2, 3, 4)}, nil
		},
	}
	ed := NewEditor(NewService(gw), mathGroup())

	require.NoError(t, ed.StartEdit())
	require.NoError(t, ed.RemoveMember(2))

	if err := ed.AddMember(context.Background(), 4); err != nil {
		t.Fatalf("AddMember() failed: %v", err)
	}
	assert.Equal(t, edit.StateEditing, ed.State())
	assert.Equal(t, []int{1, 2, 3, 4}, memberIDs(ed.Snapshot().Students))
	assert.Equal(t, []int{1, 3, 4}, memberIDs(ed.Draft().Students), "staged removal survives the add")
}

func TestEditorAddMemberRemoveThenReAdd(t *testing.T) {
	gw := &stubGateway{
		getFn: func(id int) (Group, error) {
			return mathGroup(), nil
		},
	}
	ed := NewEditor(NewService(gw), mathGroup())

	require.NoError(t, ed.StartEdit())
	require.NoError(t, ed.RemoveMember(2))
	if err := ed.AddMember(context.Background(), 2); err != nil {
		t.Fatalf("AddMember() failed: %v", err)
	}
	assert.Equal(t, []int{1, 2, 3}, memberIDs(ed.Draft().Students))

	// saving now has nothing to do
	result, err := ed.Commit(context.Background())
	if err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}
	assert.True(t, result.OK())
	assert.Empty(t, gw.detached)
}

func TestEditorAddMemberFailureKeepsDraft(t *testing.T) {
	boom := errors.New("server exploded")
	gw := &stubGateway{attachFn: func(_, _ int) error { return boom }}
	ed := NewEditor(NewService(gw), mathGroup())

	require.NoError(t, ed.StartEdit())
	require.NoError(t, ed.RemoveMember(2))

	err := ed.AddMember(context.Background(), 4)
	assert.Equal(t, boom, err)
	assert.Equal(t, edit.StateEditing, ed.State())
	assert.Equal(t, []int{1, 3}, memberIDs(ed.Draft().Students))
	assert.Equal(t, []int{1, 2, 3}, memberIDs(ed.Snapshot().Students))
}
