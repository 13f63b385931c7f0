package group

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geniotutoring/studenttrack/core"
)

func TestServiceDeleteGuard(t *testing.T) {
	gw := &stubGateway{}
	svc := NewService(gw)
	ctx := context.Background()

	err := svc.Delete(ctx, mathGroup())
	assert.Equal(t, ErrGroupHasStudents, err)
	assert.Empty(t, gw.deletes, "a populated group must never reach the backend")

	err = svc.Delete(ctx, Group{ID: 9, Title: "Empty"})
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	assert.Equal(t, []int{9}, gw.deletes)
}

func TestServiceAttachRefetches(t *testing.T) {
	attached := false
	gw := &stubGateway{
		attachFn: func(groupID, studentID int) error {
			attached = true
			return nil
		},
		getFn: func(id int) (Group, error) {
			return Group{ID: id, Title: "Math A", Cost: 800, Students: members(1, 2, 3, 4)}, nil
		},
	}
	svc := NewService(gw)

	grp, err := svc.Attach(context.Background(), 7, 4)
	if err != nil {
		t.Fatalf("Attach() failed: %v", err)
	}
	assert.True(t, attached)
	assert.Equal(t, []int{1, 2, 3, 4}, memberIDs(grp.Students), "attach returns the re-fetched group")
}

func TestServiceCreateValidates(t *testing.T) {
	gw := &stubGateway{}
	svc := NewService(gw)
	ctx := context.Background()

	_, err := svc.Create(ctx, NewGroup{Title: "  "})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr, "blank title must be rejected locally")
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, core.FieldError{Field: "title", Error: "this field is required"}, vErr.Fields[0])

	_, err = svc.Update(ctx, 7, UpdateGroup{Cost: intPtr(-5)})
	assert.Error(t, err, "negative cost must be rejected locally")
	assert.Empty(t, gw.updates)
}

func intPtr(n int) *int { return &n }

func TestGroupHasStudent(t *testing.T) {
	grp := mathGroup()
	assert.True(t, grp.HasStudent(2))
	assert.False(t, grp.HasStudent(42))
}

func TestUpdateGroupIsEmpty(t *testing.T) {
	assert.True(t, UpdateGroup{}.IsEmpty())
	assert.False(t, UpdateGroup{Title: "Math B"}.IsEmpty())
	require.False(t, UpdateGroup{Cost: intPtr(0)}.IsEmpty(), "explicit zero cost is a change")
}
