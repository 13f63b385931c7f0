package dummygw

import (
	"context"

	"github.com/geniotutoring/studenttrack/core/group"
	"github.com/geniotutoring/studenttrack/core/student"
)

type groupGateway struct {
	db *DB
}

var _ group.Gateway = (*groupGateway)(nil) // interface compliance check

func NewGroupGateway(db *DB) group.Gateway {
	return &groupGateway{db: db}
}

func (gw *groupGateway) build(row *groupRow) group.Group {
	grp := group.Group{
		ID:       row.id,
		Title:    row.title,
		Cost:     row.cost,
		Students: []student.Student{},
	}
	for _, id := range row.studentIDs {
		if st, ok := gw.db.students[id]; ok {
			grp.Students = append(grp.Students, gw.db.buildStudent(st))
		}
	}
	return grp
}

func (gw *groupGateway) QueryAllGroups(_ context.Context) ([]group.Group, error) {
	gw.db.RLock()
	defer gw.db.RUnlock()

	groups := make([]group.Group, 0, len(gw.db.groups))
	for _, row := range gw.db.groups {
		groups = append(groups, gw.build(row))
	}
	return groups, nil
}

func (gw *groupGateway) GetGroup(_ context.Context, id int) (group.Group, error) {
	gw.db.RLock()
	defer gw.db.RUnlock()

	if row, ok := gw.db.groups[id]; ok {
		return gw.build(row), nil
	}
	return group.Group{}, group.ErrNotFound
}

func (gw *groupGateway) CreateGroup(_ context.Context, ng group.NewGroup) (group.Group, error) {
	gw.db.Lock()
	defer gw.db.Unlock()

	gw.db.groupPK++
	row := &groupRow{id: gw.db.groupPK, title: ng.Title, cost: ng.Cost}
	gw.db.groups[row.id] = row
	return gw.build(row), nil
}

func (gw *groupGateway) UpdateGroup(_ context.Context, id int, ug group.UpdateGroup) (group.Group, error) {
	gw.db.Lock()
	defer gw.db.Unlock()

	row, ok := gw.db.groups[id]
	if !ok {
		return group.Group{}, group.ErrNotFound
	}
	// only save set fields
	if ug.Title != "" {
		row.title = ug.Title
	}
	if ug.Cost != nil {
		row.cost = *ug.Cost
	}
	return gw.build(row), nil
}

func (gw *groupGateway) DeleteGroup(_ context.Context, id int) error {
	gw.db.Lock()
	defer gw.db.Unlock()

	if _, ok := gw.db.groups[id]; !ok {
		return group.ErrNotFound
	}
	delete(gw.db.groups, id)
	return nil
}

func (gw *groupGateway) AttachStudent(_ context.Context, groupID, studentID int) error {
	gw.db.Lock()
	defer gw.db.Unlock()

	row, ok := gw.db.groups[groupID]
	if !ok {
		return group.ErrNotFound
	}
	if _, ok := gw.db.students[studentID]; !ok {
		return student.ErrNotFound
	}
	for _, id := range row.studentIDs {
		if id == studentID {
			return nil // already a member
		}
	}
	row.studentIDs = append(row.studentIDs, studentID)
	return nil
}

func (gw *groupGateway) DetachStudent(_ context.Context, groupID, studentID int) error {
	gw.db.Lock()
	defer gw.db.Unlock()

	row, ok := gw.db.groups[groupID]
	if !ok {
		return group.ErrNotFound
	}
	ids := row.studentIDs[:0]
	for _, id := range row.studentIDs {
		if id != studentID {
			ids = append(ids, id)
		}
	}
	row.studentIDs = ids
	return nil
}
