package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/geniotutoring/studenttrack/core/group"
)

type groupGateway struct {
	c *Client
}

var _ group.Gateway = (*groupGateway)(nil) // interface compliance check

func NewGroupGateway(c *Client) group.Gateway {
	return &groupGateway{c: c}
}

func (gw *groupGateway) QueryAllGroups(ctx context.Context) ([]group.Group, error) {
	var groups []group.Group
	if err := gw.c.do(ctx, http.MethodGet, "/groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (gw *groupGateway) GetGroup(ctx context.Context, id int) (group.Group, error) {
	var grp group.Group
	if err := gw.c.do(ctx, http.MethodGet, fmt.Sprintf("/groups/%d", id), nil, &grp); err != nil {
		if IsNotFound(err) {
			return group.Group{}, group.ErrNotFound
		}
		return group.Group{}, err
	}
	return grp, nil
}

func (gw *groupGateway) CreateGroup(ctx context.Context, ng group.NewGroup) (group.Group, error) {
	var grp group.Group
	if err := gw.c.do(ctx, http.MethodPost, "/groups", ng, &grp); err != nil {
		return group.Group{}, err
	}
	return grp, nil
}

func (gw *groupGateway) UpdateGroup(ctx context.Context, id int, ug group.UpdateGroup) (group.Group, error) {
	var grp group.Group
	if err := gw.c.do(ctx, http.MethodPatch, fmt.Sprintf("/groups/%d", id), ug, &grp); err != nil {
		if IsNotFound(err) {
			return group.Group{}, group.ErrNotFound
		}
		return group.Group{}, err
	}
	return grp, nil
}

func (gw *groupGateway) DeleteGroup(ctx context.Context, id int) error {
	err := gw.c.do(ctx, http.MethodDelete, fmt.Sprintf("/groups/%d", id), nil, nil)
	if IsNotFound(err) {
		return group.ErrNotFound
	}
	return err
}

func (gw *groupGateway) AttachStudent(ctx context.Context, groupID, studentID int) error {
	body := map[string]int{"student_id": studentID}
	return gw.c.do(ctx, http.MethodPost, fmt.Sprintf("/groups/%d/students", groupID), body, nil)
}

func (gw *groupGateway) DetachStudent(ctx context.Context, groupID, studentID int) error {
	return gw.c.do(ctx, http.MethodDelete, fmt.Sprintf("/groups/%d/students/%d", groupID, studentID), nil, nil)
}
