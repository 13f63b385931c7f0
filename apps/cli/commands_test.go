package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geniotutoring/studenttrack/core"
	"github.com/geniotutoring/studenttrack/core/group"
	"github.com/geniotutoring/studenttrack/core/session"
	"github.com/geniotutoring/studenttrack/core/student"
	dummygw "github.com/geniotutoring/studenttrack/gateway/dummy"
)

func testApp(t *testing.T) (*app, *dummygw.DB) {
	t.Helper()
	db, err := dummygw.Open()
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	sess := session.New(&session.DevTokenSource{
		Subject:     "staff",
		Secret:      "s3cr3t",
		Permissions: session.AllCapabilities,
	})
	return &app{
		conf:     core.Conf,
		sess:     sess,
		groups:   group.NewService(dummygw.NewGroupGateway(db)),
		students: student.NewService(dummygw.NewStudentGateway(db)),
		output:   "table",
	}, db
}

func runCmd(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, args)
	return out.String(), err
}

func TestGroupsAttachAlreadyMember(t *testing.T) {
	a, _ := testApp(t)
	ctx := context.Background()

	grp, err := a.groups.Create(ctx, group.NewGroup{Title: "Math A", Cost: 800})
	require.NoError(t, err)
	st, err := a.students.Create(ctx, student.NewStudent{Name: "Amine", ParentPhoneNumber: "+212612345678"})
	require.NoError(t, err)

	cmd := newGroupsAttachCmd(a)
	out, err := runCmd(t, cmd, "1", "1")
	if err != nil {
		t.Fatalf("groups attach failed: %v", err)
	}
	assert.Contains(t, out, "Attached student 1 to group 1")

	// attaching again is caught before any attach call is issued
	out, err = runCmd(t, cmd, "1", "1")
	if err != nil {
		t.Fatalf("groups attach failed: %v", err)
	}
	assert.Contains(t, out, "already in group 1; nothing to do")

	got, err := a.groups.Get(ctx, grp.ID)
	require.NoError(t, err)
	require.Len(t, got.Students, 1)
	assert.Equal(t, st.ID, got.Students[0].ID)
}

func TestLogoutWithoutSession(t *testing.T) {
	a := &app{conf: core.Conf, sess: session.New(nil)}

	cmd := newLogoutCmd(a)
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.Run(cmd, nil)
	assert.Contains(t, out.String(), "No active session.")
}

func TestLogoutTearsDownSession(t *testing.T) {
	a, _ := testApp(t)
	require.True(t, a.sess.Authenticated())

	cmd := newLogoutCmd(a)
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.Run(cmd, nil)
	assert.Contains(t, out.String(), "Logged out.")
	assert.False(t, a.sess.Authenticated())
}
