package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geniotutoring/studenttrack/core"
	"github.com/geniotutoring/studenttrack/core/student"
)

func TestPendingDigest(t *testing.T) {
	conf := &core.Config{OperatorEmail: "ops@geniotutoring.com"}
	pending := []student.Student{
		{
			Name:              "Amine Benali",
			ParentPhoneNumber: "+212612345678",
			PaidAmount:        150,
			Groups:            []student.GroupRef{{ID: 7, Title: "Math A", Cost: 800}},
		},
		{
			Name:              "Sara Amrani",
			ParentPhoneNumber: "+212698765432",
			Groups: []student.GroupRef{
				{ID: 7, Title: "Math A", Cost: 800},
				{ID: 8, Title: "Physics B", Cost: 600},
			},
		},
	}

	msg := pendingDigest(conf, pending)
	require.Len(t, msg.To, 1)
	assert.Equal(t, "ops@geniotutoring.com", msg.To[0].Address)
	assert.True(t, msg.HasContent())
	assert.Contains(t, msg.TextContent, "2 student(s)")
	assert.Contains(t, msg.TextContent, "Amine Benali (parent: +212612345678): paid 150.00 of 800.00")
	assert.Contains(t, msg.TextContent, "Sara Amrani (parent: +212698765432): paid 0.00 of 1400.00")
}
