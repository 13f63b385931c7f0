package main

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geniotutoring/studenttrack/core"
	"github.com/geniotutoring/studenttrack/core/session"
	"github.com/geniotutoring/studenttrack/core/student"
)

// newRemindCmd builds the pending-payments digest and mails it to the
// operator address.
func newRemindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Email the operator a digest of students with pending payments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireCap(cmd.Context(), session.CapReadStudents); err != nil {
				return err
			}
			if a.conf.OperatorEmail == "" {
				return errors.New("no operator email configured; set OPERATOREMAIL")
			}
			students, err := a.students.QueryAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load students: %w", err)
			}

			var pending []student.Student
			for _, st := range students {
				if st.Status == student.StatusPending {
					pending = append(pending, st)
				}
			}
			if len(pending) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pending payments; nothing to send.")
				return nil
			}

			a.mailer.SendMessages(pendingDigest(a.conf, pending))
			fmt.Fprintf(cmd.OutOrStdout(), "Sent digest of %d student(s) to %s %s\n",
				len(pending), a.conf.OperatorEmail, okLabel())
			return nil
		},
	}
}

func pendingDigest(conf *core.Config, pending []student.Student) *core.EmailMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "The following %d student(s) have pending payments:\n\n", len(pending))
	for _, st := range pending {
		owed := 0.0
		for _, g := range st.Groups {
			owed += float64(g.Cost)
		}
		fmt.Fprintf(&b, "- %s (parent: %s): paid %.2f of %.2f\n",
			st.Name, st.ParentPhoneNumber, st.PaidAmount, owed)
	}
	return &core.EmailMessage{
		To:          []mail.Address{{Address: conf.OperatorEmail}},
		Subject:     "Pending payments digest",
		TextContent: b.String(),
	}
}
