package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/geniotutoring/studenttrack/core/session"
	"github.com/geniotutoring/studenttrack/core/student"
)

func newPaymentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Track student payments",
	}
	cmd.AddCommand(
		newPaymentsAddCmd(a),
		newPaymentsDeleteCmd(a),
		newPaymentsStatusCmd(a),
	)
	return cmd
}

func newPaymentsAddCmd(a *app) *cobra.Command {
	var amount float64
	cmd := &cobra.Command{
		Use:   "add STUDENT_ID",
		Short: "Record a payment for a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCap(cmd.Context(), session.CapCreatePayment); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid student id %q", args[0])
			}
			st, err := a.students.AddPayment(cmd.Context(), id, student.NewPayment{Amount: amount})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %.2f for %s %s (now %s, paid %.2f)\n",
				amount, st.Name, okLabel(), st.Status, st.PaidAmount)
			return nil
		},
	}
	cmd.Flags().Float64Var(&amount, "amount", 0, "Payment amount")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newPaymentsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete STUDENT_ID PAYMENT_ID",
		Short: "Remove a mistakenly recorded payment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCap(cmd.Context(), session.CapDeletePayment); err != nil {
				return err
			}
			studentID, paymentID, err := parseIDPair(args)
			if err != nil {
				return err
			}
			st, err := a.students.DeletePayment(cmd.Context(), studentID, paymentID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted payment %d for %s %s (now %s, paid %.2f)\n",
				paymentID, st.Name, okLabel(), st.Status, st.PaidAmount)
			return nil
		},
	}
}

func newPaymentsStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status STUDENT_ID",
		Short: "Show what a student still owes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCap(cmd.Context(), session.CapReadStudents); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid student id %q", args[0])
			}
			status, err := a.students.PaymentStatus(cmd.Context(), id)
			if err != nil {
				return err
			}
			if a.output == "json" {
				return printJSON(cmd.OutOrStdout(), status)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Status: %s, pending: %.2f\n", status.Status, status.PendingAmount)
			return nil
		},
	}
}
