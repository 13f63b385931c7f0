package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/geniotutoring/studenttrack/core/session"
	"github.com/geniotutoring/studenttrack/core/student"
)

func newStudentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "Manage students",
	}
	cmd.AddCommand(
		newStudentsListCmd(a),
		newStudentsShowCmd(a),
		newStudentsSearchCmd(a),
		newStudentsCreateCmd(a),
		newStudentsUpdateCmd(a),
		newStudentsDeleteCmd(a),
	)
	return cmd
}

func newStudentsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all students",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireCap(cmd.Context(), session.CapReadStudents); err != nil {
				return err
			}
			students, err := a.students.QueryAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load students: %w", err)
			}
			return printStudents(cmd, a.output, students)
		},
	}
}

func newStudentsSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Search students by name, most similar first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCap(cmd.Context(), session.CapReadStudents); err != nil {
				return err
			}
			students, err := a.students.Search(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			return printStudents(cmd, a.output, students)
		},
	}
}

func printStudents(cmd *cobra.Command, output string, students []student.Student) error {
	if output == "json" {
		return printJSON(cmd.OutOrStdout(), students)
	}
	rows := make([][]string, 0, len(students))
	for _, st := range students {
		rows = append(rows, []string{
			strconv.Itoa(st.ID), st.Name, st.ParentPhoneNumber, st.Status,
			fmt.Sprintf("%.2f", st.PaidAmount), strconv.Itoa(len(st.Groups)),
		})
	}
	printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "PARENT PHONE", "STATUS", "PAID", "GROUPS"}, rows)
	return nil
}

func newStudentsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show STUDENT_ID",
		Short: "Show a student with groups and payments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCap(cmd.Context(), session.CapReadStudents); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid student id %q", args[0])
			}
			st, err := a.students.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load student %d: %w", id, err)
			}
			if a.output == "json" {
				return printJSON(cmd.OutOrStdout(), st)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Student %d: %s (%s, paid %.2f)\n", st.ID, st.Name, st.Status, st.PaidAmount)
			fmt.Fprintf(out, "Parent phone: %s\n", st.ParentPhoneNumber)
			if len(st.Groups) > 0 {
				rows := make([][]string, 0, len(st.Groups))
				for _, g := range st.Groups {
					rows = append(rows, []string{strconv.Itoa(g.ID), g.Title, strconv.Itoa(g.Cost)})
				}
				fmt.Fprintln(out, "Groups:")
				printTable(out, []string{"ID", "TITLE", "COST"}, rows)
			}
			if len(st.Payments) > 0 {
				rows := make([][]string, 0, len(st.Payments))
				for _, p := range st.Payments {
					rows = append(rows, []string{strconv.Itoa(p.ID), fmt.Sprintf("%.2f", p.Amount), p.CreatedAt.Format("2006-01-02")})
				}
				fmt.Fprintln(out, "Payments:")
				printTable(out, []string{"ID", "AMOUNT", "DATE"}, rows)
			}
			return nil
		},
	}
}

func newStudentsCreateCmd(a *app) *cobra.Command {
	var (
		name  string
		phone string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a student",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireCap(cmd.Context(), session.CapCreateStudent); err != nil {
				return err
			}
			st, err := a.students.Create(cmd.Context(), student.NewStudent{
				Name:              name,
				ParentPhoneNumber: phone,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created student %d %s\n", st.ID, okLabel())
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Student name")
	cmd.Flags().StringVar(&phone, "parent-phone", "", "Parent phone number")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("parent-phone")
	return cmd
}

func newStudentsUpdateCmd(a *app) *cobra.Command {
	var (
		name  string
		phone string
	)
	cmd := &cobra.Command{
		Use:   "update STUDENT_ID",
		Short: "Update a student's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCap(cmd.Context(), session.CapUpdateStudent); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid student id %q", args[0])
			}
			st, err := a.students.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load student %d: %w", id, err)
			}

			// edit session over the fetched snapshot; flag omission keeps
			// the current value
			ed := student.NewEditor(a.students, st)
			if err := ed.StartEdit(); err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				_ = ed.SetName(name)
			}
			if cmd.Flags().Changed("parent-phone") {
				_ = ed.SetParentPhoneNumber(phone)
			}
			if err := ed.Commit(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated student %d %s\n", id, okLabel())
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&phone, "parent-phone", "", "New parent phone number")
	return cmd
}

func newStudentsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete STUDENT_ID",
		Short: "Delete a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCap(cmd.Context(), session.CapDeleteStudent); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid student id %q", args[0])
			}
			if err := a.students.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted student %d %s\n", id, okLabel())
			return nil
		},
	}
}
