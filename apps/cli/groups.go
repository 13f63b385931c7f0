package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geniotutoring/studenttrack/core/edit"
	"github.com/geniotutoring/studenttrack/core/group"
	"github.com/geniotutoring/studenttrack/core/session"
)

func newGroupsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage tutoring groups",
	}
	cmd.AddCommand(
		newGroupsListCmd(a),
		newGroupsShowCmd(a),
		newGroupsCreateCmd(a),
		newGroupsUpdateCmd(a),
		newGroupsDeleteCmd(a),
		newGroupsAttachCmd(a),
		newGroupsDetachCmd(a),
		newGroupsEditCmd(a),
	)
	return cmd
}

func newGroupsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all groups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireCap(cmd.Context(), session.CapReadGroups); err != nil {
				return err
			}
			groups, err := a.groups.QueryAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load groups: %w", err)
			}
			if a.output == "json" {
				return printJSON(cmd.OutOrStdout(), groups)
			}
			rows := make([][]string, 0, len(groups))
			for _, g := range groups {
				rows = append(rows, []string{
					strconv.Itoa(g.ID), g.Title, strconv.Itoa(g.Cost), strconv.Itoa(len(g.Students)),
				})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "TITLE", "COST", "STUDENTS"}, rows)
			return nil
		},
	}
}

func newGroupsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show GROUP_ID",
		Short: "Show a group and its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCap(cmd.Context(), session.CapReadGroups); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid group id %q", args[0])
			}
			grp, err := a.groups.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load group %d: %w", id, err)
			}
			if a.output == "json" {
				return printJSON(cmd.OutOrStdout(), grp)
			}
			printGroup(cmd, grp)
			return nil
		},
	}
}

func printGroup(cmd *cobra.Command, grp group.Group) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Group %d: %s (cost %d, %d students)\n", grp.ID, grp.Title, grp.Cost, len(grp.Students))
	rows := make([][]string, 0, len(grp.Students))
	for _, st := range grp.Students {
		rows = append(rows, []string{
			strconv.Itoa(st.ID), st.Name, st.Status, fmt.Sprintf("%.2f", st.PaidAmount),
		})
	}
	printTable(out, []string{"ID", "NAME", "STATUS", "PAID"}, rows)
}

func newGroupsCreateCmd(a *app) *cobra.Command {
	var (
		title string
		cost  int
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireCap(cmd.Context(), session.CapCreateGroup); err != nil {
				return err
			}
			grp, err := a.groups.Create(cmd.Context(), group.NewGroup{Title: title, Cost: cost})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created group %d %s\n", grp.ID, okLabel())
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Group title")
	cmd.Flags().IntVar(&cost, "cost", 0, "Monthly group cost")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newGroupsUpdateCmd(a *app) *cobra.Command {
	var (
		title string
		cost  int
	)
	cmd := &cobra.Command{
		Use:   "update GROUP_ID",
		Short: "Update a group's scalar fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCap(cmd.Context(), session.CapUpdateGroup); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid group id %q", args[0])
			}
			ug := group.UpdateGroup{Title: title}
			if cmd.Flags().Changed("cost") {
				ug.Cost = &cost
			}
			if ug.IsEmpty() {
				return fmt.Errorf("nothing to update; pass --title and/or --cost")
			}
			if _, err := a.groups.Update(cmd.Context(), id, ug); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated group %d %s\n", id, okLabel())
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().IntVar(&cost, "cost", 0, "New monthly cost")
	return cmd
}

func newGroupsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete GROUP_ID",
		Short: "Delete an empty group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCap(cmd.Context(), session.CapDeleteGroup); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid group id %q", args[0])
			}
			grp, err := a.groups.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load group %d: %w", id, err)
			}
			if err := a.groups.Delete(cmd.Context(), grp); err != nil {
				if err == group.ErrGroupHasStudents {
					return fmt.Errorf("group %d still has %d student(s); remove them manually first", id, len(grp.Students))
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted group %d %s\n", id, okLabel())
			return nil
		},
	}
}

func newGroupsAttachCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "attach GROUP_ID STUDENT_ID",
		Short: "Add a student to a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCap(cmd.Context(), session.CapUpdateGroup); err != nil {
				return err
			}
			groupID, studentID, err := parseIDPair(args)
			if err != nil {
				return err
			}
			st, err := a.students.Get(cmd.Context(), studentID)
			if err != nil {
				return fmt.Errorf("failed to load student %d: %w", studentID, err)
			}
			if st.InGroup(groupID) {
				fmt.Fprintf(cmd.OutOrStdout(), "Student %d is already in group %d; nothing to do.\n", studentID, groupID)
				return nil
			}
			grp, err := a.groups.Attach(cmd.Context(), groupID, studentID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Attached student %d to group %d %s\n", studentID, groupID, okLabel())
			printGroup(cmd, grp)
			return nil
		},
	}
}

func newGroupsDetachCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detach GROUP_ID STUDENT_ID",
		Short: "Remove a student from a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCap(cmd.Context(), session.CapUpdateGroup); err != nil {
				return err
			}
			groupID, studentID, err := parseIDPair(args)
			if err != nil {
				return err
			}
			if err := a.groups.Detach(cmd.Context(), groupID, studentID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Detached student %d from group %d %s\n", studentID, groupID, okLabel())
			return nil
		},
	}
}

func parseIDPair(args []string) (int, int, error) {
	first, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid id %q", args[0])
	}
	second, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid id %q", args[1])
	}
	return first, second, nil
}

func newGroupsEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit GROUP_ID",
		Short: "Interactively edit a group (staged removals, immediate adds)",
		Long: "Start an edit session on a group. Member removals and scalar changes are " +
			"staged locally and sent on `save`; `add` attaches immediately. `cancel` " +
			"discards all staged changes.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCap(cmd.Context(), session.CapUpdateGroup); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid group id %q", args[0])
			}
			grp, err := a.groups.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load group %d: %w", id, err)
			}
			return a.runGroupEditLoop(cmd, grp)
		},
	}
}

// runGroupEditLoop drives one edit session over stdin commands.
func (a *app) runGroupEditLoop(cmd *cobra.Command, grp group.Group) error {
	out := cmd.OutOrStdout()
	ed := group.NewEditor(a.groups, grp)
	if err := ed.StartEdit(); err != nil {
		return err
	}
	fmt.Fprintln(out, "Editing. Commands: show | title <t> | cost <n> | rm <student-id> | add <student-id> | save | cancel")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			// input closed mid-session: drop the draft
			if ed.State() != edit.StateViewing {
				_ = ed.CancelEdit()
			}
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "show":
			draft := ed.Draft()
			fmt.Fprintf(out, "Title: %s, Cost: %d, Members:\n", draft.Title, draft.Cost)
			for _, st := range draft.Students {
				fmt.Fprintf(out, "  %d\t%s\n", st.ID, st.Name)
			}
		case "title":
			if len(fields) < 2 {
				fmt.Fprintln(out, "usage: title <t>")
				continue
			}
			_ = ed.SetTitle(strings.Join(fields[1:], " "))
		case "cost":
			n, err := atoiArg(fields, out, "usage: cost <n>")
			if err != nil {
				continue
			}
			_ = ed.SetCost(n)
		case "rm":
			n, err := atoiArg(fields, out, "usage: rm <student-id>")
			if err != nil {
				continue
			}
			_ = ed.RemoveMember(n)
		case "add":
			n, err := atoiArg(fields, out, "usage: add <student-id>")
			if err != nil {
				continue
			}
			if err := ed.AddMember(cmd.Context(), n); err != nil {
				fmt.Fprintf(out, "add failed: %v (you may retry)\n", err)
			}
		case "save":
			result, err := ed.Commit(cmd.Context())
			if err != nil {
				return err
			}
			if result.OK() {
				fmt.Fprintf(out, "Saved %s\n", okLabel())
				printGroup(cmd, ed.Snapshot())
				return nil
			}
			fmt.Fprintf(out, "Save partially %s, still editing:\n", failLabel())
			for _, op := range result.Failed() {
				switch op.Op {
				case group.OpDetach:
					fmt.Fprintf(out, "  removing student %d failed: %v\n", op.StudentID, op.Err)
				case group.OpUpdate:
					fmt.Fprintf(out, "  updating group fields failed: %v\n", op.Err)
				}
			}
		case "cancel":
			if err := ed.CancelEdit(); err != nil {
				return err
			}
			fmt.Fprintln(out, "Cancelled; no changes saved.")
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q\n", fields[0])
		}
	}
}

func atoiArg(fields []string, out io.Writer, usage string) (int, error) {
	if len(fields) < 2 {
		fmt.Fprintln(out, usage)
		return 0, fmt.Errorf("missing argument")
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		fmt.Fprintf(out, "invalid number %q\n", fields[1])
		return 0, err
	}
	return n, nil
}
