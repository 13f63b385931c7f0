package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/geniotutoring/studenttrack/core"
	"github.com/geniotutoring/studenttrack/core/group"
	"github.com/geniotutoring/studenttrack/core/session"
	"github.com/geniotutoring/studenttrack/core/student"
	"github.com/geniotutoring/studenttrack/gateway/httpapi"
	emailsvc "github.com/geniotutoring/studenttrack/services/email"
	sendgridmail "github.com/geniotutoring/studenttrack/services/email/sendgrid"
	logsvc "github.com/geniotutoring/studenttrack/services/logger"
)

// app carries the wired services shared by all commands.
type app struct {
	conf     *core.Config
	sess     *session.Session
	logger   core.Logger
	groups   *group.Service
	students *student.Service
	mailer   core.EmailService
	output   string
}

func execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		apiURL string
		token  string
		output string
	)
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "studenttrack",
		Short:         "StudentTrack back-office CLI",
		Long:          "Manage tutoring groups, students and payments against the StudentTrack API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if output != "table" && output != "json" {
				return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", output)
			}
			conf := core.Conf
			// precedence: flag > env/config
			if cmd.Flags().Changed("api-url") {
				conf.APIBaseURL = apiURL
			}
			if cmd.Flags().Changed("token") {
				conf.AuthToken = token
			}

			a.conf = conf
			a.output = output
			a.sess = session.New(tokenSourceFor(conf))

			client := httpapi.NewClient(conf, a.sess)
			a.groups = group.NewService(httpapi.NewGroupGateway(client))
			a.students = student.NewService(httpapi.NewStudentGateway(client))

			std := log.New(os.Stderr, "", log.LstdFlags)
			if conf.RollbarToken != "" {
				a.logger = logsvc.NewRollbarLogger(std, conf)
			} else {
				a.logger = logsvc.NewConsoleLogger(std)
			}
			if conf.SendgridAPIKey != "" {
				a.mailer = sendgridmail.NewService(conf, a.logger)
			} else {
				a.mailer = emailsvc.NewConsoleService()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", core.Conf.APIBaseURL, "Base URL of the StudentTrack API")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token (overrides configured credentials)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")

	rootCmd.AddCommand(newLoginCmd(a))
	rootCmd.AddCommand(newLogoutCmd(a))
	rootCmd.AddCommand(newWhoamiCmd(a))
	rootCmd.AddCommand(newGroupsCmd(a))
	rootCmd.AddCommand(newStudentsCmd(a))
	rootCmd.AddCommand(newPaymentsCmd(a))
	rootCmd.AddCommand(newRemindCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func tokenSourceFor(conf *core.Config) session.TokenSource {
	switch {
	case conf.AuthToken != "":
		return session.NewStaticTokenSource(conf.AuthToken)
	case conf.AuthClientID != "" && conf.AuthTokenURL != "":
		return session.NewClientCredentialsTokenSource(conf)
	}
	return nil
}

// requireCap refreshes the session as needed and checks the capability
// locally, before any resource call goes out. Missing capabilities never
// reach the backend.
func (a *app) requireCap(ctx context.Context, tag string) error {
	if _, err := a.sess.Token(ctx); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return errors.New("not logged in; run `studenttrack login` or set a token")
		}
		return err
	}
	if !a.sess.HasCapability(tag) {
		return fmt.Errorf("action unavailable: missing %q permission", tag)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", core.Conf.AppName, core.Conf.Build)
		},
	}
}
