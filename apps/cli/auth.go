package main

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/geniotutoring/studenttrack/core/session"
)

var readPasswordFunc = term.ReadPassword // mockable

func newLoginCmd(a *app) *cobra.Command {
	var (
		dev         bool
		subject     string
		permissions []string
		expires     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain a bearer token and verify the session",
		Long: "Fetch a token from the configured auth provider (client credentials), or " +
			"self-sign a dev token with --dev. Nothing is persisted: export the printed " +
			"token for subsequent commands.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var src session.TokenSource
			if dev {
				secret := a.conf.AuthDevSecret
				if secret == "" {
					fmt.Fprint(cmd.OutOrStdout(), "Enter dev signing secret:")
					pwd, err := readPasswordFunc(syscall.Stdin)
					fmt.Fprintln(cmd.OutOrStdout())
					if err != nil {
						return err
					}
					secret = string(pwd)
				}
				if secret == "" {
					return errors.New("a dev signing secret is required")
				}
				src = &session.DevTokenSource{
					Subject:     subject,
					Secret:      secret,
					Permissions: permissions,
					Expiry:      expires,
				}
			} else {
				if a.conf.AuthClientID == "" || a.conf.AuthTokenURL == "" {
					return errors.New("no auth credentials configured; set client id/secret and token URL, or use --dev")
				}
				src = session.NewClientCredentialsTokenSource(a.conf)
			}

			sess := session.New(src)
			if err := sess.Refresh(cmd.Context()); err != nil {
				return err
			}
			token, err := sess.Token(cmd.Context())
			if err != nil {
				return err
			}

			caps := session.CapabilitiesOf(sess).List()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in. Granted: %s\n", strings.Join(caps, ", "))
			fmt.Fprintf(cmd.OutOrStdout(), "export %s_AUTHTOKEN=%s\n", a.conf.Env, token)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dev, "dev", false, "Self-sign a HS256 dev token instead of calling the auth provider")
	cmd.Flags().StringVar(&subject, "subject", "staff", "Subject of the dev token")
	cmd.Flags().StringSliceVar(&permissions, "permissions", session.AllCapabilities, "Permissions embedded in the dev token")
	cmd.Flags().DurationVar(&expires, "expires", 24*time.Hour, "Dev token expiry")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Tear down the in-memory session",
		Run: func(cmd *cobra.Command, _ []string) {
			if !a.sess.Authenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "No active session.")
				return
			}
			a.sess.Logout()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged out. Unset %s_AUTHTOKEN if exported.\n", a.conf.Env)
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session's claims and granted actions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.sess.Token(cmd.Context()); err != nil {
				return err
			}
			claims := a.sess.Claims()
			if claims == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Token claims could not be decoded; no actions available.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Subject:  %s\n", claims.Subject)
			fmt.Fprintf(cmd.OutOrStdout(), "Audience: %s\n", claims.Audience)
			if claims.ExpiresAt > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Expires:  %s\n", time.Unix(claims.ExpiresAt, 0).UTC().Format(time.RFC3339))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Granted:  %s\n", strings.Join(session.CapabilitiesOf(a.sess).List(), ", "))
			return nil
		},
	}
}
