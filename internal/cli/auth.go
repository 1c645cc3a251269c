package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func loginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as an admin and keep the session for later commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("TMAN_PASSWORD")
			}
			if password == "" {
				line, err := readLine(cmd, "Password: ")
				if err != nil {
					return err
				}
				password = line
			}

			if err := a.outcome(cmd, a.ctl.Login(cmd.Context(), email, password)); err != nil {
				return err
			}

			s := a.ctl.State()
			return a.print(cmd, s.Admin, func(p *printer) {
				p.line("Logged in as %s", s.Admin.Email)
				p.line("Creators: %d", len(s.Creators))
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (default $TMAN_PASSWORD, then prompt)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the admin session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.ctl.Logout(cmd.Context())
			return a.print(cmd, map[string]bool{"loggedOut": true}, func(p *printer) {
				p.line("Logged out")
			})
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			s := a.ctl.State()
			return a.print(cmd, s.Admin, func(p *printer) {
				p.line("%s (%s)", s.Admin.Email, s.Admin.ID)
				if !s.Admin.ExpiresAt.IsZero() {
					p.line("Session expires %s", s.Admin.ExpiresAt.Local().Format(dateTimeFormat))
				}
			})
		},
	}
}

func forgotCmd(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot",
		Short: "Request a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ack := a.ctl.ForgotPassword(cmd.Context(), strings.TrimSpace(email))
			if ack == "" {
				return errors.New("an email is required")
			}
			return a.print(cmd, map[string]string{"message": ack}, func(p *printer) {
				p.line("%s", ack)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func resetCmd(a *app) *cobra.Command {
	var token, password string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password using a reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				line, err := readLine(cmd, "New password: ")
				if err != nil {
					return err
				}
				password = line
			}
			msg, err := a.client.ResetPassword(cmd.Context(), token, password)
			if err != nil {
				return describe(err)
			}
			return a.print(cmd, map[string]string{"message": msg}, func(p *printer) {
				p.line("%s", msg)
			})
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Reset token")
	cmd.Flags().StringVar(&password, "password", "", "New password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func readLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
