package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deskops/helpdesk/internal/app"
	"github.com/deskops/helpdesk/internal/domain"
)

func newSignInCmd(opts *options) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "sign-in",
		Short: "Sign in to this profile",
		Long:  `Sign in with an email and password from the user directory. The password is read from stdin when --password is not given.`,
		RunE: withDesk(opts, func(cmd *cobra.Command, args []string, desk *app.App) error {
			if password == "" {
				line, err := readLine(cmd)
				if err != nil {
					return err
				}
				password = line
			}
			identity, err := desk.Sessions.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return printIdentity(cmd, opts, identity, "Signed in as")
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSignOutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sign-out",
		Short: "End the current session",
		RunE: withDesk(opts, func(cmd *cobra.Command, args []string, desk *app.App) error {
			if err := desk.Sessions.SignOut(cmd.Context()); err != nil {
				return err
			}
			if opts.jsonOut {
				return writeJSON(cmd, map[string]bool{"signedOut": true})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		}),
	}
}

func newWhoamiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: withDesk(opts, func(cmd *cobra.Command, args []string, desk *app.App) error {
			identity, ok := desk.Sessions.Current()
			if !ok {
				return domain.ErrNotSignedIn
			}
			return printIdentity(cmd, opts, identity, "Signed in as")
		}),
	}
}

func printIdentity(cmd *cobra.Command, opts *options, identity domain.Identity, prefix string) error {
	if opts.jsonOut {
		return writeJSON(cmd, identity)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s <%s> (%s)\n", prefix, identity.DisplayName, identity.Email, identity.Role)
	return nil
}

func readLine(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
