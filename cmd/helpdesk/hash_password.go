package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskops/helpdesk/internal/auth"
)

func newHashPasswordCmd(opts *options) *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for the user directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := readLine(cmd)
				if err != nil {
					return err
				}
				password = line
			}
			if password == "" {
				return errors.New("password must not be empty")
			}
			if cost == 0 {
				cfg, err := opts.loadConfig()
				if err != nil {
					return err
				}
				cost = cfg.Auth.BcryptCost
			}
			hash, err := auth.HashPassword(password, cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 0, "bcrypt cost (default AUTH_BCRYPT_COST)")
	return cmd
}
