package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskops/helpdesk/internal/app"
	"github.com/deskops/helpdesk/internal/config"
	"github.com/deskops/helpdesk/internal/observability"
	"github.com/deskops/helpdesk/internal/service"
)

type options struct {
	loadConfig func() (*config.Config, error)
	jsonOut    bool
	logLevel   string
}

func newRootCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	opts := &options{loadConfig: loadConfig}

	root := &cobra.Command{
		Use:          "helpdesk",
		Short:        "Help-desk tickets for this profile",
		Long:         `Open, triage and resolve support tickets. State lives in the profile storage configured through the environment (STORAGE_BACKEND, HELPDESK_DATA_DIR).`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "Output as JSON")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level, written to stderr")

	root.AddCommand(
		newSignInCmd(opts),
		newSignOutCmd(opts),
		newWhoamiCmd(opts),
		newTicketCmd(opts),
		newHashPasswordCmd(opts),
	)
	return root
}

// withDesk opens the profile for the duration of one command.
func withDesk(opts *options, run func(cmd *cobra.Command, args []string, desk *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := opts.loadConfig()
		if err != nil {
			return err
		}
		local := *cfg
		local.Logger = config.LoggerConfig{Level: opts.logLevel, Format: "console", Output: "stderr"}

		logger, err := observability.NewLogger(local.Logger)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer logger.Sync() //nolint:errcheck

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		desk, err := app.New(ctx, &local, logger, app.Options{
			Notices: func(n service.Notice) {
				if !opts.jsonOut {
					fmt.Fprintln(cmd.ErrOrStderr(), n.Message)
				}
			},
		})
		if err != nil {
			return err
		}
		defer desk.Close()

		return run(cmd, args, desk)
	}
}
