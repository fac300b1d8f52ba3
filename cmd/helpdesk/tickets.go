package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/deskops/helpdesk/internal/app"
	"github.com/deskops/helpdesk/internal/domain"
	"github.com/deskops/helpdesk/internal/service"
)

func newTicketCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Work with tickets",
	}
	cmd.AddCommand(
		newTicketCreateCmd(opts),
		newTicketListCmd(opts),
		newTicketShowCmd(opts),
		newTicketStartCmd(opts),
		newTicketFinishCmd(opts),
	)
	return cmd
}

func newTicketCreateCmd(opts *options) *cobra.Command {
	var input service.OpenTicketInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a ticket as the signed-in user",
		RunE: withDesk(opts, func(cmd *cobra.Command, args []string, desk *app.App) error {
			ticket, err := desk.Tickets.Open(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printTicket(cmd, opts, ticket)
		}),
	}
	cmd.Flags().StringVar(&input.Sector, "sector", "", "Sector the requester works in")
	cmd.Flags().StringVar(&input.ProblemType, "problem-type", "", "Kind of problem")
	cmd.Flags().StringVar(&input.Description, "description", "", "What is wrong")
	cmd.Flags().StringVar(&input.Urgency, "urgency", "", "Urgent, Medium or Moderate")
	return cmd
}

func newTicketListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List visible tickets (all for admins, own otherwise)",
		RunE: withDesk(opts, func(cmd *cobra.Command, args []string, desk *app.App) error {
			tickets, err := desk.Tickets.Visible(cmd.Context())
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return writeJSON(cmd, tickets)
			}
			if len(tickets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tickets")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tURGENCY\tSECTOR\tPROBLEM\tREQUESTER\tCREATED")
			for _, t := range tickets {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Status, t.Urgency, t.Sector, t.ProblemType, t.Requester.Name, t.CreatedAt.Format(time.DateTime))
			}
			return w.Flush()
		}),
	}
}

func newTicketShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show ticket details and history",
		Args:  cobra.ExactArgs(1),
		RunE: withDesk(opts, func(cmd *cobra.Command, args []string, desk *app.App) error {
			ticket, err := desk.Tickets.Ticket(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printTicket(cmd, opts, ticket)
		}),
	}
}

func newTicketStartCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start service on a pending ticket (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: withDesk(opts, func(cmd *cobra.Command, args []string, desk *app.App) error {
			ticket, err := desk.Tickets.StartService(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printTicket(cmd, opts, ticket)
		}),
	}
}

func newTicketFinishCmd(opts *options) *cobra.Command {
	var solution, cost string
	cmd := &cobra.Command{
		Use:   "finish <id>",
		Short: "Finish a ticket with a solution (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: withDesk(opts, func(cmd *cobra.Command, args []string, desk *app.App) error {
			ticket, err := desk.Tickets.FinishService(cmd.Context(), args[0], solution, cost)
			if err != nil {
				return err
			}
			return printTicket(cmd, opts, ticket)
		}),
	}
	cmd.Flags().StringVar(&solution, "solution", "", "What fixed it")
	cmd.Flags().StringVar(&cost, "cost", "", "Cost of the service, e.g. 25.50 or 25,50")
	return cmd
}

func printTicket(cmd *cobra.Command, opts *options, t *domain.Ticket) error {
	if opts.jsonOut {
		return writeJSON(cmd, t)
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", t.ID)
	fmt.Fprintf(w, "Status:\t%s\n", t.Status)
	fmt.Fprintf(w, "Urgency:\t%s\n", t.Urgency)
	fmt.Fprintf(w, "Requester:\t%s\n", t.Requester.Name)
	fmt.Fprintf(w, "Sector:\t%s\n", t.Sector)
	fmt.Fprintf(w, "Problem:\t%s\n", t.ProblemType)
	fmt.Fprintf(w, "Description:\t%s\n", t.Description)
	if t.StartTime != nil {
		fmt.Fprintf(w, "Started:\t%s\n", t.StartTime.Format(time.DateTime))
	}
	if t.EndTime != nil {
		fmt.Fprintf(w, "Finished:\t%s\n", t.EndTime.Format(time.DateTime))
	}
	if t.Solution != "" {
		fmt.Fprintf(w, "Solution:\t%s\n", t.Solution)
	}
	if t.Cost != nil {
		fmt.Fprintf(w, "Cost:\t%s\n", t.Cost.StringFixed(2))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "History:")
	for _, h := range t.History {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n", h.Timestamp.Format(time.DateTime), h.Description)
	}
	return nil
}
