package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"budgettracker/internal/amqp"
	"budgettracker/internal/cli"
	"budgettracker/internal/core"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Follow state events published to AMQP",
	Long:  "Consume the state event queue and print each event until interrupted. Requires AMQP_URL.",
	RunE:  runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, _ []string) error {
	if rt.Events == nil {
		return errors.New("AMQP is disabled, set AMQP_URL")
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.RenderMuted("  Waiting for events, press Ctrl+C to stop."))

	err := rt.Events.Consume(cmd.Context(), func(e *amqp.StateEvent) error {
		amount := core.Money{Cents: e.AmountCents}
		_, err := fmt.Fprintf(out, "  %s  %-16s id=%d amount=%s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Type, e.ID, amount.Fixed())
		return err
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
