package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"budgettracker/internal/app"
	"budgettracker/internal/cli"
	"budgettracker/internal/presenter"
)

var setBudgetCmd = &cobra.Command{
	Use:   "set-budget <amount>",
	Short: "Set the monthly budget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := dispatch(cmd.Context(), cmd.OutOrStdout(), app.IntentSetBudget, app.Input{"amount": args[0]})
		return err
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Budget, spending and remaining amount",
	RunE:  runDashboard,
}

func init() {
	rootCmd.AddCommand(setBudgetCmd, dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	state := rt.Controller.Snapshot()
	view := presenter.Dashboard(state)

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderTitle("MONTHLY BUDGET"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderLabelValue("Budget", view.Budget, cli.TextStyle()))
	fmt.Fprintln(out, cli.RenderLabelValue("Spent", fmt.Sprintf("%s (%.0f%%)", view.Spent, view.Percentage), cli.TextStyle()))
	fmt.Fprintln(out, cli.RenderLabelValue("Remaining", view.Remaining, cli.TierStyle(view.Tier)))

	if n, ok := presenter.OverdueNotice(state, rt.Controller.Today()); ok {
		fmt.Fprintln(out)
		fmt.Fprintln(out, cli.RenderNotification(n))
	}
	fmt.Fprintln(out)
	return nil
}
