package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"budgettracker/internal/app"
	"budgettracker/internal/cli"
	"budgettracker/internal/core"
	"budgettracker/internal/presenter"
)

var flagFrequency string

var addReminderCmd = &cobra.Command{
	Use:     "add-reminder <name> <amount> <due-date>",
	Short:   "Add a bill reminder",
	Example: "  budgetctl add-reminder Rent 900 2024-02-01 --frequency monthly",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := dispatch(cmd.Context(), cmd.OutOrStdout(), app.IntentAddReminder, app.Input{
			"name":      args[0],
			"amount":    args[1],
			"date":      args[2],
			"frequency": flagFrequency,
		})
		return err
	},
}

var deleteReminderCmd = &cobra.Command{
	Use:   "delete-reminder <id>",
	Short: "Delete a bill reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return confirmAndDelete(cmd, app.IntentDeleteReminder, args[0])
	},
}

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "List bill reminders with their due status",
	RunE:  runReminders,
}

func init() {
	addReminderCmd.Flags().StringVarP(&flagFrequency, "frequency", "f", core.Monthly, "Label: one-time, weekly, monthly or yearly")
	deleteReminderCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(addReminderCmd, deleteReminderCmd, remindersCmd)
}

func runReminders(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	rows := presenter.ReminderRows(rt.Controller.Snapshot(), rt.Controller.Today())

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderTitle("BILL REMINDERS"))
	fmt.Fprintln(out)
	if len(rows) == 0 {
		fmt.Fprintln(out, cli.RenderMuted("  "+presenter.NoRemindersMessage))
		return nil
	}

	table := cli.Table{Headers: []string{"ID", "Name", "Frequency", "Due", "Status", "Amount"}}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", r.ID), r.Name, r.Frequency, r.Date, r.StatusText, r.Amount,
		})
		table.Styles = append(table.Styles, cli.StatusStyle(r.Status))
	}
	fmt.Fprint(out, cli.RenderTable(table))
	return nil
}
