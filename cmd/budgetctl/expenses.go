package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"budgettracker/internal/app"
	"budgettracker/internal/cli"
	"budgettracker/internal/core"
	"budgettracker/internal/presenter"
)

var (
	flagExpenseCategory string
	flagListCategory    string
	flagSort            string
	flagYes             bool
)

var addExpenseCmd = &cobra.Command{
	Use:     "add-expense <description> <amount>",
	Short:   "Record an expense dated today",
	Example: "  budgetctl add-expense Lunch 12.50 --category food",
	Args:    cobra.ExactArgs(2),
	RunE:    runAddExpense,
}

var deleteExpenseCmd = &cobra.Command{
	Use:   "delete-expense <id>",
	Short: "Delete an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteExpense,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses",
	RunE:  runList,
}

func init() {
	addExpenseCmd.Flags().StringVarP(&flagExpenseCategory, "category", "c", "other", "Expense category")
	listCmd.Flags().StringVarP(&flagListCategory, "category", "c", core.AllCategories, "Show only this category")
	listCmd.Flags().StringVarP(&flagSort, "sort", "s", string(core.SortDateDesc), "Sort order (date-desc|date-asc|amount-desc|amount-asc)")
	deleteExpenseCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(addExpenseCmd, deleteExpenseCmd, listCmd)
}

func runAddExpense(cmd *cobra.Command, args []string) error {
	_, err := dispatch(cmd.Context(), cmd.OutOrStdout(), app.IntentAddExpense, app.Input{
		"description": args[0],
		"amount":      args[1],
		"category":    flagExpenseCategory,
	})
	return err
}

func runDeleteExpense(cmd *cobra.Command, args []string) error {
	return confirmAndDelete(cmd, app.IntentDeleteExpense, args[0])
}

// confirmAndDelete asks for the command's confirmation unless --yes is set.
func confirmAndDelete(cmd *cobra.Command, intent app.Intent, id string) error {
	c, _ := app.LookupCommand(intent)
	if !flagYes && c.Confirm != "" {
		ok := false
		err := huh.NewConfirm().
			Title(c.Confirm).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&ok).
			Run()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderMuted("  Cancelled."))
			return nil
		}
	}
	_, err := dispatch(cmd.Context(), cmd.OutOrStdout(), intent, app.Input{"id": id})
	return err
}

func runList(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	state := rt.Controller.Snapshot()
	rows := presenter.ExpenseRows(state, core.ParseSortKey(flagSort), flagListCategory)

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderTitle("EXPENSES"))
	fmt.Fprintln(out)
	if len(rows) == 0 {
		fmt.Fprintln(out, cli.RenderMuted("  "+presenter.NoExpensesMessage))
		return nil
	}

	table := cli.Table{Headers: []string{"ID", "Description", "Category", "Date", "Amount"}}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", r.ID), r.Description, r.Category, r.Date, r.Amount,
		})
	}
	fmt.Fprint(out, cli.RenderTable(table))
	return nil
}
