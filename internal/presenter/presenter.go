// Package presenter turns application state into display-ready values
// shared by the web and terminal surfaces.
package presenter

import (
	"fmt"

	"budgettracker/internal/app"
	"budgettracker/internal/core"
)

// DisplayDateLayout renders dates as e.g. "Jan 10, 2024".
const DisplayDateLayout = "Jan 2, 2006"

const (
	NoExpensesMessage  = "No expenses added yet. Start tracking your spending!"
	NoRemindersMessage = "No reminders set. Add your recurring bills!"
)

type DashboardView struct {
	Budget     string
	Spent      string
	Remaining  string
	Percentage float64
	Tier       core.ColorTier
	// TierClass is the CSS class of the remaining amount.
	TierClass string
}

type ExpenseRow struct {
	ID          int64
	Description string
	Category    string
	Date        string
	Amount      string
}

type ReminderRow struct {
	ID        int64
	Name      string
	Frequency string
	Date      string
	Amount    string
	Status    core.ReminderStatus
	// StatusClass is empty for upcoming reminders.
	StatusClass string
	StatusText  string
}

// FormatMoney renders an amount as "$1234.50".
func FormatMoney(m core.Money) string {
	return "$" + m.Fixed()
}

func FormatDate(d core.Date) string {
	return d.Format(DisplayDateLayout)
}

// Dashboard summarizes the budget against everything spent so far.
func Dashboard(state app.State) DashboardView {
	spent := core.TotalSpent(state.Expenses)
	remaining := core.Remaining(state.Budget, spent)
	pct := core.SpendingPercentage(state.Budget, spent)
	tier := core.BudgetColorTier(remaining, pct)
	return DashboardView{
		Budget:     FormatMoney(state.Budget),
		Spent:      FormatMoney(spent),
		Remaining:  FormatMoney(remaining),
		Percentage: pct,
		Tier:       tier,
		TierClass:  "remaining-" + string(tier),
	}
}

// ExpenseRows filters expenses by category, then sorts them by key.
func ExpenseRows(state app.State, key core.SortKey, category string) []ExpenseRow {
	visible := core.SortExpenses(core.FilterByCategory(state.Expenses, category), key)
	rows := make([]ExpenseRow, 0, len(visible))
	for _, e := range visible {
		rows = append(rows, ExpenseRow{
			ID:          e.ID,
			Description: e.Description,
			Category:    e.Category,
			Date:        FormatDate(e.Date),
			Amount:      FormatMoney(e.Amount),
		})
	}
	return rows
}

// ReminderRows lists reminders in stored order with their dueness relative
// to today.
func ReminderRows(state app.State, today core.Date) []ReminderRow {
	rows := make([]ReminderRow, 0, len(state.Reminders))
	for _, r := range state.Reminders {
		days := core.DaysUntilDue(today, r.Date)
		status := core.ReminderStatusFor(days)
		class := string(status)
		if status == core.StatusUpcoming {
			class = ""
		}
		rows = append(rows, ReminderRow{
			ID:          r.ID,
			Name:        r.Name,
			Frequency:   r.Frequency,
			Date:        FormatDate(r.Date),
			Amount:      FormatMoney(r.Amount),
			Status:      status,
			StatusClass: class,
			StatusText:  core.DueMessage(days),
		})
	}
	return rows
}

// OverdueNotice returns the start-up warning, or false when nothing is
// overdue.
func OverdueNotice(state app.State, today core.Date) (app.Notification, bool) {
	n := len(core.OverdueReminders(today, state.Reminders))
	if n == 0 {
		return app.Notification{}, false
	}
	return app.Notification{
		Kind:    app.NotifyWarning,
		Message: fmt.Sprintf("You have %d overdue bill(s)!", n),
	}, true
}
