package core

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/shopspring/decimal"
)

type (
	SortKey        string
	ColorTier      string
	ReminderStatus string
)

const (
	SortDateDesc   SortKey = "date-desc"
	SortDateAsc    SortKey = "date-asc"
	SortAmountDesc SortKey = "amount-desc"
	SortAmountAsc  SortKey = "amount-asc"
)

const (
	TierGreen  ColorTier = "green"
	TierYellow ColorTier = "yellow"
	TierRed    ColorTier = "red"
)

const (
	StatusOverdue  ReminderStatus = "overdue"
	StatusDueSoon  ReminderStatus = "due-soon"
	StatusUpcoming ReminderStatus = "upcoming"
)

// DueSoonDays is the inclusive window, counted from today, in which a
// reminder is due soon.
const DueSoonDays = 3

// yellowThreshold is the spending percentage at which the tier turns yellow.
const yellowThreshold = 50

// SortKeys lists the sort keys in display order.
var SortKeys = []SortKey{SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc}

// ParseSortKey maps a control value to a sort key. Unknown values fall back
// to date-desc.
func ParseSortKey(s string) SortKey {
	k := SortKey(s)
	if slices.Contains(SortKeys, k) {
		return k
	}
	return SortDateDesc
}

// FilterByCategory returns the expenses in category, preserving order. The
// "all" wildcard returns the input unchanged.
func FilterByCategory(expenses []Expense, category string) []Expense {
	if category == AllCategories {
		return expenses
	}
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// SortExpenses returns a sorted copy of expenses. Ties keep their relative
// order.
func SortExpenses(expenses []Expense, key SortKey) []Expense {
	out := slices.Clone(expenses)
	var compare func(a, b Expense) int
	switch key {
	case SortDateAsc:
		compare = func(a, b Expense) int { return a.Date.Compare(b.Date.Time) }
	case SortAmountDesc:
		compare = func(a, b Expense) int { return cmp.Compare(b.Amount.Cents, a.Amount.Cents) }
	case SortAmountAsc:
		compare = func(a, b Expense) int { return cmp.Compare(a.Amount.Cents, b.Amount.Cents) }
	default:
		compare = func(a, b Expense) int { return b.Date.Compare(a.Date.Time) }
	}
	slices.SortStableFunc(out, compare)
	return out
}

// TotalSpent sums every expense. Callers pass the full collection, never a
// filtered view.
func TotalSpent(expenses []Expense) Money {
	var total int64
	for _, e := range expenses {
		total += e.Amount.Cents
	}
	return Money{Cents: total}
}

func Remaining(budget, spent Money) Money {
	return budget.Sub(spent)
}

// SpendingPercentage returns spent as a percentage of budget, or 0 when no
// positive budget is set.
func SpendingPercentage(budget, spent Money) float64 {
	if budget.Cents <= 0 {
		return 0
	}
	pct, _ := spent.Decimal().Div(budget.Decimal()).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// BudgetColorTier picks the dashboard colour. Over budget wins over the
// percentage threshold.
func BudgetColorTier(remaining Money, spendingPercentage float64) ColorTier {
	switch {
	case remaining.Cents < 0:
		return TierRed
	case spendingPercentage >= yellowThreshold:
		return TierYellow
	default:
		return TierGreen
	}
}

// DaysUntilDue returns the ceiling of due minus today in whole days.
func DaysUntilDue(today, due Date) int {
	return int(math.Ceil(due.Sub(today.Time).Hours() / 24))
}

func ReminderStatusFor(days int) ReminderStatus {
	switch {
	case days < 0:
		return StatusOverdue
	case days <= DueSoonDays:
		return StatusDueSoon
	default:
		return StatusUpcoming
	}
}

// DueMessage is the human status line for a reminder days away.
func DueMessage(days int) string {
	if days < 0 {
		return fmt.Sprintf("Overdue by %d days", -days)
	}
	return fmt.Sprintf("Due in %d days", days)
}

// OverdueReminders returns the reminders whose due date is before today.
func OverdueReminders(today Date, reminders []Reminder) []Reminder {
	var out []Reminder
	for _, r := range reminders {
		if DaysUntilDue(today, r.Date) < 0 {
			out = append(out, r)
		}
	}
	return out
}
