package core

import (
	"slices"
	"testing"
)

func sampleExpenses() []Expense {
	return []Expense{
		{ID: 5, Description: "Lunch", Amount: Money{Cents: 1200}, Category: "food", Date: NewDate(2024, 1, 12)},
		{ID: 4, Description: "Bus", Amount: Money{Cents: 250}, Category: "transport", Date: NewDate(2024, 1, 11)},
		{ID: 3, Description: "Coffee", Amount: Money{Cents: 450}, Category: "food", Date: NewDate(2024, 1, 10)},
		{ID: 2, Description: "Cinema", Amount: Money{Cents: 1200}, Category: "entertainment", Date: NewDate(2024, 1, 9)},
		{ID: 1, Description: "Groceries", Amount: Money{Cents: 6000}, Category: "food", Date: NewDate(2024, 1, 8)},
	}
}

func ids(expenses []Expense) []int64 {
	out := make([]int64, len(expenses))
	for i, e := range expenses {
		out[i] = e.ID
	}
	return out
}

func TestFilterByCategory(t *testing.T) {
	all := sampleExpenses()

	got := FilterByCategory(all, AllCategories)
	if !slices.Equal(ids(got), ids(all)) {
		t.Fatalf("all filter changed order: %v", ids(got))
	}

	food := FilterByCategory(all, "food")
	if !slices.Equal(ids(food), []int64{5, 3, 1}) {
		t.Fatalf("food filter = %v", ids(food))
	}
	for _, e := range food {
		if e.Category != "food" {
			t.Fatalf("unexpected category %q", e.Category)
		}
	}

	if got := FilterByCategory(all, "health"); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", ids(got))
	}
}

func TestSortExpenses(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []int64
	}{
		{SortDateDesc, []int64{5, 4, 3, 2, 1}},
		{SortDateAsc, []int64{1, 2, 3, 4, 5}},
		// 5 and 2 tie at 12.00 and keep their input order
		{SortAmountDesc, []int64{1, 5, 2, 3, 4}},
		{SortAmountAsc, []int64{4, 3, 5, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			in := sampleExpenses()
			got := SortExpenses(in, tt.key)
			if !slices.Equal(ids(got), tt.want) {
				t.Errorf("SortExpenses(%s) = %v, want %v", tt.key, ids(got), tt.want)
			}
			if !slices.Equal(ids(in), []int64{5, 4, 3, 2, 1}) {
				t.Errorf("input slice was reordered: %v", ids(in))
			}
		})
	}
}

func TestSortDateStableOnSameDay(t *testing.T) {
	in := []Expense{
		{ID: 1, Date: NewDate(2024, 1, 10)},
		{ID: 2, Date: NewDate(2024, 1, 10)},
		{ID: 3, Date: NewDate(2024, 1, 9)},
	}
	if got := ids(SortExpenses(in, SortDateDesc)); !slices.Equal(got, []int64{1, 2, 3}) {
		t.Fatalf("date-desc = %v", got)
	}
	if got := ids(SortExpenses(in, SortDateAsc)); !slices.Equal(got, []int64{3, 1, 2}) {
		t.Fatalf("date-asc = %v", got)
	}
}

func TestDateDescIsReverseOfDateAsc(t *testing.T) {
	in := sampleExpenses()
	asc := ids(SortExpenses(in, SortDateAsc))
	desc := ids(SortExpenses(in, SortDateDesc))
	slices.Reverse(asc)
	if !slices.Equal(asc, desc) {
		t.Fatalf("reverse(asc)=%v desc=%v", asc, desc)
	}
}

func TestParseSortKey(t *testing.T) {
	if ParseSortKey("amount-asc") != SortAmountAsc {
		t.Fatalf("expected amount-asc")
	}
	if ParseSortKey("bogus") != SortDateDesc || ParseSortKey("") != SortDateDesc {
		t.Fatalf("unknown keys should fall back to date-desc")
	}
}

func TestTotalSpentIgnoresView(t *testing.T) {
	all := sampleExpenses()
	want := Money{Cents: 9100}
	if got := TotalSpent(all); got != want {
		t.Fatalf("TotalSpent = %v, want %v", got, want)
	}
	if got := TotalSpent(SortExpenses(all, SortAmountAsc)); got != want {
		t.Fatalf("sorting changed total: %v", got)
	}
	if got := TotalSpent(nil); got.Cents != 0 {
		t.Fatalf("empty total = %v", got)
	}
}

func TestRemainingAndPercentage(t *testing.T) {
	budget := Money{Cents: 10000}
	if got := Remaining(budget, Money{Cents: 10100}); got.Cents != -100 {
		t.Fatalf("Remaining = %d, want -100", got.Cents)
	}
	if got := SpendingPercentage(budget, Money{Cents: 6000}); got != 60 {
		t.Fatalf("SpendingPercentage = %v, want 60", got)
	}
	if got := SpendingPercentage(Money{}, Money{Cents: 6000}); got != 0 {
		t.Fatalf("zero budget percentage = %v, want 0", got)
	}
}

func TestBudgetColorTier(t *testing.T) {
	tests := []struct {
		name      string
		remaining int64
		pct       float64
		want      ColorTier
	}{
		{"over budget wins", -100, 10, TierRed},
		{"over budget high pct", -100, 120, TierRed},
		{"half spent", 5000, 60, TierYellow},
		{"exactly fifty", 5000, 50, TierYellow},
		{"low spend", 5000, 10, TierGreen},
		{"no budget", 0, 0, TierGreen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BudgetColorTier(Money{Cents: tt.remaining}, tt.pct); got != tt.want {
				t.Errorf("BudgetColorTier() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReminderDueness(t *testing.T) {
	today := NewDate(2024, 1, 10)
	tests := []struct {
		due    Date
		days   int
		status ReminderStatus
		text   string
	}{
		{NewDate(2024, 1, 10), 0, StatusDueSoon, "Due in 0 days"},
		{NewDate(2024, 1, 13), 3, StatusDueSoon, "Due in 3 days"},
		{NewDate(2024, 1, 14), 4, StatusUpcoming, "Due in 4 days"},
		{NewDate(2024, 1, 5), -5, StatusOverdue, "Overdue by 5 days"},
		{NewDate(2024, 1, 20), 10, StatusUpcoming, "Due in 10 days"},
		{NewDate(2024, 3, 10), 60, StatusUpcoming, "Due in 60 days"},
	}
	for _, tt := range tests {
		t.Run(tt.due.String(), func(t *testing.T) {
			days := DaysUntilDue(today, tt.due)
			if days != tt.days {
				t.Fatalf("DaysUntilDue = %d, want %d", days, tt.days)
			}
			if got := ReminderStatusFor(days); got != tt.status {
				t.Errorf("ReminderStatusFor(%d) = %v, want %v", days, got, tt.status)
			}
			if got := DueMessage(days); got != tt.text {
				t.Errorf("DueMessage(%d) = %q, want %q", days, got, tt.text)
			}
		})
	}
}

func TestOverdueReminders(t *testing.T) {
	today := NewDate(2024, 1, 10)
	rs := []Reminder{
		{ID: 1, Date: NewDate(2024, 1, 9)},
		{ID: 2, Date: NewDate(2024, 1, 10)},
		{ID: 3, Date: NewDate(2023, 12, 1)},
	}
	got := OverdueReminders(today, rs)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("OverdueReminders = %+v", got)
	}
}
