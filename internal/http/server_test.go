package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"budgettracker/internal/app"
	"budgettracker/internal/config"
	"budgettracker/internal/core"
	"budgettracker/internal/persistence"
	"budgettracker/internal/storage/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// failingSaver makes every command fail after validation.
type failingSaver struct{}

func (failingSaver) Save(context.Context, persistence.Snapshot) error {
	return errors.New("disk full")
}

func newTestServer(t *testing.T, initial app.State) (*Server, *app.Controller) {
	t.Helper()
	clock := func() time.Time { return time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC) }
	adapter := persistence.New(memory.New(), persistence.Options{})
	ctrl := app.NewController(initial, adapter, app.Options{Now: clock, Logger: discardLogger()})
	srv := NewServer(":0", ctrl, Options{Categories: config.DefaultCategories, Logger: discardLogger()})
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv, ctrl
}

func postForm(srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestIndexAndHealth(t *testing.T) {
	srv, _ := newTestServer(t, app.State{})

	rr := get(srv, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("index status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"Budget Tracker", "No expenses added yet. Start tracking your spending!", "No reminders set. Add your recurring bills!", `value="food"`} {
		if !strings.Contains(body, want) {
			t.Errorf("index body missing %q", want)
		}
	}
	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("security headers not applied")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := get(srv, path)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestIndexShowsOverdueNotice(t *testing.T) {
	srv, _ := newTestServer(t, app.State{Reminders: []core.Reminder{
		{ID: 1, Name: "Rent", Amount: core.Money{Cents: 80000}, Date: core.NewDate(2024, 1, 1), Frequency: core.Monthly},
	}})

	body := get(srv, "/").Body.String()
	if !strings.Contains(body, `data-notice="You have 1 overdue bill(s)!"`) {
		t.Fatalf("overdue notice missing from index")
	}
	if !strings.Contains(body, "Overdue by 9 days") {
		t.Fatalf("reminder status missing from index")
	}
}

func TestUnknownPathIs404(t *testing.T) {
	srv, _ := newTestServer(t, app.State{})
	if rr := get(srv, "/nope"); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestCreateExpenseValidationAndSuccess(t *testing.T) {
	srv, ctrl := newTestServer(t, app.State{})

	rr := get(srv, "/expenses")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	for _, form := range []url.Values{
		{"description": {"x"}, "amount": {"abc"}, "category": {"food"}},
		{"description": {""}, "amount": {"1.23"}, "category": {"food"}},
	} {
		rr := postForm(srv, "/expenses", form)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rr.Code)
		}
		if !strings.Contains(rr.Header().Get("HX-Trigger"), "Please fill in all fields") {
			t.Fatalf("missing error toast: %s", rr.Header().Get("HX-Trigger"))
		}
	}
	if n := len(ctrl.Snapshot().Expenses); n != 0 {
		t.Fatalf("invalid posts created %d expenses", n)
	}

	rr = postForm(srv, "/expenses", url.Values{"description": {"Coffee"}, "amount": {"4.50"}, "category": {"food"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var trigger map[string]json.RawMessage
	if err := json.Unmarshal([]byte(rr.Header().Get("HX-Trigger")), &trigger); err != nil {
		t.Fatalf("bad HX-Trigger: %v", err)
	}
	if _, ok := trigger[EventStateChanged]; !ok {
		t.Fatalf("success must trigger %s", EventStateChanged)
	}
	if !strings.Contains(string(trigger[EventShowNotification]), "Expense added successfully!") {
		t.Fatalf("unexpected toast: %s", trigger[EventShowNotification])
	}

	list := get(srv, "/ui/expenses?category=food&sort=amount-desc").Body.String()
	if !strings.Contains(list, "Coffee") || !strings.Contains(list, "$4.50") || !strings.Contains(list, "Jan 10, 2024") {
		t.Fatalf("expense list missing new row: %s", list)
	}
	if strings.Contains(get(srv, "/ui/expenses?category=transport").Body.String(), "Coffee") {
		t.Fatalf("category filter not applied")
	}
}

func TestBudgetAndDashboard(t *testing.T) {
	srv, _ := newTestServer(t, app.State{})

	if rr := postForm(srv, "/budget", url.Values{"amount": {"0"}}); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for zero budget, got %d", rr.Code)
	} else if !strings.Contains(rr.Header().Get("HX-Trigger"), "Please enter a valid budget amount") {
		t.Fatalf("missing budget error toast")
	}

	if rr := postForm(srv, "/budget", url.Values{"amount": {"100"}}); rr.Code != http.StatusOK {
		t.Fatalf("set budget status=%d", rr.Code)
	}
	postForm(srv, "/expenses", url.Values{"description": {"Dinner"}, "amount": {"60"}, "category": {"food"}})

	body := get(srv, "/ui/dashboard").Body.String()
	for _, want := range []string{"$100.00", "$60.00", "$40.00", "remaining-yellow"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q: %s", want, body)
		}
	}
}

func TestReminderLifecycle(t *testing.T) {
	srv, ctrl := newTestServer(t, app.State{})

	rr := postForm(srv, "/reminders", url.Values{"name": {"Phone"}, "amount": {"30"}, "date": {"2024-01-12"}, "frequency": {"monthly"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("add reminder status=%d", rr.Code)
	}
	list := get(srv, "/ui/reminders").Body.String()
	if !strings.Contains(list, "due-soon") || !strings.Contains(list, "Due in 2 days") {
		t.Fatalf("reminder list: %s", list)
	}

	id := ctrl.Snapshot().Reminders[0].ID
	rr = postForm(srv, "/reminders/delete", url.Values{"id": {strconv.FormatInt(id, 10)}})
	if rr.Code != http.StatusOK || !strings.Contains(rr.Header().Get("HX-Trigger"), "Reminder deleted!") {
		t.Fatalf("delete reminder = %d %s", rr.Code, rr.Header().Get("HX-Trigger"))
	}
	if len(ctrl.Snapshot().Reminders) != 0 {
		t.Fatalf("reminder not deleted")
	}
}

func TestDeleteExpense(t *testing.T) {
	srv, ctrl := newTestServer(t, app.State{Expenses: []core.Expense{
		{ID: 7, Description: "Coffee", Amount: core.Money{Cents: 450}, Category: "food", Date: core.NewDate(2024, 1, 9)},
	}})

	if rr := postForm(srv, "/expenses/delete", url.Values{"id": {"abc"}}); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad id status=%d", rr.Code)
	}
	if rr := postForm(srv, "/expenses/delete", url.Values{"id": {"99"}}); rr.Code != http.StatusOK {
		t.Fatalf("missing id should be a no-op, got %d", rr.Code)
	}
	if rr := postForm(srv, "/expenses/delete", url.Values{"id": {"7"}}); rr.Code != http.StatusOK {
		t.Fatalf("delete status=%d", rr.Code)
	}
	if len(ctrl.Snapshot().Expenses) != 0 {
		t.Fatalf("expense not deleted")
	}
}

func TestDeleteButtonsCarryConfirmPrompt(t *testing.T) {
	srv, _ := newTestServer(t, app.State{Expenses: []core.Expense{
		{ID: 7, Description: "Coffee", Amount: core.Money{Cents: 450}, Category: "food", Date: core.NewDate(2024, 1, 9)},
	}})
	body := get(srv, "/ui/expenses").Body.String()
	if !strings.Contains(body, `hx-confirm="Are you sure you want to delete this expense?"`) {
		t.Fatalf("confirm prompt missing: %s", body)
	}
}

func TestSaveFailureIs500(t *testing.T) {
	ctrl := app.NewController(app.State{}, failingSaver{}, app.Options{Logger: discardLogger()})
	srv := NewServer(":0", ctrl, Options{Categories: config.DefaultCategories, Logger: discardLogger()})
	defer srv.Shutdown(context.Background())

	rr := postForm(srv, "/budget", url.Values{"amount": {"100"}})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if len(ctrl.Snapshot().Expenses) != 0 || ctrl.Snapshot().Budget.Cents != 0 {
		t.Fatalf("failed save changed state")
	}
}

func TestReadyReportsStoreFailure(t *testing.T) {
	ctrl := app.NewController(app.State{}, failingSaver{}, app.Options{Logger: discardLogger()})
	srv := NewServer(":0", ctrl, Options{
		Logger: discardLogger(),
		Ready:  func(context.Context) error { return errors.New("database is locked") },
	})
	defer srv.Shutdown(context.Background())

	rr := get(srv, "/readyz")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "database is locked") {
		t.Fatalf("readyz body: %s", rr.Body.String())
	}
}
