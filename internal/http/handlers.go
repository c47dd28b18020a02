package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"budgettracker/internal/app"
	"budgettracker/internal/core"
	applog "budgettracker/internal/log"
	"budgettracker/internal/presenter"
)

var templateFuncs = template.FuncMap{
	// barWidth clamps a spending percentage for the progress bar.
	"barWidth": func(pct float64) string {
		return fmt.Sprintf("%.0f", max(0, min(pct, 100)))
	},
}

type indexData struct {
	Dashboard   presenter.DashboardView
	Expenses    expensesData
	Reminders   remindersData
	Categories  []string
	Frequencies []string
	SortKeys    []core.SortKey
	Today       string
	Budget      string
	// Notice is shown as a toast once the page has loaded.
	Notice string
}

type expensesData struct {
	Rows    []presenter.ExpenseRow
	Empty   string
	Confirm string
}

type remindersData struct {
	Rows    []presenter.ReminderRow
	Empty   string
	Confirm string
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady checks templates and the backing store.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	code := http.StatusOK
	checks := map[string]any{}

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			checks["store"] = "failed: " + err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
		} else {
			checks["store"] = "ok"
		}
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.limiter.ActiveClients(),
		"hits":           s.limiter.Hits(),
	}
	checks["requests_total"] = s.tracer.GetMetrics().TotalRequests
	checks["suspicious_requests"] = s.detector.SuspiciousRequests()

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	state := s.controller.Snapshot()
	today := s.controller.Today()

	data := indexData{
		Dashboard:   presenter.Dashboard(state),
		Expenses:    s.expensesData(state, core.SortDateDesc, core.AllCategories),
		Reminders:   s.remindersData(state, today),
		Categories:  s.categories,
		Frequencies: core.Frequencies,
		SortKeys:    core.SortKeys,
		Today:       today.String(),
		Budget:      state.Budget.String(),
	}
	if n, ok := presenter.OverdueNotice(state, today); ok {
		data.Notice = n.Message
	}
	s.render(w, r, "index.html", data)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "dashboard.html", presenter.Dashboard(s.controller.Snapshot()))
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	key, category := ParseListParams(r.URL.Query())
	s.render(w, r, "expenses.html", s.expensesData(s.controller.Snapshot(), key, category))
}

func (s *Server) handleReminders(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "reminders.html", s.remindersData(s.controller.Snapshot(), s.controller.Today()))
}

func (s *Server) expensesData(state app.State, key core.SortKey, category string) expensesData {
	cmd, _ := app.LookupCommand(app.IntentDeleteExpense)
	return expensesData{
		Rows:    presenter.ExpenseRows(state, key, category),
		Empty:   presenter.NoExpensesMessage,
		Confirm: cmd.Confirm,
	}
}

func (s *Server) remindersData(state app.State, today core.Date) remindersData {
	cmd, _ := app.LookupCommand(app.IntentDeleteReminder)
	return remindersData{
		Rows:    presenter.ReminderRows(state, today),
		Empty:   presenter.NoRemindersMessage,
		Confirm: cmd.Confirm,
	}
}

// command serves a POST form for intent. Success triggers a client refresh
// and a toast; validation failures answer 422 with an error toast.
func (s *Server) command(intent app.Intent) http.Handler {
	cmd, ok := app.LookupCommand(intent)
	if !ok {
		panic(fmt.Sprintf("no command registered for %q", intent))
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if resp := RequirePOST(r); resp != nil {
			resp.Write(w)
			return
		}
		if resp := ParseFormOrFail(r); resp != nil {
			resp.Write(w)
			return
		}

		ctx := r.Context()
		logger := applog.FromContext(ctx)
		res, err := s.controller.Dispatch(ctx, intent, InputFromForm(r.Form, cmd.Fields))
		switch {
		case err == nil:
		case core.IsValidation(err):
			logger.InfoContext(ctx, "Command rejected",
				applog.FieldIntent, string(intent), applog.FieldError, err)
			NewHTMXResponse().
				Status(http.StatusUnprocessableEntity).
				TriggerNotification(app.Notification{Kind: app.NotifyError, Message: cmd.Invalid}).
				Write(w)
			return
		case errors.Is(err, app.ErrUnknownIntent):
			NotFoundError("Unknown action").Write(w)
			return
		default:
			logger.ErrorContext(ctx, "Command failed",
				applog.FieldIntent, string(intent), applog.FieldError, err)
			InternalServerError("Failed to save changes").
				TriggerNotification(app.Notification{Kind: app.NotifyError, Message: "Failed to save changes"}).
				Write(w)
			return
		}

		NewHTMXResponse().
			TriggerStateChanged().
			TriggerFormReset().
			TriggerCloseModal().
			TriggerNotification(res.Notification).
			Write(w)
	})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			"template", name, applog.FieldOperation, applog.OpRender, applog.FieldError, err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
