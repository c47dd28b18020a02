package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"budgettracker/internal/app"
	"budgettracker/internal/core"
	applog "budgettracker/internal/log"
	"budgettracker/internal/middleware/ratelimit"
	"budgettracker/internal/middleware/security"
	"budgettracker/internal/middleware/trace"
	appweb "budgettracker/web"
)

// Controller is the part of app.Controller the handlers use.
type Controller interface {
	Dispatch(ctx context.Context, intent app.Intent, in app.Input) (app.Result, error)
	Snapshot() app.State
	Today() core.Date
}

type Options struct {
	Categories []string
	// Ready reports whether the backing store answers; nil means always.
	Ready  func(ctx context.Context) error
	Logger *slog.Logger
}

type Server struct {
	http.Server
	controller Controller
	templates  *template.Template
	categories []string
	ready      func(ctx context.Context) error
	logger     *slog.Logger
	started    time.Time

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, controller Controller, opts Options) *Server {
	logger := applog.WithComponent(opts.Logger, applog.ComponentHTTP)
	detector := security.NewDetector()

	s := &Server{
		controller: controller,
		categories: opts.Categories,
		ready:      opts.Ready,
		logger:     logger,
		started:    time.Now(),
		limiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:   detector,
		tracer:     trace.NewMiddleware(logger, detector.ExtractClientIP),
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldError, err)
	} else {
		s.templates = t
	}

	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ui/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /ui/expenses", s.handleExpenses)
	mux.HandleFunc("GET /ui/reminders", s.handleReminders)

	mux.Handle("/expenses", s.command(app.IntentAddExpense))
	mux.Handle("/expenses/delete", s.command(app.IntentDeleteExpense))
	mux.Handle("/budget", s.command(app.IntentSetBudget))
	mux.Handle("/reminders", s.command(app.IntentAddReminder))
	mux.Handle("/reminders/delete", s.command(app.IntentDeleteReminder))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.limiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			applog.FieldClientIP, detector.ExtractClientIP(r), applog.FieldPath, r.URL.Path)
		NewHTMXResponse().
			Status(http.StatusTooManyRequests).
			TriggerNotification(app.Notification{Kind: app.NotifyError, Message: "Too many requests, try again in a minute"}).
			Write(w)
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.tracer.Middleware(detector.Middleware(headers.Middleware(limit(mux)))),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
