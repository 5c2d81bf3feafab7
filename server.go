package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/blogem/time-tracker/authenticator"
	"github.com/blogem/time-tracker/config"
	"github.com/blogem/time-tracker/controllers"
	"github.com/blogem/time-tracker/database"
	"github.com/blogem/time-tracker/events"
	authmiddleware "github.com/blogem/time-tracker/middleware"
	"github.com/blogem/time-tracker/notifier"
	"github.com/blogem/time-tracker/repositories"
	"github.com/blogem/time-tracker/services"
	"github.com/blogem/time-tracker/workerpool"
)

// app is everything the router needs
type app struct {
	cfg      *config.Config
	ctrl     *controllers.Controllers
	repos    *repositories.Repositories
	tokens   *authenticator.TokenIssuer
	pool     *workerpool.WorkerPool
	broker   *events.Broker
	services *services.Services
}

// newApp wires repositories, services and controllers around db
func newApp(ctx context.Context, cfg *config.Config, repos *repositories.Repositories) (*app, error) {
	broker := events.NewBroker(32)
	pool := workerpool.NewWorkerPool(cfg.WorkerCount, 256)

	srvs, err := services.NewServices(repos, broker, services.Options{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		Location:      cfg.Location,
	})
	if err != nil {
		pool.Close()
		return nil, err
	}

	var sso authenticator.Provider
	if cfg.OIDC.Enabled() {
		sso, err = authenticator.NewOpenIDProvider(ctx, authenticator.OpenIDConfig{
			Domain:       cfg.OIDC.Domain,
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			CallbackURL:  cfg.OIDC.CallbackURL,
		})
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to initialize OpenID provider: %w", err)
		}
	}

	tokens := authenticator.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	return &app{
		cfg:      cfg,
		repos:    repos,
		tokens:   tokens,
		pool:     pool,
		broker:   broker,
		services: srvs,
		ctrl: controllers.NewControllers(srvs, controllers.Options{
			SSO:    sso,
			Tokens: tokens,
			Broker: broker,
		}),
	}, nil
}

// close stops background work
func (a *app) close() {
	a.broker.Close()
	a.pool.Close()
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.InitializeDatabase(cfg.DatabasePath); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.CloseDB()

	a, err := newApp(ctx, cfg, repositories.NewRepositories(database.GetDB()))
	if err != nil {
		return err
	}
	defer a.close()

	if cfg.TelegramEnabled() {
		bot, err := notifier.NewTelegramBot(cfg.TelegramToken)
		if err != nil {
			return err
		}
		go notifier.New(bot, cfg.TelegramChatID, a.pool).Run(ctx, a.broker)
		fmt.Println("📣 Telegram notifications enabled")
	}

	r, err := setupRouter(a)
	if err != nil {
		return fmt.Errorf("failed to setup router: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("🚀 Time Tracker starting on port %s\n", cfg.Port)
	fmt.Printf("📂 Visit: http://localhost:%s\n", cfg.Port)
	fmt.Printf("🗃️  Database: %s\n", cfg.DatabasePath)
	if count, err := a.repos.Employees.Count(ctx); err == nil {
		fmt.Printf("👥 Employees: %d\n", count)
	}
	if cfg.OIDC.Enabled() {
		fmt.Printf("🔐 Single sign-on: %s\n", cfg.OIDC.Domain)
	}

	errC := make(chan error, 1)
	go func() {
		errC <- srv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// SSE streams end when their request context is cancelled
	a.broker.Close()
	return srv.Shutdown(shutdownCtx)
}

// setupRouter configures all routes
func setupRouter(a *app) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Session middleware
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "time_tracker_session",
		Secure:         a.cfg.UseHTTPS,
		Gclifetime:     3600,
		Maxlifetime:    12 * 3600,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)

	audit := authmiddleware.AuditLogger(a.repos.Audit, a.pool)
	ctrl := a.ctrl

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "time-tracker"}`)
	})

	// the change feed is long-lived, so it skips the timeout and compression
	r.With(authmiddleware.RequireStreamAuth).Get("/events", ctrl.Events.Stream)

	// HTML pages
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second)) // OAuth callbacks can be slow
		r.Use(middleware.Compress(5))

		// PUBLIC ROUTES (no authentication required)
		r.Get("/login", ctrl.Auth.LoginPage)
		r.With(audit).Post("/login", ctrl.Auth.Login)
		r.Get("/login/sso", ctrl.Auth.SSOLogin)
		r.Get("/callback", ctrl.Auth.Callback)
		r.Get("/logout", ctrl.Auth.Logout)

		// PROTECTED ROUTES (authentication required)
		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.RequireAuth)
			r.Use(audit)

			r.Get("/", ctrl.Tracker.Index)
			r.Post("/tracker", ctrl.Tracker.Record)

			// ADMIN ROUTES
			r.Group(func(r chi.Router) {
				r.Use(authmiddleware.RequireAdmin)

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", ctrl.Employees.Index)
					r.Post("/", ctrl.Employees.Create)
					r.Post("/{id}/delete", ctrl.Employees.Delete)
				})

				r.Route("/reports", func(r chi.Router) {
					r.Get("/", ctrl.Reports.Index)
					r.Get("/export.csv", ctrl.Reports.ExportCSV)
					r.Get("/export.xlsx", ctrl.Reports.ExportXLSX)
				})
			})
		})
	})

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.With(audit).Post("/login", ctrl.API.Login)

		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.RequireToken(a.tokens))
			r.Use(audit)

			r.Get("/time-logs", ctrl.API.ListTimeLogs)
			r.Post("/time-logs", ctrl.API.CreateTimeLog)

			r.Group(func(r chi.Router) {
				r.Use(authmiddleware.RequireAdminToken)

				r.Get("/employees", ctrl.API.ListEmployees)
				r.Post("/employees", ctrl.API.CreateEmployee)
				r.Delete("/employees/{id}", ctrl.API.DeleteEmployee)
				r.Get("/reports", ctrl.API.Report)
				r.Get("/reports/export.csv", ctrl.Reports.ExportCSV)
			})
		})
	})

	return r, nil
}
