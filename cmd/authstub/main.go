// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Yashraj9595/edumentor-session/internal/config"
	"github.com/Yashraj9595/edumentor-session/internal/core"
	"github.com/Yashraj9595/edumentor-session/internal/session"
	"github.com/Yashraj9595/edumentor-session/internal/stub"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("authstub error", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting authstub",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"address", cfg.Stub.Address(),
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized", "endpoint", cfg.Otel.Endpoint)
		}
	}

	server, err := stub.NewServer(cfg.Stub, logger)
	if err != nil {
		return err
	}

	if cfg.IsDevelopment() {
		seedDemoUsers(server, logger)
	}

	srv := &http.Server{
		Addr:         cfg.Stub.Address(),
		Handler:      server.Router(),
		ReadTimeout:  cfg.Stub.ReadTimeout,
		WriteTimeout: cfg.Stub.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
			return
		}
		errChan <- nil
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Stub.ShutdownTimeout,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	logger.Info("authstub stopped")
	return nil
}

// seedDemoUsers provisions one verified account per role so every dashboard
// path is reachable out of the box.
func seedDemoUsers(server *stub.Server, logger *slog.Logger) {
	demo := []struct {
		email    string
		password string
		first    string
		last     string
		role     session.Role
	}{
		{"admin@edumentor.dev", "admin12345", "Ada", "Admin", session.RoleAdmin},
		{"mentor@edumentor.dev", "mentor12345", "Mona", "Mentor", session.RoleMentor},
		{"student@edumentor.dev", "student12345", "Sam", "Student", session.RoleStudent},
		{"organizer@edumentor.dev", "organizer123", "Olga", "Organizer", session.RoleOrganizer},
		{"company@edumentor.dev", "company12345", "Cory", "Company", session.RoleCompany},
		{"institution@university.edu", "institution123", "Iris", "Institution", session.RoleInstitution},
	}

	for _, d := range demo {
		if _, err := server.SeedUser(d.email, d.password, d.first, d.last, d.role); err != nil {
			logger.Warn("seed demo user", "email", d.email, "error", err)
			continue
		}
		logger.Info("seeded demo user", "email", d.email, "role", d.role)
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
