// AngelaMos | 2026
// server.go

package stub

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Yashraj9595/edumentor-session/internal/config"
	"github.com/Yashraj9595/edumentor-session/internal/core"
	"github.com/Yashraj9595/edumentor-session/internal/session"
)

// Server is an in-memory implementation of the auth API contract the session
// controller assumes. It exists for local development and end-to-end tests;
// it is not the production backend.
type Server struct {
	registry *registry
	otp      *otpStore
	signer   *signer
	limiter  *limiter
	validate *validator.Validate
	logger   *slog.Logger
}

func NewServer(cfg config.StubConfig, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sgn, err := newSigner(cfg)
	if err != nil {
		return nil, fmt.Errorf("init signer: %w", err)
	}

	return &Server{
		registry: newRegistry(cfg.RefreshTokenTTL),
		otp:      newOTPStore(cfg.OTPTTL, logger),
		signer:   sgn,
		limiter:  newLimiter(cfg),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}, nil
}

// SeedUser registers a pre-verified account, for demos and tests that need a
// working login without walking the OTP flow.
func (s *Server) SeedUser(email, password, firstName, lastName string, role session.Role) (*session.User, error) {
	user, err := s.registry.Create(email, password, firstName, lastName, "", role)
	if err != nil {
		return nil, err
	}
	if err := s.registry.MarkEmailVerified(email); err != nil {
		return nil, err
	}
	user.IsEmailVerified = true
	return user, nil
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		core.OK(w, map[string]string{"status": "ok"})
	})
	r.Get("/.well-known/jwks.json", s.signer.JWKSHandler())

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.limiter.Middleware)
			r.Post("/login", s.handleLogin)
			r.Post("/register", s.handleRegister)
			r.Post("/verify-otp", s.handleVerifyOTP)
			r.Post("/forgot-password", s.handleForgotPassword)
			r.Post("/reset-password", s.handleResetPassword)
			r.Post("/refresh", s.handleRefresh)
		})

		r.Get("/profile", s.handleProfile)
		r.Post("/logout", s.handleLogout)
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}
