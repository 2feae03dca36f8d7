// Package httpapi exposes the card tracker over HTTP/JSON.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/cardtrack/internal/logging"
	"github.com/dmitrijs2005/cardtrack/internal/server/config"
	"github.com/dmitrijs2005/cardtrack/internal/server/models"
	"github.com/dmitrijs2005/cardtrack/internal/server/services"
)

type Users interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
}

type Cards interface {
	List(ctx context.Context) ([]*models.Card, error)
	Get(ctx context.Context, id int64) (*models.Card, error)
	Create(ctx context.Context, callerID int64, in services.CardInput) (*models.Card, error)
	Update(ctx context.Context, callerID, id int64, patch models.CardPatch) (*models.Card, error)
	Delete(ctx context.Context, callerID, id int64) (*models.Card, error)
}

type Comments interface {
	List(ctx context.Context, cardID int64) ([]*models.Comment, error)
	Get(ctx context.Context, cardID, commentID int64) (*models.Comment, error)
	Create(ctx context.Context, callerID, cardID int64, message string) (*models.Comment, error)
	Update(ctx context.Context, callerID, cardID, commentID int64, message string) (*models.Comment, error)
	Delete(ctx context.Context, callerID, cardID, commentID int64) error
}

// Authenticator resolves a bearer token to the calling user's id.
type Authenticator interface {
	ResolveCaller(token string) (int64, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators the handlers delegate to.
type Deps struct {
	Users    Users
	Cards    Cards
	Comments Comments
	Auth     Authenticator
	DB       Pinger
}

type HTTPServer struct {
	address string
	deps    Deps
	logger  logging.Logger

	requestTimeout time.Duration
	trustProxy     bool
	loginLimiter   *ipRateLimiter
}

func NewHTTPServer(address string, l logging.Logger, deps Deps, cfg *config.Config) *HTTPServer {
	return &HTTPServer{
		address:        address,
		deps:           deps,
		logger:         l.With("module", "http_server"),
		requestTimeout: cfg.RequestTimeout,
		trustProxy:     cfg.TrustProxy,
		loginLimiter:   newIPRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
