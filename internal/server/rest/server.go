// Package rest is the HTTP/JSON transport: a chi router with the session
// guard, the auth endpoints and the inventory and delivery endpoints.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/kitchenkeeper/internal/logging"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/auth"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/models"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/services"
)

// SessionManager is the part of services.SessionService the transport uses.
type SessionManager interface {
	TokenVerifier
	Authenticate(ctx context.Context, c services.Credentials) (*services.Session, error)
	TTL() time.Duration
}

type StockManager interface {
	Record(ctx context.Context, in services.MovementInput) (*models.InventoryItem, *models.StockMovement, error)
	ListMovements(ctx context.Context) ([]models.StockMovement, error)
	ListInventory(ctx context.Context) ([]models.InventoryItem, error)
}

type DeliveryManager interface {
	Create(ctx context.Context, in services.DeliveryInput) (*models.DeliveryConfirmation, error)
	List(ctx context.Context) ([]models.DeliveryConfirmation, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.DeliveryConfirmation, error)
}

// Options configures the listener and the session cookie.
type Options struct {
	Address            string
	CookieNames        []string
	SameSite           http.SameSite
	Secure             bool
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
}

type Server struct {
	opts       Options
	logger     logging.Logger
	sessions   SessionManager
	stock      StockManager
	deliveries DeliveryManager
	extractor  auth.TokenExtractor
	now        func() time.Time
}

func NewServer(opts Options, l logging.Logger, sessions SessionManager, stock StockManager, deliveries DeliveryManager) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		opts:       opts,
		logger:     l.With("module", "rest_server"),
		sessions:   sessions,
		stock:      stock,
		deliveries: deliveries,
		extractor:  auth.TokenExtractor{CookieNames: opts.CookieNames},
		now:        time.Now,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.opts.Address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
