// Package dashboard serves the HTTP surface of the fleet tracker: the admin
// snapshot, the rate-check pre-flight, heartbeat and activity ingestion, the
// release registry and Prometheus metrics.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/GGCryptoh/jarvis-inc/internal/activity"
	"github.com/GGCryptoh/jarvis-inc/internal/admin"
	"github.com/GGCryptoh/jarvis-inc/internal/fleet"
	"github.com/GGCryptoh/jarvis-inc/internal/logging"
	"github.com/GGCryptoh/jarvis-inc/internal/metrics"
	"github.com/GGCryptoh/jarvis-inc/internal/release"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const defaultStreamInterval = 5 * time.Second

// StartOpts holds configuration for the dashboard server.
type StartOpts struct {
	Fleet    *fleet.Service
	Gate     *activity.Gate
	Releases *release.Registry
	Admin    *admin.Gate
	Metrics  *metrics.Metrics

	// RateWindow is the trailing window used by the rate-check endpoint.
	RateWindow time.Duration
	// StreamInterval is how often the stats stream polls for changes.
	StreamInterval time.Duration

	Port int
	Log  logrus.FieldLogger
	Out  io.Writer
}

func (o *StartOpts) validate() error {
	if o.Fleet == nil {
		return fmt.Errorf("dashboard: fleet service is required")
	}
	if o.Gate == nil {
		return fmt.Errorf("dashboard: rate gate is required")
	}
	if o.Releases == nil {
		return fmt.Errorf("dashboard: release registry is required")
	}
	if o.Admin == nil {
		return fmt.Errorf("dashboard: admin gate is required")
	}
	if o.RateWindow <= 0 {
		o.RateWindow = activity.DefaultWindow
	}
	if o.StreamInterval <= 0 {
		o.StreamInterval = defaultStreamInterval
	}
	if o.Port <= 0 {
		o.Port = 8080
	}
	if o.Log == nil {
		o.Log = logging.Discard()
	}
	return nil
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(opts StartOpts) (*gin.Engine, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(opts.Log))

	registerRoutes(router, &opts)
	return router, nil
}

// Start launches the HTTP server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	gin.SetMode(gin.ReleaseMode)
	router, err := NewRouter(opts)
	if err != nil {
		return err
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	addr := fmt.Sprintf(":%d", opts.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Fleet API listening on http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
