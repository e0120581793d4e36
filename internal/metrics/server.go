package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 5 * time.Second

// SnapshotFunc returns the JSON body served on /debug/snapshot.
type SnapshotFunc func() any

// Router builds the HTTP handler for /metrics and /debug/snapshot.
func (m *Metrics) Router(snapshot SnapshotFunc) http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/debug/snapshot", func(w http.ResponseWriter, _ *http.Request) {
		var body any = struct{}{}
		if snapshot != nil {
			body = snapshot()
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(body); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}).Methods(http.MethodGet)
	return r
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
// It returns nil after a clean shutdown.
func (m *Metrics) Serve(ctx context.Context, addr string, snapshot SnapshotFunc, logger zerolog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return m.serve(ctx, ln, snapshot, logger)
}

func (m *Metrics) serve(ctx context.Context, ln net.Listener, snapshot SnapshotFunc, logger zerolog.Logger) error {
	srv := &http.Server{
		Handler:      m.Router(snapshot),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", ln.Addr().String()).Msg("metrics server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("metrics server forced to shutdown")
		return err
	}
	<-errCh
	logger.Info().Msg("metrics server stopped")
	return nil
}
