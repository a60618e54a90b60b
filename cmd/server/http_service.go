package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// httpServer is the part of *echo.Echo the service drives.
type httpServer interface {
	Start(addr string) error
	Shutdown(ctx context.Context) error
}

// httpService runs the API under the supervisor.  Cancelling the context
// shuts the server down gracefully.
type httpService struct {
	server          httpServer
	addr            string
	shutdownTimeout time.Duration
}

func newHTTPService(server httpServer, addr string, shutdownTimeout time.Duration) *httpService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &httpService{server: server, addr: addr, shutdownTimeout: shutdownTimeout}
}

func (h *httpService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.Start(h.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

func (h *httpService) String() string { return "http-server" }
