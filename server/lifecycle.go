package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cheachwood/GitOnBoard/errors"
)

// Start runs the hub, the event broadcaster and the HTTP listener on the
// given port (or the next free one). Blocks until the listener exits.
func (s *BoardServer) Start(port int) error {
	// Start the hub in a goroutine
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Run()
	}()

	// Forward committed registry events to WebSocket clients
	s.startEventBroadcaster()

	actualPort, err := findAvailablePort(port)
	if err != nil {
		return errors.Wrap(err, "failed to find available port")
	}

	if actualPort != port {
		s.logger.Infow("Port in use, using alternative",
			"requested_port", port,
			"actual_port", actualPort,
		)
	}

	addr := fmt.Sprintf(":%d", actualPort)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // WebSocket connections are long-lived
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Infow("Server ready",
		"url", fmt.Sprintf("http://localhost:%d", actualPort),
		"port", actualPort,
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "http server")
	}
	return nil
}

// Shutdown drains the HTTP listener, stops the hub and waits for all
// goroutines to finish.
func (s *BoardServer) Shutdown(ctx context.Context) error {
	s.logger.Infow("Server shutting down")

	var httpErr error
	if s.httpServer != nil {
		httpErr = s.httpServer.Shutdown(ctx)
	}

	// Stop hub, pumps and broadcaster
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warnw("Shutdown timed out waiting for goroutines")
	}

	return httpErr
}
