package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdelafosse/seerrbridge/internal/logger"
)

// Handler coordinates graceful teardown of the bridge. Registered
// steps run in reverse order of registration so dependents close
// before their dependencies.
type Handler struct {
	mu      sync.Mutex
	steps   []step
	timeout time.Duration
	signals chan os.Signal
	done    chan struct{}
	started bool
	logger  *logger.Logger
}

type step struct {
	name string
	fn   func(context.Context) error
}

// New creates a shutdown handler with the given per-shutdown timeout
func New(timeout time.Duration) *Handler {
	return &Handler{
		timeout: timeout,
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
		logger:  logger.AppLogger(),
	}
}

// Register adds a named teardown step
func (h *Handler) Register(name string, fn func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.steps = append(h.steps, step{name: name, fn: fn})
}

// Wait blocks until SIGINT or SIGTERM, then runs the teardown
func (h *Handler) Wait() error {
	signal.Notify(h.signals, syscall.SIGINT, syscall.SIGTERM)
	sig := <-h.signals
	h.logger.WithField("signal", sig.String()).Info("shutdown signal received")
	return h.Shutdown()
}

// Shutdown runs the registered steps newest first. Each step gets the
// shared deadline; a failing step is logged and does not stop the
// remaining steps. The first error is returned.
func (h *Handler) Shutdown() error {
	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		return nil
	}
	h.started = true
	steps := h.steps
	h.mu.Unlock()

	close(h.done)

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	var firstErr error
	for i := len(steps) - 1; i >= 0; i-- {
		s := steps[i]
		h.logger.WithField("step", s.name).Debug("running shutdown step")
		if err := s.fn(ctx); err != nil {
			h.logger.WithField("step", s.name).Error("shutdown step failed", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Done returns a channel closed once shutdown begins
func (h *Handler) Done() <-chan struct{} {
	return h.done
}

// Trigger initiates shutdown programmatically
func (h *Handler) Trigger() {
	select {
	case h.signals <- syscall.SIGTERM:
	default:
	}
}
