package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/guesthouse-ai/concierge/internal/log"
	"github.com/guesthouse-ai/concierge/internal/session"
)

func TestRetryableError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit", errors.New("RATE LIMIT exceeded for project"), true},
		{"quota", errors.New("quota exceeded, try again later"), true},
		{"http 429", errors.New("unexpected status 429"), true},
		{"server 503", errors.New("503 service unavailable"), true},
		{"connection reset", errors.New("read: connection reset by peer"), true},
		{"dial timeout", errors.New("dial tcp: i/o timeout"), true},
		{"invalid argument", errors.New("invalid argument: bad request"), false},
		{"safety block", errors.New("response blocked by safety settings"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := retryableError(tt.err); got != tt.want {
				t.Errorf("retryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// flakyGenerator fails a fixed number of times before succeeding.
type flakyGenerator struct {
	mu       sync.Mutex
	failures int
	err      error
	calls    int
}

func (g *flakyGenerator) Generate(context.Context, []session.Entry, string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.calls <= g.failures {
		return "", g.err
	}
	return "ok", nil
}

func (g *flakyGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func newRetryResponder(g Generator) *Responder {
	return &Responder{
		generator: g,
		retry: RetryConfig{
			MaxRetries:      2,
			InitialInterval: time.Millisecond,
			MaxInterval:     4 * time.Millisecond,
		},
		genTimeout: time.Second,
		logger:     log.NewNop(),
	}
}

func TestGenerateWithRetry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("transient error retried to success", func(t *testing.T) {
		t.Parallel()

		gen := &flakyGenerator{failures: 2, err: errors.New("503 service unavailable")}
		r := newRetryResponder(gen)

		reply, err := r.generateWithRetry(ctx, nil, "hello")
		if err != nil {
			t.Fatalf("generateWithRetry() error: %v", err)
		}
		if reply != "ok" || gen.callCount() != 3 {
			t.Errorf("reply=%q calls=%d, want ok after 3 calls", reply, gen.callCount())
		}
	})

	t.Run("non-retryable error fails immediately", func(t *testing.T) {
		t.Parallel()

		permanent := errors.New("invalid argument: empty contents")
		gen := &flakyGenerator{failures: 10, err: permanent}
		r := newRetryResponder(gen)

		if _, err := r.generateWithRetry(ctx, nil, "hello"); !errors.Is(err, permanent) {
			t.Fatalf("generateWithRetry() error = %v, want wrapped permanent error", err)
		}
		if gen.callCount() != 1 {
			t.Errorf("calls = %d for permanent error, want 1", gen.callCount())
		}
	})

	t.Run("retries exhausted", func(t *testing.T) {
		t.Parallel()

		transient := errors.New("429 too many requests")
		gen := &flakyGenerator{failures: 10, err: transient}
		r := newRetryResponder(gen)

		if _, err := r.generateWithRetry(ctx, nil, "hello"); !errors.Is(err, transient) {
			t.Fatalf("generateWithRetry() error = %v, want wrapped transient error", err)
		}
		// MaxRetries=2 means one initial attempt plus two retries.
		if gen.callCount() != 3 {
			t.Errorf("calls = %d, want 3", gen.callCount())
		}
	})

	t.Run("canceled context stops retrying", func(t *testing.T) {
		t.Parallel()

		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()

		gen := &flakyGenerator{failures: 10, err: errors.New("503 unavailable")}
		r := newRetryResponder(gen)

		if _, err := r.generateWithRetry(cancelCtx, nil, "hello"); !errors.Is(err, context.Canceled) {
			t.Fatalf("generateWithRetry() error = %v, want context.Canceled", err)
		}
	})
}
