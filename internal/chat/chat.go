// Package chat implements the response generator: the state machine that
// turns an inbound guest message into a knowledge-grounded model reply
// and keeps the per-user transcript current.
//
// A conversation is NEW until its first reply is persisted and CONTINUING
// afterwards. First contact sends a priming instruction (persona, rules,
// guest name, retrieved context) as the opening turn; every request is
// wrapped with freshly retrieved context when any is available.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/guesthouse-ai/concierge/internal/session"
)

// Defaults applied by NewResponder when the corresponding Config field
// is zero.
const (
	defaultTopResults        = 3
	defaultGenerateTimeout   = 2 * time.Minute
	defaultRequestsPerMinute = 30
)

// ContextRetriever supplies knowledge-base context for a query.
// *knowledge.Retriever is the production implementation.
type ContextRetriever interface {
	ContextForQuery(ctx context.Context, query string, n int) (string, error)
}

// SessionStore persists conversation histories keyed by user id.
// *session.Store is the production implementation.
type SessionStore interface {
	Lookup(ctx context.Context, key string) (session.History, bool, error)
	Save(ctx context.Context, key string, h session.History) error
	Lock(key string) func()
}

// Config configures a Responder.
type Config struct {
	// PropertyName describes the rental in the priming instruction.
	PropertyName string

	// TopResults is the number of chunks retrieved per request.
	TopResults int

	// GenerateTimeout bounds each model call attempt.
	GenerateTimeout time.Duration

	// RequestsPerMinute caps outbound model calls. 0 uses the default;
	// negative disables the limiter.
	RequestsPerMinute int

	// Retry configures backoff for transient model errors.
	Retry RetryConfig
}

// Responder orchestrates retrieval, conversation state and generation.
// Safe for concurrent use; per-user ordering is enforced through the
// session store's keyed lock.
type Responder struct {
	retriever  ContextRetriever
	sessions   SessionStore
	generator  Generator
	limiter    *rate.Limiter
	retry      RetryConfig
	property   string
	topResults int
	genTimeout time.Duration
	logger     *slog.Logger
}

// NewResponder creates a Responder. All three collaborators are required.
func NewResponder(retriever ContextRetriever, sessions SessionStore, generator Generator, cfg Config, logger *slog.Logger) (*Responder, error) {
	if retriever == nil {
		return nil, errors.New("retriever is required")
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if generator == nil {
		return nil, errors.New("generator is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	if cfg.TopResults <= 0 {
		cfg.TopResults = defaultTopResults
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = defaultGenerateTimeout
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = defaultRequestsPerMinute
	}
	if cfg.Retry == (RetryConfig{}) {
		cfg.Retry = DefaultRetryConfig()
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	return &Responder{
		retriever:  retriever,
		sessions:   sessions,
		generator:  generator,
		limiter:    limiter,
		retry:      cfg.Retry,
		property:   cfg.PropertyName,
		topResults: cfg.TopResults,
		genTimeout: cfg.GenerateTimeout,
		logger:     logger,
	}, nil
}

// Respond generates a reply to message for the user identified by userID.
// name is the guest's display name, used only when priming a new
// conversation.
//
// Failure modes:
//   - Retrieval failure degrades to an uncontextualized request; the
//     request still succeeds.
//   - A history read failure degrades to a fresh conversation.
//   - A generation failure returns an error wrapping ErrGenerationFailed
//     and leaves the stored history untouched.
//   - A history write failure returns the reply text together with an
//     error wrapping ErrHistoryNotSaved; the caller decides whether the
//     reply is still delivered.
func (r *Responder) Respond(ctx context.Context, message, userID, name string) (string, error) {
	logger := r.logger.With("user", userID, "request_id", uuid.NewString())

	kbContext, err := r.retriever.ContextForQuery(ctx, message, r.topResults)
	if err != nil {
		logger.Warn("context retrieval failed, continuing without knowledge base", "error", err)
		kbContext = ""
	}

	// Hold the per-user lock across the whole read-modify-write cycle so
	// interleaved requests for one user cannot drop turns.
	unlock := r.sessions.Lock(userID)
	defer unlock()

	history, found, err := r.sessions.Lookup(ctx, userID)
	if err != nil {
		logger.Error("loading conversation failed, starting fresh", "error", err)
		history, found = session.History{}, false
	}

	if !found {
		logger.Info("creating new conversation", "name", name)
		priming := primingInstruction(r.property, name, kbContext)

		ack, err := r.generateWithRetry(ctx, nil, priming)
		if err != nil {
			return "", fmt.Errorf("priming conversation: %w: %w", ErrGenerationFailed, err)
		}

		now := time.Now().UTC()
		history = history.Append(
			session.Entry{Role: session.RoleSystem, Text: priming, At: now},
			session.Entry{Role: session.RoleAssistant, Text: ack, At: now},
		)
	} else {
		logger.Info("continuing conversation", "entries", history.Len())
	}

	// The persisted user turn is the context-enhanced request, not the
	// raw inbound message: the model's multi-turn state must match what
	// it actually saw.
	request := contextualRequest(message, kbContext)

	reply, err := r.generateWithRetry(ctx, history.Entries(), request)
	if err != nil {
		return "", fmt.Errorf("generating reply: %w: %w", ErrGenerationFailed, err)
	}

	now := time.Now().UTC()
	history = history.Append(
		session.Entry{Role: session.RoleUser, Text: request, At: now},
		session.Entry{Role: session.RoleAssistant, Text: reply, At: now},
	)

	if err := r.sessions.Save(ctx, userID, history); err != nil {
		logger.Error("conversation not persisted", "error", err)
		return reply, fmt.Errorf("%w: %w", ErrHistoryNotSaved, err)
	}

	logger.Info("reply generated", "entries", history.Len())
	return reply, nil
}
