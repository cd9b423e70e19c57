// Package submission is the host-side gate in front of the submission sink.
// It re-runs the rule engine on the submitted snapshot and refuses anything
// the engine would not let the respondent submit, so HTTP clients cannot
// bypass the rules by posting directly.
package submission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formrules/pkg/definition"
	"github.com/goliatone/go-formrules/pkg/engine"
	"github.com/goliatone/go-formrules/pkg/model"
	"github.com/goliatone/go-formrules/pkg/sanitize"
)

// Outcome labels the result of one Accept call.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
	OutcomeFailed   Outcome = "failed"
)

// Observer is notified of every gate decision.
type Observer interface {
	ObserveSubmission(formID string, outcome Outcome)
}

// Receipt is an accepted submission. Values only carries fields that were
// visible when the snapshot was evaluated.
type Receipt struct {
	ID         string         `json:"id"`
	FormID     string         `json:"formId"`
	Values     model.FormData `json:"values"`
	ReceivedAt time.Time      `json:"receivedAt"`
}

// Sink receives accepted submissions.
type Sink interface {
	Store(ctx context.Context, receipt Receipt) error
}

// Gate validates submissions against a form's rules.
type Gate struct {
	logger    *slog.Logger
	sanitizer sanitize.Sanitizer
	observer  Observer
	sink      Sink
	now       func() time.Time
	newID     func() string
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the logger used for accepted and rejected submissions.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithSanitizer overrides the sanitizer applied to incoming values before
// evaluation. Passing nil keeps values verbatim.
func WithSanitizer(s sanitize.Sanitizer) Option {
	return func(g *Gate) {
		g.sanitizer = s
	}
}

// WithObserver registers an observer for gate decisions.
func WithObserver(observer Observer) Option {
	return func(g *Gate) {
		g.observer = observer
	}
}

// WithSink sets where accepted receipts are delivered.
func WithSink(sink Sink) Option {
	return func(g *Gate) {
		g.sink = sink
	}
}

// WithClock overrides the receipt timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// WithIDGenerator overrides receipt id generation.
func WithIDGenerator(fn func() string) Option {
	return func(g *Gate) {
		if fn != nil {
			g.newID = fn
		}
	}
}

// NewGate constructs a Gate that sanitizes with sanitize.Strict and keeps
// no receipts unless a sink is configured.
func NewGate(options ...Option) *Gate {
	g := &Gate{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		sanitizer: sanitize.Strict(),
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	return g
}

// Accept sanitizes data, evaluates the cleaned values against form and
// returns a receipt when the engine allows submission. The receipt stores the
// same values the engine judged. Rejections are returned as *RejectedError.
func (g *Gate) Accept(ctx context.Context, form definition.Form, data model.FormData) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	clean := sanitize.Values(g.sanitizer, data)
	result := form.Evaluate(clean)
	if rejection := Explain(form.ID, form.Fields, clean, result); rejection != nil {
		g.observe(form.ID, OutcomeRejected)
		g.logger.Info("submission rejected",
			slog.String("form", form.ID),
			slog.Any("invalid", result.InvalidFields(form.Fields)),
		)
		return Receipt{}, rejection
	}

	receipt := Receipt{
		ID:         g.newID(),
		FormID:     form.ID,
		Values:     VisibleValues(form.Fields, clean, result),
		ReceivedAt: g.now().UTC(),
	}

	if g.sink != nil {
		if err := g.sink.Store(ctx, receipt); err != nil {
			g.observe(form.ID, OutcomeFailed)
			g.logger.Error("submission sink failed", slog.String("form", form.ID), slog.Any("error", err))
			return Receipt{}, fmt.Errorf("submission: store receipt: %w", err)
		}
	}

	g.observe(form.ID, OutcomeAccepted)
	g.logger.Info("submission accepted", slog.String("form", form.ID), slog.String("receipt", receipt.ID))
	return receipt, nil
}

func (g *Gate) observe(formID string, outcome Outcome) {
	if g.observer != nil {
		g.observer.ObserveSubmission(formID, outcome)
	}
}

// VisibleValues keeps the values of fields that are both in the schema and
// visible in result. Unknown keys and hidden fields are dropped.
func VisibleValues(fields []model.Field, data model.FormData, result engine.Result) model.FormData {
	out := make(model.FormData)
	if len(data) == 0 {
		return out
	}
	visible := make(map[string]struct{}, len(result.VisibleFields))
	for _, id := range result.VisibleFields {
		visible[id] = struct{}{}
	}
	for _, field := range fields {
		if _, ok := visible[field.ID]; !ok {
			continue
		}
		if value, ok := data[field.ID]; ok {
			out[field.ID] = value
		}
	}
	return out
}

// IsRejected reports whether err is a rejection and returns it.
func IsRejected(err error) (*RejectedError, bool) {
	var rejection *RejectedError
	if errors.As(err, &rejection) {
		return rejection, true
	}
	return nil, false
}

// MemorySink keeps receipts in memory, in arrival order.
type MemorySink struct {
	mu       sync.Mutex
	receipts []Receipt
}

var _ Sink = (*MemorySink)(nil)

func (s *MemorySink) Store(ctx context.Context, receipt Receipt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts = append(s.receipts, receipt)
	return nil
}

// Receipts returns a copy of the stored receipts.
func (s *MemorySink) Receipts() []Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Receipt(nil), s.receipts...)
}

func sortedKeys(values map[string][]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
