package fill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/goliatone/go-formrules/pkg/definition"
	"github.com/goliatone/go-formrules/pkg/engine"
	"github.com/goliatone/go-formrules/pkg/model"
	"github.com/goliatone/go-formrules/pkg/submission"
)

// Session walks a respondent through a form, re-evaluating rules after every
// answer so fields revealed by earlier answers are asked in turn.
type Session struct {
	driver        PromptDriver
	logger        *slog.Logger
	maxAttempts   int
	skipPrefilled bool
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithLogger sets the logger used for debug traces.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxAttempts caps how often one field is re-asked after an invalid
// answer. Zero means no limit.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.maxAttempts = n
		}
	}
}

// WithSkipPrefilled accepts valid prefilled answers without prompting.
func WithSkipPrefilled(skip bool) Option {
	return func(s *Session) {
		s.skipPrefilled = skip
	}
}

// NewSession builds a session. Without WithPromptDriver it prompts on the
// terminal through survey.
func NewSession(options ...Option) *Session {
	s := &Session{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxAttempts: 3,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s
}

// Run collects answers for form starting from prefill, which is never
// mutated. It returns the collected data and the engine result for it.
func (s *Session) Run(ctx context.Context, form definition.Form, prefill model.FormData) (model.FormData, engine.Result, error) {
	data := prefill.Clone()
	if data == nil {
		data = model.FormData{}
	}
	asked := make(map[string]bool, len(form.Fields))

	for {
		if err := ctx.Err(); err != nil {
			return nil, engine.Result{}, err
		}

		result := form.Evaluate(data)
		field, ok := nextField(form, result, asked)
		if !ok {
			return data, result, nil
		}
		asked[field.ID] = true

		current := data.Get(field.ID)
		if s.skipPrefilled && !model.IsEmpty(current) && engine.ValidateField(field, current) {
			s.logger.Debug("fill: using prefilled answer", "form", form.ID, "field", field.ID)
			continue
		}

		value, err := s.askValid(ctx, field, current)
		if err != nil {
			return nil, engine.Result{}, err
		}
		if model.IsEmpty(value) {
			delete(data, field.ID)
		} else {
			data[field.ID] = value
		}
	}
}

func nextField(form definition.Form, result engine.Result, asked map[string]bool) (model.Field, bool) {
	for _, id := range result.VisibleFields {
		if asked[id] {
			continue
		}
		if field, ok := form.Field(id); ok {
			return field, true
		}
	}
	return model.Field{}, false
}

func (s *Session) askValid(ctx context.Context, field model.Field, current any) (any, error) {
	for attempt := 1; ; attempt++ {
		value, err := s.ask(ctx, field, current)
		if err != nil {
			return nil, fmt.Errorf("fill: field %q: %w", field.ID, err)
		}
		if engine.ValidateField(field, value) {
			return value, nil
		}
		if s.maxAttempts > 0 && attempt >= s.maxAttempts {
			return nil, fmt.Errorf("%w: field %q", ErrTooManyAttempts, field.ID)
		}
		if err := s.driver.Info(ctx, invalidMessage(field, value)); err != nil {
			return nil, err
		}
		current = value
	}
}

func (s *Session) ask(ctx context.Context, field model.Field, current any) (any, error) {
	message := field.DisplayLabel()
	if field.Required {
		message += " *"
	}
	kind, _ := model.ParseFieldType(string(field.Type))

	switch {
	case kind.MultiValue() && len(field.Options) > 0:
		picked, err := s.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  field.Options,
			Defaults: indicesOf(field.Options, model.Selections(current)),
			Help:     field.HelpText,
		})
		if err != nil {
			return nil, err
		}
		return optionsAt(field.Options, picked), nil

	case kind.MultiValue():
		checked, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: !model.IsEmpty(current),
			Help:    field.HelpText,
		})
		if err != nil || !checked {
			return nil, err
		}
		return "true", nil

	case kind.Choice() && len(field.Options) > 0:
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      field.Options,
			DefaultIndex: indexOf(field.Options, model.Text(current)),
			Help:         field.HelpText,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return nil, nil
		}
		return field.Options[idx], nil

	case kind == model.FieldTypeTextarea:
		text, err := s.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: model.Text(current),
			Help:    field.HelpText,
		})
		if err != nil {
			return nil, err
		}
		return answer(text), nil

	default:
		text, err := s.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   model.Text(current),
			Help:      helpFor(field),
			Validator: fieldValidator(field),
		})
		if err != nil {
			return nil, err
		}
		return answer(text), nil
	}
}

// answer maps a blank response to "no answer".
func answer(text string) any {
	if text == "" {
		return nil
	}
	return text
}

func optionsAt(options []string, indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx])
		}
	}
	return out
}

func helpFor(field model.Field) string {
	if field.HelpText != "" {
		return field.HelpText
	}
	if field.Placeholder != "" {
		return "e.g. " + field.Placeholder
	}
	return ""
}

// fieldValidator rejects text the engine would mark invalid for field.
func fieldValidator(field model.Field) func(string) error {
	return func(text string) error {
		value := answer(text)
		if engine.ValidateField(field, value) {
			return nil
		}
		return errors.New(submission.FieldMessage(field, value))
	}
}

func invalidMessage(field model.Field, value any) string {
	return field.DisplayLabel() + ": " + submission.FieldMessage(field, value)
}
