package fill_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrules/pkg/definition"
	"github.com/goliatone/go-formrules/pkg/fill"
	"github.com/goliatone/go-formrules/pkg/model"
	"github.com/goliatone/go-formrules/pkg/rules"
	"github.com/goliatone/go-formrules/pkg/submission"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	asked        []string
	validators   map[string]func(string) error
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
	err          error
}

func (s *stubDriver) Input(_ context.Context, cfg fill.InputConfig) (string, error) {
	s.asked = append(s.asked, cfg.Message)
	if s.validators == nil {
		s.validators = map[string]func(string) error{}
	}
	s.validators[cfg.Message] = cfg.Validator
	if s.err != nil {
		return "", s.err
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg fill.ConfirmConfig) (bool, error) {
	s.asked = append(s.asked, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg fill.SelectConfig) (int, error) {
	s.asked = append(s.asked, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg fill.SelectConfig) ([]int, error) {
	s.asked = append(s.asked, cfg.Message)
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg fill.TextAreaConfig) (string, error) {
	s.asked = append(s.asked, cfg.Message)
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func supportForm() definition.Form {
	return definition.Form{
		ID: "support",
		Fields: []model.Field{
			{ID: "name", Type: model.FieldTypeText, Required: true, Label: "Name"},
			{ID: "email", Type: model.FieldTypeEmail, Required: true},
			{ID: "topic", Type: model.FieldTypeSelect, Options: []string{"sales", "support"}},
			{ID: "order", Type: model.FieldTypeText, Label: "Order number"},
		},
		Rules: []rules.Rule{
			{FieldID: "topic", Condition: rules.ConditionFilled, Action: rules.ActionHideField, TargetID: "order"},
			{FieldID: "topic", Condition: rules.ConditionEquals, Value: "support", Action: rules.ActionShowField, TargetID: "order"},
			{FieldID: "email", Condition: rules.ConditionEmailValid, Action: rules.ActionShowSubmit},
		},
	}
}

func TestSessionAsksRevealedFieldsAndRepromptsInvalidAnswers(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{
		inputs:    []string{"Ada", "not-an-email", "ada@example.com", "A-42"},
		selectIdx: []int{1},
	}
	session := fill.NewSession(fill.WithPromptDriver(driver))

	data, result, err := session.Run(context.Background(), supportForm(), nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	wantData := model.FormData{"name": "Ada", "email": "ada@example.com", "topic": "support", "order": "A-42"}
	if diff := cmp.Diff(wantData, data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
	if !result.CanSubmit {
		t.Fatalf("expected final result to be submittable: %+v", result)
	}
	if diff := cmp.Diff([]string{"email: Enter a valid email address."}, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
	wantAsked := []string{"Name *", "email *", "email *", "topic", "Order number"}
	if diff := cmp.Diff(wantAsked, driver.asked); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionPassesFieldValidatorToInputs(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{
		inputs:    []string{"Ada", "ada@example.com", "A-42"},
		selectIdx: []int{1},
	}
	session := fill.NewSession(fill.WithPromptDriver(driver))
	if _, _, err := session.Run(context.Background(), supportForm(), nil); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	cases := []struct {
		prompt string
		text   string
		want   string
	}{
		{prompt: "email *", text: "bad", want: submission.MessageInvalidEmail},
		{prompt: "email *", text: "", want: submission.MessageRequired},
		{prompt: "email *", text: "a@b.co"},
		{prompt: "Name *", text: "", want: submission.MessageRequired},
		{prompt: "Name *", text: "Ada"},
		{prompt: "Order number", text: ""},
	}
	for _, tc := range cases {
		validate := driver.validators[tc.prompt]
		if validate == nil {
			t.Fatalf("prompt %q was asked without a validator", tc.prompt)
		}
		got := ""
		if err := validate(tc.text); err != nil {
			got = err.Error()
		}
		if got != tc.want {
			t.Fatalf("validator for %q on %q = %q, want %q", tc.prompt, tc.text, got, tc.want)
		}
	}
}

func TestSessionSkipsHiddenFields(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{
		inputs:    []string{"Ada", "ada@example.com"},
		selectIdx: []int{0},
	}
	session := fill.NewSession(fill.WithPromptDriver(driver))

	data, result, err := session.Run(context.Background(), supportForm(), nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if _, ok := data["order"]; ok {
		t.Fatalf("hidden field should not be collected: %v", data)
	}
	if diff := cmp.Diff([]string{"name", "email", "topic"}, result.VisibleFields); diff != "" {
		t.Fatalf("visible fields mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionUsesPrefilledAnswers(t *testing.T) {
	t.Parallel()

	prefill := model.FormData{"name": "Ada", "email": "ada@example.com"}
	driver := &stubDriver{selectIdx: []int{0}}
	session := fill.NewSession(fill.WithPromptDriver(driver), fill.WithSkipPrefilled(true))

	data, _, err := session.Run(context.Background(), supportForm(), prefill)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"topic"}, driver.asked); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	if data["topic"] != "sales" {
		t.Fatalf("expected topic to be collected, got %v", data)
	}
	if _, ok := prefill["topic"]; ok {
		t.Fatalf("prefill must not be mutated")
	}
}

func TestSessionGivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{inputs: []string{"Ada", "bad", "worse"}}
	session := fill.NewSession(fill.WithPromptDriver(driver), fill.WithMaxAttempts(2))

	_, _, err := session.Run(context.Background(), supportForm(), nil)
	if !errors.Is(err, fill.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestSessionPropagatesAbort(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{err: fill.ErrAborted}
	session := fill.NewSession(fill.WithPromptDriver(driver))

	_, _, err := session.Run(context.Background(), supportForm(), nil)
	if !errors.Is(err, fill.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestSessionCollectsChoicesAndLongText(t *testing.T) {
	t.Parallel()

	form := definition.Form{
		ID: "survey",
		Fields: []model.Field{
			{ID: "channels", Type: model.FieldTypeCheckbox, Required: true, Options: []string{"mail", "phone", "chat"}},
			{ID: "consent", Type: model.FieldTypeCheckbox},
			{ID: "notes", Type: model.FieldTypeTextarea},
		},
	}
	driver := &stubDriver{
		multiIdx:  [][]int{{}, {0, 2}},
		confirm:   []bool{true},
		textAreas: []string{"call after 5pm"},
	}
	session := fill.NewSession(fill.WithPromptDriver(driver))

	data, result, err := session.Run(context.Background(), form, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := model.FormData{
		"channels": []string{"mail", "chat"},
		"consent":  "true",
		"notes":    "call after 5pm",
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
	if !result.CanSubmit {
		t.Fatalf("expected submittable result: %+v", result)
	}
	if diff := cmp.Diff([]string{"channels: Select at least one option."}, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := fill.NewSession(fill.WithPromptDriver(&stubDriver{})).Run(ctx, supportForm(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
