package fill

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/google/go-cmp/cmp"
)

func TestOptionIndexHelpers(t *testing.T) {
	t.Parallel()

	options := []string{"sales", "support", "billing"}

	if got := indexOf(options, "support"); got != 1 {
		t.Fatalf("indexOf(support) = %d, want 1", got)
	}
	if got := indexOf(options, "other"); got != -1 {
		t.Fatalf("indexOf(other) = %d, want -1", got)
	}

	got := indicesOf(options, []string{"billing", "sales", "unknown"})
	if diff := cmp.Diff([]int{0, 2}, got); diff != "" {
		t.Fatalf("indicesOf mismatch (-want +got):\n%s", diff)
	}
	if got := indicesOf(options, nil); got != nil {
		t.Fatalf("indicesOf(nil) = %v, want nil", got)
	}

	picked := optionsAt(options, []int{2, -1, 0, 7})
	if diff := cmp.Diff([]string{"billing", "sales"}, picked); diff != "" {
		t.Fatalf("optionsAt mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateSurveyErr(t *testing.T) {
	t.Parallel()

	if err := translateSurveyErr(fmt.Errorf("prompt: %w", terminal.InterruptErr)); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected interrupt to map to ErrAborted, got %v", err)
	}
	other := errors.New("tty gone")
	if err := translateSurveyErr(other); err != other {
		t.Fatalf("expected other errors to pass through, got %v", err)
	}
}

func TestInputValidatorOptions(t *testing.T) {
	t.Parallel()

	if opts := inputValidator(nil); opts != nil {
		t.Fatalf("expected no options without a validator, got %d", len(opts))
	}
	opts := inputValidator(func(string) error { return nil })
	if len(opts) != 1 {
		t.Fatalf("expected one validator option, got %d", len(opts))
	}
}

func TestSurveyDriverHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	driver := NewSurveyDriver(&out)

	if _, err := driver.Input(ctx, InputConfig{Message: "Name"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Input: expected context.Canceled, got %v", err)
	}
	if _, err := driver.Confirm(ctx, ConfirmConfig{Message: "Subscribe"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Confirm: expected context.Canceled, got %v", err)
	}
	if _, err := driver.Select(ctx, SelectConfig{Message: "Topic", Options: []string{"a"}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Select: expected context.Canceled, got %v", err)
	}
	if _, err := driver.MultiSelect(ctx, SelectConfig{Message: "Tags", Options: []string{"a"}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("MultiSelect: expected context.Canceled, got %v", err)
	}
	if _, err := driver.TextArea(ctx, TextAreaConfig{Message: "Message"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("TextArea: expected context.Canceled, got %v", err)
	}
	if err := driver.Info(ctx, "hello"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Info: expected context.Canceled, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected nothing written after cancellation, got %q", out.String())
	}
}

func TestSurveyDriverInfoWritesLine(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	driver := NewSurveyDriver(&out)
	if err := driver.Info(context.Background(), "email: Enter a valid email address."); err != nil {
		t.Fatalf("Info returned error: %v", err)
	}
	if diff := cmp.Diff("email: Enter a valid email address.\n", out.String()); diff != "" {
		t.Fatalf("info output mismatch (-want +got):\n%s", diff)
	}
}
