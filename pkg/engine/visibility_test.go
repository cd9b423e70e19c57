package engine_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrules/pkg/engine"
	"github.com/goliatone/go-formrules/pkg/model"
	"github.com/goliatone/go-formrules/pkg/rules"
)

func threeFields() []model.Field {
	return []model.Field{
		{ID: "f1", Type: model.FieldTypeText},
		{ID: "f2", Type: model.FieldTypeText},
		{ID: "f3", Type: model.FieldTypeText},
	}
}

func TestVisibleShowWinsOverHide(t *testing.T) {
	t.Parallel()

	set := []rules.Rule{
		{Action: rules.ActionHideField, TargetID: "f2", Condition: rules.ConditionFilled, FieldID: "f1"},
		{Action: rules.ActionShowField, TargetID: "f2", Condition: rules.ConditionFilled, FieldID: "f1"},
	}
	got := engine.Visible(threeFields(), set, model.FormData{"f1": "x"})

	// f2 is removed by the hide phase and appended again by the show phase.
	want := []string{"f1", "f3", "f2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("visible fields mismatch (-want +got):\n%s", diff)
	}
}

func TestVisibleShowWinsRegardlessOfRuleOrder(t *testing.T) {
	t.Parallel()

	set := []rules.Rule{
		{Action: rules.ActionShowField, TargetID: "f2", Condition: rules.ConditionFilled, FieldID: "f1"},
		{Action: rules.ActionHideField, TargetID: "f2", Condition: rules.ConditionFilled, FieldID: "f1"},
	}
	got := engine.Visible(threeFields(), set, model.FormData{"f1": "x"})
	if diff := cmp.Diff([]string{"f1", "f3", "f2"}, got); diff != "" {
		t.Fatalf("visible fields mismatch (-want +got):\n%s", diff)
	}
}

func TestVisibleHideRuleStopsMatching(t *testing.T) {
	t.Parallel()

	set := []rules.Rule{
		{FieldID: "f1", Condition: rules.ConditionEquals, Value: "hide", Action: rules.ActionHideField, TargetID: "f3"},
	}

	hidden := engine.Visible(threeFields(), set, model.FormData{"f1": "hide"})
	if diff := cmp.Diff([]string{"f1", "f2"}, hidden); diff != "" {
		t.Fatalf("hidden pass mismatch (-want +got):\n%s", diff)
	}

	shown := engine.Visible(threeFields(), set, model.FormData{"f1": "keep"})
	if diff := cmp.Diff([]string{"f1", "f2", "f3"}, shown); diff != "" {
		t.Fatalf("fields must reappear once the hide rule stops matching (-want +got):\n%s", diff)
	}
}

func TestVisibleShowOfVisibleFieldKeepsPosition(t *testing.T) {
	t.Parallel()

	set := []rules.Rule{
		{FieldID: "f1", Condition: rules.ConditionFilled, Action: rules.ActionShowField, TargetID: "f2"},
	}
	got := engine.Visible(threeFields(), set, model.FormData{"f1": "x"})
	if diff := cmp.Diff([]string{"f1", "f2", "f3"}, got); diff != "" {
		t.Fatalf("visible fields mismatch (-want +got):\n%s", diff)
	}
}

func TestVisibleUnknownTargetsAreIgnored(t *testing.T) {
	t.Parallel()

	set := []rules.Rule{
		{FieldID: "f1", Condition: rules.ConditionFilled, Action: rules.ActionShowField, TargetID: "ghost"},
		{FieldID: "f1", Condition: rules.ConditionFilled, Action: rules.ActionHideField, TargetID: "phantom"},
		{FieldID: "f1", Condition: rules.ConditionFilled, Action: rules.ActionHideField},
		{FieldID: "missing", Condition: rules.ConditionFilled, Action: rules.ActionHideField, TargetID: "f1"},
		{FieldID: "f1", Condition: rules.ConditionFilled, Action: "teleport", TargetID: "f2"},
	}

	got := engine.Evaluate(threeFields(), model.FormData{"f1": "x"}, set)
	if diff := cmp.Diff([]string{"f1", "f2", "f3"}, got.VisibleFields); diff != "" {
		t.Fatalf("visible fields mismatch (-want +got):\n%s", diff)
	}
	if !got.CanSubmit {
		t.Fatalf("malformed visibility rules must not affect the submit gate")
	}
}

func TestVisibleMultipleHides(t *testing.T) {
	t.Parallel()

	set := []rules.Rule{
		{FieldID: "f1", Condition: rules.ConditionContains, Value: "a", Action: rules.ActionHideField, TargetID: "f2"},
		{FieldID: "f1", Condition: rules.ConditionContains, Value: "b", Action: rules.ActionHideField, TargetID: "f3"},
		{FieldID: "f1", Condition: rules.ConditionContains, Value: "b", Action: rules.ActionHideField, TargetID: "f3"},
		{FieldID: "f1", Condition: rules.ConditionContains, Value: "z", Action: rules.ActionShowField, TargetID: "f2"},
	}
	got := engine.Visible(threeFields(), set, model.FormData{"f1": "ab"})
	if diff := cmp.Diff([]string{"f1"}, got); diff != "" {
		t.Fatalf("visible fields mismatch (-want +got):\n%s", diff)
	}
}

func TestVisibleEmptySchema(t *testing.T) {
	t.Parallel()

	got := engine.Visible(nil, []rules.Rule{{FieldID: "x", Condition: rules.ConditionFilled, Action: rules.ActionShowField, TargetID: "x"}}, model.FormData{"x": "1"})
	if len(got) != 0 {
		t.Fatalf("expected no visible fields, got %v", got)
	}
}
