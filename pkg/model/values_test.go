package model_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrules/pkg/model"
)

func TestIsEmpty(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		value any
		want  bool
	}{
		"nil":          {value: nil, want: true},
		"empty string": {value: "", want: true},
		"whitespace":   {value: " ", want: false},
		"empty list":   {value: []string{}, want: true},
		"empty any":    {value: []any{}, want: true},
		"list":         {value: []string{"a"}, want: false},
		"number":       {value: 0, want: false},
		"false":        {value: false, want: false},
	}

	for name, tc := range cases {
		if got := model.IsEmpty(tc.value); got != tc.want {
			t.Fatalf("%s: IsEmpty(%#v) = %v, want %v", name, tc.value, got, tc.want)
		}
	}
}

func TestText(t *testing.T) {
	t.Parallel()

	got := []string{
		model.Text(nil),
		model.Text("plain"),
		model.Text([]string{"a", "b"}),
		model.Text([]any{"a", 2, true}),
		model.Text(4.5),
	}
	want := []string{"", "plain", "a,b", "a,2,true", "4.5"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("text coercion mismatch (-want +got):\n%s", diff)
	}
}

func TestSelections(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff([]string{"a", "c"}, model.Selections([]any{"a", "", "c", nil})); diff != "" {
		t.Fatalf("selections mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"yes"}, model.Selections("yes")); diff != "" {
		t.Fatalf("scalar selection mismatch (-want +got):\n%s", diff)
	}
	if got := model.Selections(""); len(got) != 0 {
		t.Fatalf("expected no selections for empty string, got %v", got)
	}
}

func TestParseFieldType(t *testing.T) {
	t.Parallel()

	kind, ok := model.ParseFieldType(" Short_Text ")
	if !ok || kind != model.FieldTypeText {
		t.Fatalf("expected alias to resolve to text, got %q (%v)", kind, ok)
	}

	kind, ok = model.ParseFieldType("signature")
	if ok {
		t.Fatalf("expected unknown type to report ok=false")
	}
	if kind != "signature" {
		t.Fatalf("expected unknown type to be preserved, got %q", kind)
	}

	if !model.FieldTypeCheckbox.MultiValue() || model.FieldTypeSelect.MultiValue() {
		t.Fatalf("only checkbox is multi-value")
	}
}

func TestFormDataClone(t *testing.T) {
	t.Parallel()

	original := model.FormData{"tags": []string{"a"}, "name": "x"}
	clone := original.Clone()
	clone["tags"].([]string)[0] = "changed"

	if diff := cmp.Diff(model.FormData{"tags": []string{"a"}, "name": "x"}, original); diff != "" {
		t.Fatalf("clone mutated original (-want +got):\n%s", diff)
	}
	if model.FormData(nil).Get("x") != nil {
		t.Fatalf("nil form data should read as empty")
	}
}
