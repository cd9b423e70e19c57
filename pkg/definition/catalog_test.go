package definition_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrules/pkg/definition"
)

func TestLoadFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"forms/contact.yaml":     {Data: []byte(contactYAML)},
		"forms/nested/poll.json": {Data: []byte(`{"id":"poll","fields":[{"id":"choice","type":"radio"}]}`)},
		"forms/README.md":        {Data: []byte("# not a form")},
	}

	catalog, err := definition.LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"contact", "poll"}, catalog.IDs()); diff != "" {
		t.Fatalf("catalog ids mismatch (-want +got):\n%s", diff)
	}
	if got := catalog.Source("poll"); got != "forms/nested/poll.json" {
		t.Fatalf("unexpected source %q", got)
	}
	form, ok := catalog.Form("contact")
	if !ok {
		t.Fatalf("contact form missing")
	}
	if diff := cmp.Diff(contactForm(), form); diff != "" {
		t.Fatalf("contact form mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFSDuplicateForm(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("id: dup\n")},
		"b.json": {Data: []byte(`{"id":"dup"}`)},
	}
	_, err := definition.LoadFS(fsys)
	if err == nil || !strings.Contains(err.Error(), `duplicate form "dup"`) {
		t.Fatalf("expected duplicate form error, got %v", err)
	}
}

func TestLoadFSNil(t *testing.T) {
	t.Parallel()

	catalog, err := definition.LoadFS(nil)
	if err != nil {
		t.Fatalf("LoadFS returned error: %v", err)
	}
	if catalog.Len() != 0 {
		t.Fatalf("expected empty catalog")
	}
}
