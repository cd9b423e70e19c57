package sanitize_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrules/pkg/model"
	"github.com/goliatone/go-formrules/pkg/sanitize"
)

func TestStrictRemovesMarkup(t *testing.T) {
	t.Parallel()

	s := sanitize.Strict()
	cases := map[string]string{
		"plain":                                    "plain",
		"Tom & Jerry":                              "Tom & Jerry",
		`<script>alert("x")</script>hello`:         "hello",
		`<b onclick="steal()">bold</b> text`:       "bold text",
		`  <a href="javascript:void(0)">x</a> `:    "x",
		"":                                         "",
		"a < b":                                    "a < b",
		"&lt;script&gt;alert(1)&lt;/script&gt;":    "",
		"&lt;b&gt;bold&lt;/b&gt;":                  "bold",
		"&amp;lt;i&amp;gt;twice&amp;lt;/i&amp;gt;": "twice",
	}
	for input, want := range cases {
		if got := s.Sanitize(input); got != want {
			t.Fatalf("Sanitize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestStrictIsIdempotent(t *testing.T) {
	t.Parallel()

	s := sanitize.Strict()
	for _, input := range []string{
		"&lt;img src=x onerror=alert(1)&gt;",
		"Tom &amp; Jerry",
		"<p>&lt;em&gt;nested&lt;/em&gt;</p>",
	} {
		once := s.Sanitize(input)
		if twice := s.Sanitize(once); twice != once {
			t.Fatalf("Sanitize not stable for %q: %q then %q", input, once, twice)
		}
		if strings.ContainsAny(once, "<>") {
			t.Fatalf("Sanitize(%q) = %q still contains markup", input, once)
		}
	}
}

func TestValues(t *testing.T) {
	t.Parallel()

	data := model.FormData{
		"name":  "<i>Ada</i>",
		"tags":  []string{"<b>go</b>", "rust"},
		"mixed": []any{"<u>x</u>", 3},
		"count": 7,
	}
	got := sanitize.Values(sanitize.Strict(), data)
	want := model.FormData{
		"name":  "Ada",
		"tags":  []string{"go", "rust"},
		"mixed": []any{"x", 3},
		"count": 7,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sanitized values mismatch (-want +got):\n%s", diff)
	}
	if data["name"] != "<i>Ada</i>" {
		t.Fatalf("Values must not mutate its input")
	}
}
