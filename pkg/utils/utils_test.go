package utils

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseObject(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   map[string]any
		wantOK bool
	}{
		{"plain object", `{"a":1,"b":"x"}`, map[string]any{"a": 1.0, "b": "x"}, true},
		{"surrounding whitespace", "\n\t {\"a\":true}  \n", map[string]any{"a": true}, true},
		{"markdown fence", "```json\n{\"image_prompt\":\"a knight\"}\n```", map[string]any{"image_prompt": "a knight"}, true},
		{"double encoded", `"{\"a\":\"b\"}"`, map[string]any{"a": "b"}, true},
		{"empty object", `{}`, map[string]any{}, true},
		{"leading prose", `Here you go: {"a":1}`, map[string]any{}, false},
		{"trailing prose", `{"a":1} hope this helps`, map[string]any{}, false},
		{"invalid", `{"a":`, map[string]any{}, false},
		{"not json", `A grim old warrior`, map[string]any{}, false},
		{"array", `[1,2]`, map[string]any{}, false},
		{"empty", ``, map[string]any{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseObject(tt.in)
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got == nil {
				t.Fatal("ParseObject returned nil map")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestStringField(t *testing.T) {
	obj := map[string]any{"a": "x", "b": "  ", "c": 3}
	if s, ok := StringField(obj, "a"); !ok || s != "x" {
		t.Errorf("StringField(a) = %q, %v", s, ok)
	}
	for _, k := range []string{"b", "c", "missing"} {
		if _, ok := StringField(obj, k); ok {
			t.Errorf("StringField(%s) should not be ok", k)
		}
	}
}

func TestSanitizeSample(t *testing.T) {
	tests := map[string]string{
		`"Hello there."`:                "Hello there.",
		"“Curly quotes”":                "Curly quotes",
		"'single'":                      "single",
		"no   quotes\n\nat all":         "no quotes at all",
		`""Nested""`:                    `"Nested"`,
		`"unbalanced`:                   `"unbalanced`,
		"  \t padded \t ":               "padded",
		`"`:                             `"`,
		"":                              "",
		"“Line one\n   line two.”  ":    "Line one line two.",
	}
	for in, want := range tests {
		if got := SanitizeSample(in); got != want {
			t.Errorf("SanitizeSample(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncateAndLimit(t *testing.T) {
	if got := Truncate("héllo wörld", 4); got != "héll" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Errorf("Truncate short = %q", got)
	}
	if got := LimitStr("abcdef", 3); got != "abc..." {
		t.Errorf("LimitStr = %q", got)
	}
	if got := LimitStr("abc", 3); got != "abc" {
		t.Errorf("LimitStr exact = %q", got)
	}
}

func TestChunkText(t *testing.T) {
	if got := ChunkText("   ", 10); got != nil {
		t.Errorf("blank text should give nil, got %v", got)
	}

	text := strings.Repeat("wörd ", 100)
	chunks := ChunkText(text, 42)
	if len(chunks) != 12 {
		t.Fatalf("expected 12 chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if RuneLen(c) > 42 {
			t.Errorf("chunk exceeds limit: %d", RuneLen(c))
		}
	}
	if strings.Join(chunks, "") != strings.TrimSpace(text) {
		t.Error("chunks do not reassemble to the input")
	}

	if got := ChunkText("short", 10); len(got) != 1 || got[0] != "short" {
		t.Errorf("ChunkText(short) = %v", got)
	}
}
