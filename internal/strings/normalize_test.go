package strings

import "testing"

func TestNormalizeWhitespace(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: " \n\t ", want: ""},
		{name: "single token", input: "milk", want: "milk"},
		{name: "collapses spaces", input: "oat   milk    2l", want: "oat milk 2l"},
		{name: "collapses newlines", input: "oat\n\n milk\t2l", want: "oat milk 2l"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeWhitespace(tc.input); got != tc.want {
				t.Fatalf("NormalizeWhitespace(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeLowerTrimSpace(t *testing.T) {
	if got := NormalizeLowerTrimSpace("  Alice@Example.COM \n"); got != "alice@example.com" {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestNormalizeNewlines(t *testing.T) {
	if got := NormalizeNewlines("a\r\nb\rc\n"); got != "a\nb\nc\n" {
		t.Fatalf("unexpected value %q", got)
	}
	if got := TrimTrailingNewlines("note\r\n\n"); got != "note" {
		t.Fatalf("unexpected value %q", got)
	}
}
