package capture

import (
	"strings"
	"testing"
)

func TestShortTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "short passes", input: "Buy milk", want: "Buy milk"},
		{name: "strips trailing punctuation run", input: "Buy milk?!.", want: "Buy milk"},
		{name: "keeps inner punctuation", input: "Call Bob: re, invoice.", want: "Call Bob: re, invoice"},
		{name: "compacts whitespace", input: "  Buy \n milk  ", want: "Buy milk"},
		{name: "empty", input: "  ", want: ""},
		{name: "only punctuation", input: "...", want: ""},
		{
			name:  "cuts on last space",
			input: "Prepare the quarterly planning document for the infrastructure team review",
			want:  "Prepare the quarterly planning document for the",
		},
		{
			name:  "unbroken text takes raw cut",
			input: strings.Repeat("a", 75),
			want:  strings.Repeat("a", 60),
		},
		{
			name:  "space before index 20 takes raw cut",
			input: "short " + strings.Repeat("b", 70),
			want:  "short " + strings.Repeat("b", 54),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortTitle(tt.input); got != tt.want {
				t.Errorf("ShortTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestShortTitle_NeverExceedsCap(t *testing.T) {
	inputs := []string{
		strings.Repeat("word ", 40),
		strings.Repeat("ü", 200),
		strings.Repeat("ab cd ef gh ", 12) + "!!!",
	}
	for _, in := range inputs {
		got := ShortTitle(in)
		if CountChars(got) > MaxTitleChars {
			t.Errorf("ShortTitle length = %d, want <= %d", CountChars(got), MaxTitleChars)
		}
	}
}

func TestShortTitle_WordBoundaryForLongSpacedInput(t *testing.T) {
	words := strings.Fields(strings.Repeat("alpha beta gamma delta ", 6))
	input := strings.Join(words, " ")
	if len(input) <= 80 {
		t.Fatalf("test input too short: %d", len(input))
	}

	got := ShortTitle(input)
	if !strings.HasPrefix(input, got+" ") {
		t.Errorf("ShortTitle(%q) = %q, want a cut at a word boundary", input, got)
	}

	nbsp := strings.Join(words, "\u00a0")
	got = ShortTitle(nbsp)
	if strings.ContainsRune(got, '\u00a0') {
		t.Errorf("ShortTitle(%q) = %q, want non-breaking spaces compacted", nbsp, got)
	}
	if !strings.HasPrefix(input, got+" ") {
		t.Errorf("ShortTitle(%q) = %q, want a cut at a word boundary", nbsp, got)
	}
	if CountChars(got) > MaxTitleChars {
		t.Errorf("ShortTitle(%q) has %d chars, want at most %d", nbsp, CountChars(got), MaxTitleChars)
	}
}

func TestFallbackTitleFromInput(t *testing.T) {
	tests := []struct {
		name  string
		title string
		body  string
		want  string
	}{
		{name: "title wins", title: "Title.", body: "Body", want: "Title"},
		{name: "first usable body line", title: " ", body: "\n  \n...\nSecond line\nThird", want: "Second line"},
		{name: "crlf body", title: "", body: "\r\nFirst\r\n", want: "First"},
		{name: "untitled", title: "", body: " \n ", want: UntitledCapture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FallbackTitleFromInput(tt.title, tt.body); got != tt.want {
				t.Errorf("FallbackTitleFromInput(%q, %q) = %q, want %q", tt.title, tt.body, got, tt.want)
			}
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name      string
		candidate any
		fallback  string
		want      string
	}{
		{name: "candidate used", candidate: "Buy Milk", fallback: "buy milk", want: "Buy Milk"},
		{name: "blank candidate", candidate: "  ", fallback: "From body", want: "From body"},
		{name: "non-string candidate", candidate: 12, fallback: "From body", want: "From body"},
		{name: "nothing usable", candidate: nil, fallback: "", want: UntitledCapture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTitle(tt.candidate, tt.fallback); got != tt.want {
				t.Errorf("NormalizeTitle(%v, %q) = %q, want %q", tt.candidate, tt.fallback, got, tt.want)
			}
		})
	}
}
