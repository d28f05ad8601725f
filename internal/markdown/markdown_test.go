package markdown

import (
	"strings"
	"testing"
)

func TestToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "heading and emphasis",
			in:   "# Greetings\n\nSay *mirëdita* for **good day**.",
			want: "GREETINGS\n\nSay mirëdita for good day.",
		},
		{
			name: "bullets keep code verbatim",
			in:   "- Tosk: `mirëdita`\n- Gheg: `mirëdita`",
			want: "• Tosk: mirëdita\n• Gheg: mirëdita",
		},
		{
			name: "ordered list",
			in:   "1. Listen\n2. Repeat",
			want: "1. Listen\n2. Repeat",
		},
		{
			name: "nested list",
			in:   "- family\n  - nënë\n  - babë",
			want: "• family\n  • nënë\n  • babë",
		},
		{
			name: "link keeps destination",
			in:   "Read about [Kosovo](https://example.org/kosovo).",
			want: "Read about Kosovo (https://example.org/kosovo).",
		},
		{
			name: "fenced code",
			in:   "```\nfalemnderit\nju lutem\n```",
			want: "    falemnderit\n    ju lutem",
		},
		{
			name: "soft breaks join",
			in:   "Mirë\nse vini",
			want: "Mirë se vini",
		},
		{
			name: "html dropped",
			in:   "<div>x</div>\n\nplain",
			want: "plain",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToText([]byte(tt.in)); got != tt.want {
				t.Errorf("ToText(%q)\n got: %q\nwant: %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderWraps(t *testing.T) {
	got := Render([]byte("one two three four"), 9)
	if want := "one two\nthree\nfour"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	bulleted := Render([]byte("- alpha beta gamma"), 12)
	for _, line := range strings.Split(bulleted, "\n")[1:] {
		if !strings.HasPrefix(line, "  ") {
			t.Errorf("continuation line %q not indented under the bullet", line)
		}
	}

	if got := Render([]byte("one two three"), 0); got != "one two three" {
		t.Errorf("width 0 should not wrap, got %q", got)
	}
}

func TestWrapLongWord(t *testing.T) {
	got := wrap("a gjithashtu b", 5)
	want := []string{"a", "gjithashtu", "b"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("wrap = %q, want %q", got, want)
	}
}
