package debug

import (
	"testing"
)

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{name: "no depth", depth: 0, format: "record", want: "record\n"},
		{name: "depth 2", depth: 2, format: "asset", want: "    asset\n"},
		{name: "with formatting", depth: 1, format: "depth: %d", args: []any{3}, want: "  depth: 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{name: "empty value", depth: 0, label: "body", value: "", want: "body: \n"},
		{name: "markup", depth: 1, label: "body", value: `<img src="x.png"/>`, want: "  body: \"<img src=\\\"x.png\\\"/>\"\n"},
		{name: "newline", depth: 0, label: "body", value: "a\nb", want: "body: \"a\\nb\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.TextBlock(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("TextBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_List(t *testing.T) {
	tw := NewTreeWriter()
	tw.List(0, "empty", nil)
	if got := tw.String(); got != "" {
		t.Errorf("List(nil) = %q, want empty", got)
	}

	tw.List(1, "assets", []string{"img-1", "page-2"})
	want := "  assets (2)\n    [0] img-1\n    [1] page-2\n"
	if got := tw.String(); got != want {
		t.Errorf("List() = %q, want %q", got, want)
	}
}

func TestEncodeText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: ""},
		{input: "hello", want: `"hello"`},
		{input: `say "hi"`, want: `"say \"hi\""`},
		{input: "col1\tcol2", want: `"col1\tcol2"`},
	}

	for _, tt := range tests {
		if got := encodeText(tt.input); got != tt.want {
			t.Errorf("encodeText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
