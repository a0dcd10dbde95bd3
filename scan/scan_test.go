package scan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAll(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Token
	}{
		{
			name: "no placeholders",
			text: "<p>Plain <b>text</b> [single] brackets</p>",
			want: nil,
		},
		{
			name: "bare identifier",
			text: "See [[asset-42]].",
			want: []Token{{Start: 4, End: 16, Raw: "asset-42"}},
		},
		{
			name: "bare url",
			text: "[[http://example.org/ref]]",
			want: []Token{{Start: 0, End: 26, Raw: "http://example.org/ref"}},
		},
		{
			name: "whitespace and newlines inside marker",
			text: "x [[\n  page-9 \n]] y",
			want: []Token{{Start: 2, End: 17, Raw: "page-9"}},
		},
		{
			name: "wrapped with double quotes",
			text: `A <a href="[[img-1]]">the ECG</a> B`,
			want: []Token{{Start: 2, End: 33, Raw: "img-1", Text: "the ECG", Wrapped: true}},
		},
		{
			name: "wrapped with single quotes and extra attributes",
			text: `<A class='x' HREF = '[[tbl-3]]' target="_blank">Table<br/>3</A>`,
			want: []Token{{Start: 0, End: 63, Raw: "tbl-3", Text: "Table<br/>3", Wrapped: true}},
		},
		{
			name: "wrapper spanning lines",
			text: "<a\n href=\"[[vid-2]]\"\n>watch\nthis</a\n>",
			want: []Token{{Start: 0, End: 37, Raw: "vid-2", Text: "watch\nthis", Wrapped: true}},
		},
		{
			name: "wrapper repeating marker as text",
			text: `<a href="[[img-1]]">[[img-1]]</a>`,
			want: []Token{{Start: 0, End: 33, Raw: "img-1", Wrapped: true}},
		},
		{
			name: "anchor with ordinary href is not a wrapper",
			text: `<a href="http://x.org">[[img-1]]</a>`,
			want: []Token{{Start: 23, End: 32, Raw: "img-1"}},
		},
		{
			name: "mixed",
			text: `[[a]]<a href="[[b]]">B</a>[[c]]`,
			want: []Token{
				{Start: 0, End: 5, Raw: "a"},
				{Start: 5, End: 26, Raw: "b", Text: "B", Wrapped: true},
				{Start: 26, End: 31, Raw: "c"},
			},
		},
		{
			name: "marker inside image source",
			text: `<img src="[[img-1]]" alt="x">`,
			want: []Token{{Start: 10, End: 19, Raw: "img-1", InAttr: true}},
		},
		{
			name: "attribute marker followed by text marker",
			text: `<p title='[[t]]'>[[x]]</p>`,
			want: []Token{
				{Start: 10, End: 15, Raw: "t", InAttr: true},
				{Start: 17, End: 22, Raw: "x"},
			},
		},
		{
			name: "less than sign in text is not a tag",
			text: "a < [[b]]",
			want: []Token{{Start: 4, End: 9, Raw: "b"}},
		},
		{
			name: "unterminated marker",
			text: "[[open and [[closed]]",
			want: []Token{{Start: 11, End: 21, Raw: "closed"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := All(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("All() mismatch (-want +got):\n%s", diff)
			}
			for _, tok := range got {
				if tok.Start < 0 || tok.End > len(tt.text) || tok.Start >= tok.End {
					t.Errorf("Token span [%d:%d] is outside of text", tok.Start, tok.End)
				}
			}
		})
	}
}

func TestTokens_Restartable(t *testing.T) {
	text := "[[a]] and [[b]] and <a href='[[c]]'>c</a>"
	seq := Tokens(text)

	first := make([]Token, 0, 3)
	for tok := range seq {
		first = append(first, tok)
	}
	second := make([]Token, 0, 3)
	for tok := range seq {
		second = append(second, tok)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Second iteration differs (-first +second):\n%s", diff)
	}
	if len(first) != 3 {
		t.Errorf("Expected 3 tokens, got %d", len(first))
	}
}

func TestTokens_EarlyStop(t *testing.T) {
	count := 0
	for range Tokens("[[a]][[b]][[c]]") {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("Expected iteration to stop after 2 tokens, got %d", count)
	}
}

func TestToken_Kind(t *testing.T) {
	tests := []struct {
		raw  string
		want Kind
	}{
		{"http://example.org/ref", KindLink},
		{"HTTPS://example.org", KindLink},
		{"ftp://files.example.org/a.pdf", KindLink},
		{"mailto:someone@example.org", KindLink},
		{"asset-42", KindIdentifier},
		{"www.example.org", KindIdentifier},
		{"http-page", KindIdentifier},
		{"", KindIdentifier},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := (Token{Raw: tt.raw}).Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}
