// Package scan finds [[...]] placeholders in HTML bodies.
//
// Bodies are treated as a single opaque buffer, newlines inside markers or
// inside the wrapping anchor never break matching. When marker is used as a
// destination of an anchor (canonical authoring format) the whole anchor is
// reported as the span to be replaced, so substitution never leaves an empty
// <a></a> behind.
package scan

import (
	"iter"
	"regexp"
	"slices"
	"strings"
)

// Kind classifies placeholder content.
type Kind int

const (
	// KindIdentifier is a placeholder naming stored asset.
	KindIdentifier Kind = iota
	// KindLink is a placeholder holding external URL.
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindIdentifier:
		return "identifier"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// Token is a single placeholder occurrence. Body[Start:End] is the text to be
// replaced.
type Token struct {
	Start   int
	End     int
	Raw     string // marker content with surrounding whitespace removed
	Text    string // visible text of the wrapping anchor, verbatim, empty if none
	Wrapped bool
	// InAttr is set for bare marker found inside a tag, such as
	// <img src="[[img-1]]">. Only plain value could replace it.
	InAttr bool
}

// Kind returns placeholder classification.
func (t Token) Kind() Kind {
	if IsURL(t.Raw) {
		return KindLink
	}
	return KindIdentifier
}

// Groups: 1 - double quoted href marker, 2 - single quoted href marker,
// 3 - anchor inner html, 4 - bare marker.
var tokenRE = regexp.MustCompile(`(?is)` +
	`<a\b[^>]*?\bhref\s*=\s*(?:"\s*\[\[([^\[\]"]*?)\]\]\s*"|'\s*\[\[([^\[\]']*?)\]\]\s*')[^>]*>(.*?)</a\s*>` +
	`|\[\[([^\[\]<>]*?)\]\]`)

var schemes = []string{"http://", "https://", "ftp://", "ftps://", "mailto:"}

// IsURL reports whether placeholder content starts with recognized URL scheme.
func IsURL(raw string) bool {
	l := strings.ToLower(strings.TrimSpace(raw))
	return slices.ContainsFunc(schemes, func(s string) bool {
		return strings.HasPrefix(l, s)
	})
}

// Tokens returns lazy sequence of placeholders in text, left to right,
// non-overlapping. Sequence could be iterated any number of times.
func Tokens(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for pos := 0; pos < len(text); {
			m := tokenRE.FindStringSubmatchIndex(text[pos:])
			if m == nil {
				return
			}
			tok := makeToken(text[pos:], m)
			tok.Start += pos
			tok.End += pos
			tok.InAttr = !tok.Wrapped && insideTag(text[:tok.Start])
			if !yield(tok) {
				return
			}
			pos = tok.End
		}
	}
}

// All collects every placeholder in text.
func All(text string) []Token {
	return slices.Collect(Tokens(text))
}

func makeToken(text string, m []int) Token {
	group := func(n int) (string, bool) {
		if m[2*n] < 0 {
			return "", false
		}
		return text[m[2*n]:m[2*n+1]], true
	}

	tok := Token{Start: m[0], End: m[1]}
	if raw, ok := group(4); ok {
		tok.Raw = strings.TrimSpace(raw)
		return tok
	}

	tok.Wrapped = true
	if raw, ok := group(1); ok {
		tok.Raw = strings.TrimSpace(raw)
	} else if raw, ok := group(2); ok {
		tok.Raw = strings.TrimSpace(raw)
	}
	tok.Text, _ = group(3)
	if isSameMarker(tok.Text, tok.Raw) {
		// <a href="[[x]]">[[x]]</a> has no real visible text
		tok.Text = ""
	}
	return tok
}

// insideTag reports whether prefix ends in the middle of a start or end tag.
func insideTag(prefix string) bool {
	lt := strings.LastIndexByte(prefix, '<')
	if lt < 0 || lt < strings.LastIndexByte(prefix, '>') || lt+1 >= len(prefix) {
		return false
	}
	c := prefix[lt+1]
	return c == '/' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isSameMarker(text, raw string) bool {
	inner, ok := strings.CutPrefix(strings.TrimSpace(text), "[[")
	if !ok {
		return false
	}
	inner, ok = strings.CutSuffix(inner, "]]")
	return ok && strings.TrimSpace(inner) == raw
}
