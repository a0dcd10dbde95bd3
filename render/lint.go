package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
)

// elements which never have content
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true, "img": true,
	"input": true, "link": true, "meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

// elements whose end tag may be omitted
var optionalEnd = map[string]bool{
	"p": true, "li": true, "dt": true, "dd": true, "tr": true, "td": true, "th": true,
	"thead": true, "tbody": true, "tfoot": true, "option": true, "colgroup": true,
}

// lintMarkup returns problems found in authored markup: stray end tags and
// elements left open. Hydration does not depend on markup being well formed,
// this only helps to find broken records.
func lintMarkup(body string) []string {
	var (
		issues []string
		open   []string
		pushed bool
	)

	l := html.NewLexer(parse.NewInputString(body))
	for {
		tt, _ := l.Next()
		switch tt {
		case html.ErrorToken:
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				issues = append(issues, fmt.Sprintf("malformed markup: %v", err))
			}
			for _, name := range open {
				if !optionalEnd[name] {
					issues = append(issues, fmt.Sprintf("<%s> is never closed", name))
				}
			}
			return issues
		case html.StartTagToken:
			name := strings.ToLower(string(l.Text()))
			if pushed = !voidElements[name]; pushed {
				open = append(open, name)
			}
		case html.StartTagVoidToken:
			// <tag/> closes what has just been opened
			if pushed {
				open = open[:len(open)-1]
				pushed = false
			}
		case html.EndTagToken:
			name := strings.ToLower(string(l.Text()))
			if voidElements[name] {
				continue
			}
			i := lastIndex(open, name)
			if i < 0 {
				issues = append(issues, fmt.Sprintf("</%s> has no matching start tag", name))
				continue
			}
			for _, inner := range open[i+1:] {
				if !optionalEnd[inner] {
					issues = append(issues, fmt.Sprintf("<%s> is closed implicitly by </%s>", inner, name))
				}
			}
			open = open[:i]
		}
	}
}

func lastIndex(s []string, v string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == v {
			return i
		}
	}
	return -1
}
