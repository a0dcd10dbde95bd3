package render

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

//go:embed default.css
var defaultStylesheet []byte

// loadStylesheet returns stylesheet for html output, built-in one when path
// is empty.
func loadStylesheet(path string, log *zap.Logger) ([]byte, error) {
	if len(path) == 0 {
		return defaultStylesheet, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read stylesheet from %q: %w", path, err)
	}
	rules, err := checkStylesheet(data)
	if err != nil {
		return nil, fmt.Errorf("unable to use stylesheet %q: %w", path, err)
	}
	log.Debug("Stylesheet loaded", zap.String("path", path), zap.Int("rules", rules))
	return data, nil
}

// checkStylesheet makes sure css could be parsed and returns number of
// rulesets and at-rules in it.
func checkStylesheet(data []byte) (int, error) {
	p := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)

	var rules int
	for {
		gt, _, _ := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return rules, err
			}
			return rules, nil
		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar, css.BeginAtRuleGrammar, css.AtRuleGrammar:
			rules++
		}
	}
}
