package hydrate

import (
	"fmt"
	"strings"

	"qrender/asset"
)

// RawRecord is hydration input: two HTML bodies with inline placeholders and
// structured ordered lists of directly attached assets.
type RawRecord struct {
	ID                         string
	QuestionBody               string
	ExplanationBody            string
	PrimaryQuestionAssetIDs    []string
	PrimaryExplanationAssetIDs []string
}

// Document is the result of hydration. It never contains unresolved
// placeholders, every problem is reported in Diagnostics instead.
type Document struct {
	RecordID                 string        `yaml:"id" json:"id"`
	PrimaryQuestionAssets    []asset.Asset `yaml:"primary_question_assets,omitempty" json:"primary_question_assets,omitempty"`
	PrimaryExplanationAssets []asset.Asset `yaml:"primary_explanation_assets,omitempty" json:"primary_explanation_assets,omitempty"`
	QuestionBody             string        `yaml:"question" json:"question"`
	ExplanationBody          string        `yaml:"explanation" json:"explanation"`
	Diagnostics              []Diagnostic  `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
}

// HasProblems reports if any reference could not be fully resolved.
func (d *Document) HasProblems() bool {
	return len(d.Diagnostics) > 0
}

// Diagnostic describes single non-fatal resolution problem. Path lists
// content assets being expanded when problem was detected, outermost first.
// Depth is the level referenced asset would have been placed at: 0 for
// structured lists, 1 for references made directly from record bodies.
type Diagnostic struct {
	Kind  DiagnosticKind `yaml:"kind" json:"kind"`
	Field Field          `yaml:"field" json:"field"`
	Ref   string         `yaml:"ref" json:"ref"`
	Path  []string       `yaml:"path,omitempty" json:"path,omitempty"`
	Depth int            `yaml:"depth" json:"depth"`
	Cause string         `yaml:"cause,omitempty" json:"cause,omitempty"`
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s %q at depth %d", d.Field, d.Kind, d.Ref, d.Depth)
	if len(d.Path) > 0 {
		fmt.Fprintf(&b, " via %s", strings.Join(d.Path, " > "))
	}
	if len(d.Cause) > 0 {
		fmt.Fprintf(&b, ": %s", d.Cause)
	}
	return b.String()
}
