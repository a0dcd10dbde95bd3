package hydrate

import (
	"fmt"

	"qrender/asset"
	"qrender/utils/debug"
)

// Dump returns indented human readable representation of document.
func (d *Document) Dump() string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "record %q", d.RecordID)
	tw.List(1, "primary question assets", describeAll(d.PrimaryQuestionAssets))
	tw.List(1, "primary explanation assets", describeAll(d.PrimaryExplanationAssets))
	tw.TextBlock(1, "question", d.QuestionBody)
	tw.TextBlock(1, "explanation", d.ExplanationBody)
	if len(d.Diagnostics) > 0 {
		diags := make([]string, 0, len(d.Diagnostics))
		for _, diag := range d.Diagnostics {
			diags = append(diags, diag.String())
		}
		tw.List(1, "diagnostics", diags)
	}
	return tw.String()
}

func describeAll(assets []asset.Asset) []string {
	if len(assets) == 0 {
		return nil
	}
	out := make([]string, 0, len(assets))
	for _, a := range assets {
		out = append(out, describe(a))
	}
	return out
}

func describe(a asset.Asset) string {
	switch v := a.(type) {
	case *asset.File:
		return fmt.Sprintf("%s %q %s", v.Kind, v.ID, v.Locator)
	case *asset.Content:
		return fmt.Sprintf("%s %q (%d bytes)", v.Kind, v.ID, len(v.Body))
	case *asset.Link:
		return fmt.Sprintf("link %s", v.URL)
	default:
		// this should never happen
		panic(fmt.Sprintf("unexpected asset type %T", a))
	}
}
