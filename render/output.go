package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	yaml "gopkg.in/yaml.v3"

	"qrender/asset"
	"qrender/common"
	"qrender/hydrate"
)

// result is what gets written for every record: hydrated document and
// record metadata passed through as is.
type result struct {
	hydrate.Document `yaml:",inline"`

	Name   string   `yaml:"name,omitempty" json:"name,omitempty"`
	Source string   `yaml:"source,omitempty" json:"source,omitempty"`
	Tags   []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

func newResult(doc *hydrate.Document, rec *record) *result {
	return &result{Document: *doc, Name: rec.Name, Source: rec.Source, Tags: rec.Tags}
}

// assetRenderer produces markup for directly attached assets.
type assetRenderer interface {
	RenderAsset(ctx context.Context, a asset.Asset, field hydrate.Field) (string, []hydrate.Diagnostic, error)
}

// encode serializes result in requested format.
func encode(ctx context.Context, res *result, format common.OutputFmt, ar assetRenderer, css []byte) ([]byte, error) {
	switch format {
	case common.OutputFmtYaml:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return nil, fmt.Errorf("unable to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("unable to encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case common.OutputFmtJson:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("unable to encode json: %w", err)
		}
		return append(data, '\n'), nil
	case common.OutputFmtHtml:
		return page(ctx, res, ar, css)
	default:
		// this should never happen
		panic(fmt.Sprintf("unsupported output format %q", format))
	}
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func raw(s string) *html.Node {
	return &html.Node{Type: html.RawNode, Data: s}
}

// page renders standalone html page. Directly attached assets are rendered
// in front of the corresponding body, their own problems are added to the
// diagnostics shown at the bottom.
func page(ctx context.Context, res *result, ar assetRenderer, css []byte) ([]byte, error) {
	diags := slices.Clone(res.Diagnostics)

	section := func(field hydrate.Field, primary []asset.Asset, body string) (*html.Node, error) {
		s := element(atom.Section, "class", "qr-"+field.String())
		if len(primary) > 0 {
			list := element(atom.Div, "class", "qr-primary")
			for _, a := range primary {
				markup, more, err := ar.RenderAsset(ctx, a, field)
				if err != nil {
					return nil, err
				}
				diags = append(diags, more...)
				list.AppendChild(raw(markup))
			}
			s.AppendChild(list)
		}
		s.AppendChild(raw(body))
		return s, nil
	}

	question, err := section(hydrate.FieldQuestion, res.PrimaryQuestionAssets, res.QuestionBody)
	if err != nil {
		return nil, fmt.Errorf("unable to render question: %w", err)
	}
	explanation, err := section(hydrate.FieldExplanation, res.PrimaryExplanationAssets, res.ExplanationBody)
	if err != nil {
		return nil, fmt.Errorf("unable to render explanation: %w", err)
	}

	title := res.RecordID
	if len(res.Name) > 0 {
		title = res.Name
	}

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, "charset", "utf-8"))
	t := element(atom.Title)
	t.AppendChild(text(title))
	head.AppendChild(t)
	if len(css) > 0 {
		style := element(atom.Style)
		style.AppendChild(raw(string(css)))
		head.AppendChild(style)
	}

	article := element(atom.Article, "class", "qr-record", "data-record-id", res.RecordID)
	h := element(atom.H1)
	h.AppendChild(text(title))
	article.AppendChild(h)
	if len(res.Source) > 0 || len(res.Tags) > 0 {
		meta := element(atom.P, "class", "qr-meta")
		meta.AppendChild(text(res.Source))
		for _, tag := range res.Tags {
			span := element(atom.Span, "class", "qr-tag")
			span.AppendChild(text(tag))
			meta.AppendChild(span)
		}
		article.AppendChild(meta)
	}
	article.AppendChild(question)
	article.AppendChild(explanation)

	if len(diags) > 0 {
		details := element(atom.Details, "class", "qr-diagnostics")
		summary := element(atom.Summary)
		summary.AppendChild(text(fmt.Sprintf("%d reference problem(s)", len(diags))))
		details.AppendChild(summary)
		ul := element(atom.Ul)
		for _, d := range diags {
			li := element(atom.Li)
			li.AppendChild(text(d.String()))
			ul.AppendChild(li)
		}
		details.AppendChild(ul)
		article.AppendChild(details)
	}

	body := element(atom.Body)
	body.AppendChild(article)

	root := element(atom.Html, "lang", "en")
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("unable to render html: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
