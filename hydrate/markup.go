package hydrate

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"qrender/asset"
)

// Class names used in produced markup. Markers are inert spans, stylesheet
// of the hosting application decides how they look.
const (
	classAsset       = "qr-asset"
	classFigure      = "qr-figure"
	classCaption     = "qr-caption"
	classMarker      = "qr-marker"
	classUnavailable = "qr-unavailable"
	classCircular    = "qr-circular"
	classDepth       = "qr-depth"
)

func element(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func appendChildren(parent *html.Node, children ...*html.Node) *html.Node {
	for _, c := range children {
		parent.AppendChild(c)
	}
	return parent
}

// rawHTML is inserted as is, used for author supplied link text and already
// hydrated bodies.
func rawHTML(s string) *html.Node {
	return &html.Node{Type: html.RawNode, Data: s}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func render(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		// strings.Builder never fails
		panic(err)
	}
	return b.String()
}

// renderLink expects url as it was authored, marker content is html text and
// could carry entities.
func renderLink(url, text string) string {
	url = html.UnescapeString(url)
	a := element("a", "href", url, "rel", "noopener noreferrer", "target", "_blank")
	if len(text) > 0 {
		a.AppendChild(rawHTML(text))
	} else {
		a.AppendChild(textNode(url))
	}
	return render(a)
}

// attrValue makes authored value safe to be placed inside quoted attribute.
func attrValue(s string) string {
	return html.EscapeString(html.UnescapeString(s))
}

// RenderFile returns markup referencing file asset. Non-empty text is kept
// verbatim as figure caption.
func RenderFile(f *asset.File, text string) string {
	var n *html.Node
	switch f.Kind {
	case asset.KindImage:
		n = element("img", "src", f.Locator, "alt", asset.DisplayName(f), "class", classAsset+" qr-image", "data-asset-id", f.ID)
	case asset.KindAudio:
		n = element("audio", "controls", "", "src", f.Locator, "class", classAsset+" qr-audio", "data-asset-id", f.ID)
	case asset.KindVideo:
		n = element("video", "controls", "", "src", f.Locator, "class", classAsset+" qr-video", "data-asset-id", f.ID)
	default:
		// this should never happen
		panic(fmt.Sprintf("unexpected file asset kind %q", f.Kind))
	}
	if len(text) == 0 {
		return render(n)
	}
	return render(appendChildren(element("figure", "class", classFigure),
		n,
		appendChildren(element("figcaption"), rawHTML(text)),
	))
}

// renderContent embeds already hydrated body of content asset.
func renderContent(c *asset.Content, body, text string) string {
	div := element("div", "class", classAsset+" qr-"+c.Kind.String(), "data-asset-id", c.ID)
	if len(text) > 0 {
		div.AppendChild(appendChildren(element("div", "class", classCaption), rawHTML(text)))
	}
	div.AppendChild(rawHTML(body))
	return render(div)
}

func renderMarker(kind DiagnosticKind, ref string) string {
	var class, label string
	switch kind {
	case DiagnosticKindUnresolvedReference:
		class, label = classUnavailable, "unavailable"
	case DiagnosticKindCyclicReference:
		class, label = classCircular, "circular reference"
	case DiagnosticKindDepthExceeded:
		class, label = classDepth, "nesting too deep"
	default:
		// this should never happen
		panic(fmt.Sprintf("unexpected diagnostic kind %q", kind))
	}
	span := element("span", "class", classMarker+" "+class, "data-ref", ref)
	span.AppendChild(textNode(fmt.Sprintf("[%s: %s]", label, ref)))
	return render(span)
}
