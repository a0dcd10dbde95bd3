// Package hydrate turns raw question records into rendered documents by
// resolving structured asset lists and replacing [[...]] placeholders in HTML
// bodies, recursively for content hosted assets.
//
// Hydration never fails because of data: missing assets, cycles and too deep
// nesting are replaced with inert markers in place and reported as
// diagnostics. Errors are returned only for contract violations and context
// cancellation.
package hydrate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"qrender/asset"
	"qrender/config"
	"qrender/resolve"
	"qrender/scan"
)

// DefaultMaxDepth is used when configuration does not specify nesting limit.
const DefaultMaxDepth = 8

// ErrNilRecord is returned when Hydrate is called without record.
var ErrNilRecord = errors.New("nil record passed to hydration")

// Engine hydrates records using injected resolver. Engine keeps no state
// between calls and could be used concurrently.
type Engine struct {
	lookup      resolve.Lookuper
	maxDepth    int
	concurrency int
	timeout     time.Duration
	log         *zap.Logger
}

// New creates engine, nil cfg selects defaults.
func New(lookup resolve.Lookuper, cfg *config.HydrationConfig, log *zap.Logger) *Engine {
	e := &Engine{lookup: lookup, log: log, maxDepth: DefaultMaxDepth, concurrency: 1}
	if cfg != nil {
		e.timeout = cfg.Timeout
		if cfg.MaxDepth > 0 {
			e.maxDepth = cfg.MaxDepth
		}
		if cfg.Concurrency > 0 {
			e.concurrency = cfg.Concurrency
		}
	}
	return e
}

// MaxDepth returns effective nesting limit.
func (e *Engine) MaxDepth() int {
	return e.maxDepth
}

// Hydrate resolves record into document. Bodies are processed concurrently,
// each with its own expansion path.
func (e *Engine) Hydrate(ctx context.Context, rec *RawRecord) (*Document, error) {
	if rec == nil {
		return nil, ErrNilRecord
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := e.log.With(zap.String("record", rec.ID))
	if id, err := uuid.NewV7(); err == nil {
		log = log.With(zap.Stringer("call", id))
	}

	doc := &Document{RecordID: rec.ID}

	pq := &pass{lookup: e.lookup, maxDepth: e.maxDepth, field: FieldQuestion, log: log}
	pe := &pass{lookup: e.lookup, maxDepth: e.maxDepth, field: FieldExplanation, log: log}

	var err error
	if doc.PrimaryQuestionAssets, err = pq.list(ctx, rec.PrimaryQuestionAssetIDs); err != nil {
		return nil, err
	}
	if doc.PrimaryExplanationAssets, err = pe.list(ctx, rec.PrimaryExplanationAssetIDs); err != nil {
		return nil, err
	}
	primary := slices.Concat(pq.diags, pe.diags)
	pq.diags, pe.diags = nil, nil

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		doc.QuestionBody, err = pq.body(gctx, rec.QuestionBody, nil)
		return
	})
	g.Go(func() (err error) {
		doc.ExplanationBody, err = pe.body(gctx, rec.ExplanationBody, nil)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	doc.Diagnostics = slices.Concat(primary, pq.diags, pe.diags)
	log.Debug("Record hydrated", zap.Int("diagnostics", len(doc.Diagnostics)))
	return doc, nil
}

// HydrateFragment hydrates arbitrary HTML as if it was a body of the record
// field.
func (e *Engine) HydrateFragment(ctx context.Context, body string, field Field) (string, []Diagnostic, error) {
	p := &pass{lookup: e.lookup, maxDepth: e.maxDepth, field: field, log: e.log}
	out, err := p.body(ctx, body, nil)
	if err != nil {
		return "", nil, err
	}
	return out, p.diags, nil
}

// RenderAsset returns markup for directly attached asset. Content asset
// body is hydrated with the asset itself on the expansion path, so it is
// placed at depth 1 and cannot include itself.
func (e *Engine) RenderAsset(ctx context.Context, a asset.Asset, field Field) (string, []Diagnostic, error) {
	switch v := a.(type) {
	case *asset.File:
		return RenderFile(v, ""), nil, nil
	case *asset.Link:
		return renderLink(v.URL, ""), nil, nil
	case *asset.Content:
		p := &pass{lookup: e.lookup, maxDepth: e.maxDepth, field: field, log: e.log}
		inner, err := p.body(ctx, v.Body, (*expansion)(nil).push(v.ID))
		if err != nil {
			return "", nil, err
		}
		return renderContent(v, inner, ""), p.diags, nil
	default:
		// this should never happen
		panic(fmt.Sprintf("unexpected asset type %T", a))
	}
}

// pass accumulates diagnostics for a single field of a single call. It is
// never shared between goroutines.
type pass struct {
	lookup   resolve.Lookuper
	maxDepth int
	field    Field
	log      *zap.Logger
	diags    []Diagnostic
}

func (p *pass) report(kind DiagnosticKind, ref string, exp *expansion, depth int, cause error) {
	d := Diagnostic{Kind: kind, Field: p.field, Ref: ref, Path: exp.path(), Depth: depth}
	if cause != nil && !errors.Is(cause, resolve.ErrNotFound) {
		d.Cause = cause.Error()
	}
	p.diags = append(p.diags, d)
	p.log.Warn("Unable to resolve reference",
		zap.Stringer("kind", kind), zap.Stringer("field", p.field), zap.String("ref", ref),
		zap.Strings("path", d.Path), zap.Int("depth", depth), zap.NamedError("cause", cause))
}

// list resolves structured asset list keeping order and dropping what
// cannot be resolved.
func (p *pass) list(ctx context.Context, ids []string) ([]asset.Asset, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	assets := make([]asset.Asset, 0, len(ids))
	for _, id := range ids {
		a, err := p.lookup.Resolve(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.report(DiagnosticKindMissingPrimaryAsset, id, nil, 0, err)
			continue
		}
		assets = append(assets, a)
	}
	return assets, nil
}

// body replaces every placeholder found by a single scan of text. Content
// assets are hydrated before embedding so substituted output is never
// scanned again.
func (p *pass) body(ctx context.Context, text string, exp *expansion) (string, error) {
	var (
		b     strings.Builder
		last  int
		found bool
	)
	for tok := range scan.Tokens(text) {
		if !found {
			b.Grow(len(text))
			found = true
		}
		b.WriteString(text[last:tok.Start])
		out, err := p.token(ctx, tok, exp)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
		last = tok.End
	}
	if !found {
		return text, nil
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

func (p *pass) token(ctx context.Context, tok scan.Token, exp *expansion) (string, error) {
	if tok.InAttr {
		return p.attr(ctx, tok, exp)
	}
	if tok.Kind() == scan.KindLink {
		text, err := p.text(ctx, tok, exp)
		if err != nil {
			return "", err
		}
		return renderLink(tok.Raw, text), nil
	}

	depth := exp.level() + 1

	a, err := p.lookup.Resolve(ctx, tok.Raw)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		p.report(DiagnosticKindUnresolvedReference, tok.Raw, exp, depth, err)
		return renderMarker(DiagnosticKindUnresolvedReference, tok.Raw), nil
	}

	switch v := a.(type) {
	case *asset.File:
		text, err := p.text(ctx, tok, exp)
		if err != nil {
			return "", err
		}
		return RenderFile(v, text), nil
	case *asset.Content:
		if exp.contains(v.ID) {
			p.report(DiagnosticKindCyclicReference, v.ID, exp, depth, nil)
			return renderMarker(DiagnosticKindCyclicReference, v.ID), nil
		}
		if depth > p.maxDepth {
			p.report(DiagnosticKindDepthExceeded, v.ID, exp, depth, nil)
			return renderMarker(DiagnosticKindDepthExceeded, v.ID), nil
		}
		text, err := p.text(ctx, tok, exp)
		if err != nil {
			return "", err
		}
		inner, err := p.body(ctx, v.Body, exp.push(v.ID))
		if err != nil {
			return "", err
		}
		return renderContent(v, inner, text), nil
	case *asset.Link:
		text, err := p.text(ctx, tok, exp)
		if err != nil {
			return "", err
		}
		return renderLink(v.URL, text), nil
	default:
		// this should never happen
		panic(fmt.Sprintf("unexpected asset type %T", a))
	}
}

// text hydrates visible text of wrapping anchor, placeholders there are
// siblings of the wrapped one.
func (p *pass) text(ctx context.Context, tok scan.Token, exp *expansion) (string, error) {
	if len(tok.Text) == 0 {
		return "", nil
	}
	return p.body(ctx, tok.Text, exp)
}

var errInAttr = errors.New("content asset cannot be placed inside tag attribute")

// attr replaces placeholder inside tag attribute with plain value: file
// locator or link url. Anything else is reported and substituted by nothing.
func (p *pass) attr(ctx context.Context, tok scan.Token, exp *expansion) (string, error) {
	if tok.Kind() == scan.KindLink {
		return attrValue(tok.Raw), nil
	}

	depth := exp.level() + 1

	a, err := p.lookup.Resolve(ctx, tok.Raw)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		p.report(DiagnosticKindUnresolvedReference, tok.Raw, exp, depth, err)
		return "", nil
	}
	switch v := a.(type) {
	case *asset.File:
		return attrValue(v.Locator), nil
	case *asset.Link:
		return attrValue(v.URL), nil
	default:
		p.report(DiagnosticKindUnresolvedReference, tok.Raw, exp, depth, errInAttr)
		return "", nil
	}
}
