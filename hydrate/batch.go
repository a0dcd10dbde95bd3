package hydrate

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// HydrateAll hydrates records with bounded parallelism. Results are returned
// in input order, entries for records which could not be hydrated are nil and
// their errors are combined in returned error. Batch is stopped only when ctx
// itself is done.
func (e *Engine) HydrateAll(ctx context.Context, records []*RawRecord) ([]*Document, error) {
	docs := make([]*Document, len(records))
	errs := make([]error, len(records))

	g := new(errgroup.Group)
	g.SetLimit(e.concurrency)

	for i, rec := range records {
		if ctx.Err() != nil {
			errs[i] = ctx.Err()
			continue
		}
		g.Go(func() error {
			rctx, cancel := ctx, context.CancelFunc(func() {})
			if e.timeout > 0 {
				rctx, cancel = context.WithTimeout(ctx, e.timeout)
			}
			defer cancel()

			doc, err := e.Hydrate(rctx, rec)
			if err != nil {
				id := "<nil>"
				if rec != nil {
					id = rec.ID
				}
				errs[i] = fmt.Errorf("unable to hydrate record %q (%d): %w", id, i, err)
				return nil
			}
			docs[i] = doc
			return nil
		})
	}
	// goroutines never return errors, everything is in errs
	_ = g.Wait()

	err := multierr.Combine(errs...)
	e.log.Debug("Batch hydrated", zap.Int("records", len(records)), zap.Int("failed", len(multierr.Errors(err))))
	return docs, err
}
