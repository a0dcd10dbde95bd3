// Package render implements "render" command: hydrates record files and
// writes rendered documents.
package render

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"qrender/archive"
	"qrender/common"
	"qrender/hydrate"
	"qrender/resolve"
	"qrender/state"
	"qrender/store"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("render")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if err := env.SetFormat(cmd.String("to")); err != nil {
		log.Warn("Unknown output format requested, switching to yaml", zap.Error(err))
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	if env.Assets = cmd.String("assets"); len(env.Assets) > 0 {
		if env.Assets, err = filepath.Abs(env.Assets); err != nil {
			return err
		}
		env.Cfg.Store.Path = env.Assets
	}

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	if cp := cmd.String("force-zip-cp"); len(cp) > 0 {
		if name, err := env.SetCodePage(cp); err != nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
		} else {
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", name))
		}
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", env.Format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	r, err := newRenderer(ctx, env, dst, log)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, r.close())
	}()

	if err := r.process(ctx, src); err != nil {
		return err
	}
	if r.failed > 0 {
		return fmt.Errorf("%d of %d record(s) could not be rendered", r.failed, r.failed+r.rendered)
	}
	return nil
}

// renderer keeps everything needed to turn record files into output files.
type renderer struct {
	env     *state.LocalEnv
	backend store.Backend
	cache   *resolve.Cached
	engine  *hydrate.Engine
	out     sink
	css     []byte
	log     *zap.Logger

	rendered, failed int
}

func newRenderer(ctx context.Context, env *state.LocalEnv, dst string, log *zap.Logger) (_ *renderer, err error) {
	r := &renderer{env: env, log: log}
	defer func() {
		if err != nil {
			err = multierr.Append(err, r.close())
		}
	}()

	if env.Format == common.OutputFmtHtml {
		if r.css, err = loadStylesheet(env.Cfg.Output.StylesheetPath, log); err != nil {
			return nil, err
		}
	}

	if r.backend, err = store.Open(ctx, &env.Cfg.Store, log); err != nil {
		return nil, fmt.Errorf("unable to open asset store: %w", err)
	}

	var lookup resolve.Lookuper = resolve.New(r.backend, log)
	if env.Cfg.Cache.Enable {
		if r.cache, err = resolve.NewCached(lookup, env.Cfg.Cache.MaxEntries, log); err != nil {
			return nil, err
		}
		lookup = r.cache
	}
	r.engine = hydrate.New(lookup, &env.Cfg.Hydration, log)

	if r.out, err = newSink(dst, env.Overwrite, log); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *renderer) close() (err error) {
	if r.out != nil {
		if er := r.out.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to finalize output: %w", er))
		}
	}
	if r.cache != nil {
		r.cache.Close()
	}
	if r.backend != nil {
		if er := r.backend.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close asset store: %w", er))
		}
	}
	return err
}

// process determines the input type (directory, archive with optional path
// inside, or single file) and processes accordingly.
func (r *renderer) process(ctx context.Context, src string) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := r.processDir(ctx, head); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := r.processArchive(ctx, head, filepath.ToSlash(tail), ""); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		if isRecordFile(head) && len(tail) == 0 {
			if err := r.processFile(ctx, head, filepath.Base(head)); err != nil {
				r.log.Error("Unable to process file", zap.String("file", head), zap.Error(err))
			}
			break
		}
		return fmt.Errorf("input was not recognized as record file (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// processDir walks directory tree finding record files and archives.
func (r *renderer) processDir(ctx context.Context, dir string) error {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			r.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		isArchive, err := isArchiveFile(path)
		if err != nil {
			r.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if isArchive {
			count++
			if err := r.processArchive(ctx, path, "", filepath.Dir(rel)); err != nil {
				r.log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			}
			return nil
		}

		if !isRecordFile(path) {
			r.log.Debug("Skipping file, not recognized as records or archive", zap.String("file", path))
			return nil
		}

		count++
		if err := r.processFile(ctx, path, rel); err != nil {
			r.log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
		return nil
	})
	if err == nil && count == 0 {
		r.log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return err
}

// processArchive handles record files inside archive under "pathIn",
// "pathOut" is prefixed to produced names.
func (r *renderer) processArchive(ctx context.Context, arc, pathIn, pathOut string) error {
	count := 0
	err := archive.Walk(arc, pathIn, r.env.CodePage, isRecordFile, func(arc, name string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		count++

		rc, err := f.Open()
		if err != nil {
			r.log.Error("Unable to process file in archive", zap.String("archive", arc), zap.String("file", name), zap.Error(err))
			return nil
		}
		defer rc.Close()

		if err := r.processRecords(ctx, rc, filepath.Join(pathOut, filepath.FromSlash(name))); err != nil {
			r.log.Error("Unable to process file in archive", zap.String("archive", arc), zap.String("file", name), zap.Error(err))
		}
		return nil
	})
	if err == nil && count == 0 {
		r.log.Debug("Nothing to process", zap.String("archive", arc))
	}
	return err
}

func (r *renderer) processFile(ctx context.Context, path, src string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.processRecords(ctx, f, src)
}

// processRecords hydrates all records from single source. "src" is source
// path relative to what has been requested (base name for single file), it
// determines where outputs go.
func (r *renderer) processRecords(ctx context.Context, in io.Reader, src string) error {
	records, err := decodeRecords(selectReader(in))
	if err != nil {
		return fmt.Errorf("unable to read records from %s: %w", src, err)
	}
	r.log.Debug("Records loaded", zap.String("from", src), zap.Int("count", len(records)))

	raws := make([]*hydrate.RawRecord, len(records))
	for i, rec := range records {
		raws[i] = rec.raw()
		if r.env.Cfg.Output.Lint {
			r.lint(rec)
		}
	}

	docs, err := r.engine.HydrateAll(ctx, raws)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		for _, e := range multierr.Errors(err) {
			r.log.Error("Unable to hydrate record", zap.String("from", src), zap.Error(e))
		}
	}

	for i, doc := range docs {
		if doc == nil {
			r.failed++
			continue
		}
		if err := r.write(ctx, doc, records[i], src); err != nil {
			r.failed++
			r.log.Error("Unable to write record", zap.String("id", doc.RecordID), zap.Error(err))
			continue
		}
		r.rendered++
	}
	return nil
}

func (r *renderer) write(ctx context.Context, doc *hydrate.Document, rec *record, src string) error {
	data, err := encode(ctx, newResult(doc, rec), r.env.Format, r.engine, r.css)
	if err != nil {
		return err
	}
	name := buildOutputPath(rec, src, r.env.Format, r.env)
	location, err := r.out.Write(name, data)
	if err != nil {
		return err
	}

	// Store rendering result and resolution tree for debugging
	if r.env.Rpt != nil {
		r.env.Rpt.StoreData(path.Join("results", filepath.ToSlash(name)), data)
		r.env.Rpt.StoreData(path.Join("documents", filepath.ToSlash(name)+".txt"), []byte(doc.Dump()))
	}

	r.log.Info("Record rendered", zap.String("id", doc.RecordID), zap.String("to", location), zap.Int("diagnostics", len(doc.Diagnostics)))
	return nil
}

func (r *renderer) lint(rec *record) {
	check := func(field hydrate.Field, body string) {
		for _, issue := range lintMarkup(body) {
			r.log.Warn("Suspicious markup", zap.String("id", string(rec.ID)), zap.Stringer("field", field), zap.String("issue", issue))
		}
	}
	check(hydrate.FieldQuestion, rec.Question)
	check(hydrate.FieldExplanation, rec.Explanation)
}
