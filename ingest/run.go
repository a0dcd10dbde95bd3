// Package ingest implements "import" command: loads asset pack into SQLite
// database used by sqlite store backend.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/h2non/filetype"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"qrender/asset"
	"qrender/state"
	"qrender/store"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("import")

	if cmd.Args().Len() < 2 {
		return errors.New("both asset pack and database must be specified")
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	src, dst := cmd.Args().Get(0), cmd.Args().Get(1)

	log.Info("Import starting", zap.String("pack", src), zap.String("database", dst))
	defer func(start time.Time) {
		log.Info("Import completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	pack, err := store.LoadPack(src)
	if err != nil {
		return err
	}
	env.Rpt.Store("pack/"+filepath.Base(src), src)

	prefix := env.Cfg.Store.LocatorPrefix
	if root := cmd.String("root"); len(root) > 0 {
		if problems := verifyFiles(pack, prefix, root, log); problems > 0 {
			log.Warn("Some asset files are missing or have unexpected type", zap.Int("count", problems))
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("unable to create database directory: %w", err)
	}
	db, err := store.OpenSQLite(ctx, dst, env.Cfg.Store.PoolSize, false, log)
	if err != nil {
		return err
	}
	defer func() {
		if er := db.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close database: %w", er))
		}
	}()

	if cmd.Bool("update") {
		n, err := store.Fill(ctx, db, pack, prefix)
		if err != nil {
			return fmt.Errorf("unable to import assets: %w", err)
		}
		log.Info("Assets stored", zap.Int("count", n))
		return nil
	}

	assets, err := pack.Assets(prefix)
	if err != nil {
		return err
	}
	added, skipped, err := db.Import(ctx, assets)
	if err != nil {
		return fmt.Errorf("unable to import assets: %w", err)
	}
	log.Info("Assets imported", zap.Int("added", added), zap.Int("skipped", skipped))
	return nil
}

// enough for filetype to recognize any of supported types
const headerSize = 262

// verifyFiles checks that every file asset of the pack exists under root
// and looks like what its kind says. Returns number of problems found, each
// one is logged.
func verifyFiles(pack *store.Pack, prefix, root string, log *zap.Logger) int {
	problems := 0
	check := func(kind asset.Kind, entries []store.FileEntry) {
		for _, e := range entries {
			fname := filepath.Join(root, filepath.FromSlash(e.Locator(kind, prefix)))
			if err := checkFile(fname, kind); err != nil {
				problems++
				log.Warn("Asset file problem", zap.String("id", e.ID), zap.Stringer("kind", kind), zap.String("file", fname), zap.Error(err))
			}
		}
	}
	check(asset.KindImage, pack.Images)
	check(asset.KindAudio, pack.Audio)
	check(asset.KindVideo, pack.Videos)
	return problems
}

func checkFile(fname string, kind asset.Kind) error {
	f, err := os.Open(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	header := make([]byte, headerSize)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	header = header[:n]

	var ok bool
	switch kind {
	case asset.KindImage:
		ok = filetype.IsImage(header)
	case asset.KindAudio:
		ok = filetype.IsAudio(header)
	case asset.KindVideo:
		ok = filetype.IsVideo(header)
	default:
		// this should never happen
		panic(fmt.Sprintf("unexpected file asset kind %q", kind))
	}
	if !ok {
		t, _ := filetype.Match(header)
		return fmt.Errorf("content is not %s (detected %q)", kind, t.MIME.Value)
	}
	return nil
}
