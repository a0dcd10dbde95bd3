package store

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"qrender/asset"
	"qrender/resolve"
)

const schema = `
CREATE TABLE IF NOT EXISTS assets (
	kind    TEXT NOT NULL,
	id      TEXT NOT NULL,
	name    TEXT NOT NULL DEFAULT '',
	locator TEXT NOT NULL DEFAULT '',
	body    TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (kind, id)
) WITHOUT ROWID;
`

// SQLite keeps assets in database file. Connections come from pool so store
// could be used from many goroutines.
type SQLite struct {
	pool *sqlitex.Pool
	log  *zap.Logger
}

// OpenSQLite opens (and when writable creates) database at path.
func OpenSQLite(ctx context.Context, path string, poolSize int, readOnly bool, log *zap.Logger) (*SQLite, error) {
	flags := sqlite.OpenReadOnly | sqlite.OpenWAL
	if !readOnly {
		flags = sqlite.OpenReadWrite | sqlite.OpenCreate | sqlite.OpenWAL
	}
	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{Flags: flags, PoolSize: max(poolSize, 1)})
	if err != nil {
		return nil, fmt.Errorf("unable to open asset database (%s): %w", path, err)
	}
	s := &SQLite{pool: pool, log: log}

	if !readOnly {
		conn, err := pool.Take(ctx)
		if err != nil {
			return nil, multierr.Combine(fmt.Errorf("unable to get database connection: %w", err), pool.Close())
		}
		err = sqlitex.ExecuteScript(conn, schema, nil)
		pool.Put(conn)
		if err != nil {
			return nil, multierr.Combine(fmt.Errorf("unable to prepare database schema: %w", err), pool.Close())
		}
	}
	log.Debug("Asset database opened", zap.String("path", path), zap.Bool("read-only", readOnly))
	return s, nil
}

func (s *SQLite) Lookup(ctx context.Context, kind asset.Kind, id string) (asset.Asset, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to get database connection: %w", err)
	}
	defer s.pool.Put(conn)

	var found asset.Asset
	err = sqlitex.Execute(conn, `SELECT name, locator, body FROM assets WHERE kind = ? AND id = ?;`,
		&sqlitex.ExecOptions{
			Args: []any{kind.String(), id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				if kind.IsFile() {
					found = &asset.File{ID: id, Name: stmt.ColumnText(0), Kind: kind, Locator: stmt.ColumnText(1)}
				} else {
					found = &asset.Content{ID: id, Kind: kind, Body: stmt.ColumnText(2)}
				}
				return nil
			},
		})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if found == nil {
		return nil, resolve.ErrNotFound
	}
	return found, nil
}

// Put adds or replaces single asset.
func (s *SQLite) Put(ctx context.Context, a asset.Asset) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("unable to get database connection: %w", err)
	}
	defer s.pool.Put(conn)

	args, err := assetArgs(a)
	if err != nil {
		return err
	}
	return sqlitex.Execute(conn, `INSERT OR REPLACE INTO assets (kind, id, name, locator, body) VALUES (?, ?, ?, ?, ?);`,
		&sqlitex.ExecOptions{Args: args})
}

// Import stores assets in a single transaction. Assets already present are
// left intact and counted as skipped.
func (s *SQLite) Import(ctx context.Context, assets []asset.Asset) (added, skipped int, err error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("unable to get database connection: %w", err)
	}
	defer s.pool.Put(conn)

	endFn, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return 0, 0, fmt.Errorf("unable to start transaction: %w", err)
	}
	defer endFn(&err)

	for _, a := range assets {
		args, err := assetArgs(a)
		if err != nil {
			return 0, 0, err
		}
		if err := sqlitex.Execute(conn, `INSERT OR IGNORE INTO assets (kind, id, name, locator, body) VALUES (?, ?, ?, ?, ?);`,
			&sqlitex.ExecOptions{Args: args}); err != nil {
			return 0, 0, fmt.Errorf("unable to import asset %q: %w", a.Ref(), err)
		}
		if conn.Changes() == 0 {
			s.log.Debug("Asset already exists, skipping", zap.String("id", a.Ref()))
			skipped++
			continue
		}
		added++
	}
	return added, skipped, nil
}

// IDs returns identifiers of kind in natural order.
func (s *SQLite) IDs(ctx context.Context, kind asset.Kind) ([]string, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to get database connection: %w", err)
	}
	defer s.pool.Put(conn)

	var ids []string
	err = sqlitex.Execute(conn, `SELECT id FROM assets WHERE kind = ?;`,
		&sqlitex.ExecOptions{
			Args: []any{kind.String()},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				ids = append(ids, stmt.ColumnText(0))
				return nil
			},
		})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(ids, naturalCompare)
	return ids, nil
}

func (s *SQLite) Close() error {
	return s.pool.Close()
}

func assetArgs(a asset.Asset) ([]any, error) {
	switch v := a.(type) {
	case *asset.File:
		return []any{v.Kind.String(), v.ID, v.Name, v.Locator, ""}, nil
	case *asset.Content:
		return []any{v.Kind.String(), v.ID, "", "", v.Body}, nil
	case *asset.Link:
		return nil, fmt.Errorf("unable to store link %q", v.URL)
	default:
		// this should never happen
		panic(fmt.Sprintf("unexpected asset type %T", a))
	}
}
