package cache

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// DefaultFileName is created under the user cache directory when no path is given
const DefaultFileName = "tmdb3/cache.db"

// FileEngine persists records in a local SQLite database
type FileEngine struct {
	db     *sql.DB
	path   string
	now    func() time.Time
	logger zerolog.Logger
	once   sync.Once
	closed atomic.Bool
}

var _ Engine = (*FileEngine)(nil)

// DefaultFilePath returns the database location used when Options.Path is empty
func DefaultFilePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to locate user cache directory")
	}
	return filepath.Join(dir, filepath.FromSlash(DefaultFileName)), nil
}

// NewFile opens (or creates) the database at opts.Path and drops expired rows
func NewFile(ctx context.Context, opts Options, logger zerolog.Logger) (Engine, error) {
	path := opts.Path
	if path == "" {
		p, err := DefaultFilePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create directory for %s", path)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	// one writer keeps the database free of SQLITE_BUSY between goroutines
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}

	for _, stmt := range []string{
		`PRAGMA journal_mode=WAL`,
		`CREATE TABLE IF NOT EXISTS records (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			expires_at INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_expires_at ON records(expires_at)`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "failed to prepare %s", path)
		}
	}

	e := &FileEngine{
		db:     db,
		path:   path,
		now:    opts.now,
		logger: logger.With().Str("engine", "file").Logger(),
	}

	purged, err := e.Purge(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	e.logger.Debug().Str("path", path).Int64("purged", purged).Msg("Opened cache file")

	return e, nil
}

func (e *FileEngine) Name() string { return "file" }

// Path returns the database location
func (e *FileEngine) Path() string { return e.path }

func (e *FileEngine) IsRemote() bool { return false }

func (e *FileEngine) Get(ctx context.Context, key string) (*Record, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	var (
		value     string
		expiresAt sql.NullInt64
	)
	err := e.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM records WHERE key = ?`, key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", key)
	}

	rec := &Record{Key: key, Value: []byte(value)}
	if expiresAt.Valid {
		rec.ExpiresAt = time.Unix(0, expiresAt.Int64)
	}

	if rec.Expired(e.now()) {
		if _, err := e.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key); err != nil {
			e.logger.Warn().Err(err).Str("key", key).Msg("Failed to drop expired record")
		}
		return nil, nil
	}

	return rec, nil
}

func (e *FileEngine) Put(ctx context.Context, key string, value []byte, lifetime time.Duration) (*Record, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	if lifetime == 0 {
		return nil, nil
	}

	rec := &Record{Key: key, Value: value, ExpiresAt: expiry(e.now(), lifetime)}
	var expiresAt sql.NullInt64
	if !rec.ExpiresAt.IsZero() {
		expiresAt = sql.NullInt64{Int64: rec.ExpiresAt.UnixNano(), Valid: true}
	}

	_, err := e.db.ExecContext(ctx,
		`INSERT INTO records (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, string(value), expiresAt,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", key)
	}

	return rec, nil
}

func (e *FileEngine) Expire(ctx context.Context, key string) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if _, err := e.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key); err != nil {
		return errors.Wrapf(err, "failed to expire %s", key)
	}
	return nil
}

// Purge deletes every expired row and returns how many were removed
func (e *FileEngine) Purge(ctx context.Context) (int64, error) {
	if e.closed.Load() {
		return 0, ErrClosed
	}
	res, err := e.db.ExecContext(ctx,
		`DELETE FROM records WHERE expires_at IS NOT NULL AND expires_at <= ?`,
		e.now().UnixNano(),
	)
	if err != nil {
		return 0, errors.Wrap(err, "failed to purge expired records")
	}
	return res.RowsAffected()
}

// Count returns the number of stored rows, expired or not
func (e *FileEngine) Count(ctx context.Context) (int64, error) {
	if e.closed.Load() {
		return 0, ErrClosed
	}
	var n int64
	if err := e.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "failed to count records")
	}
	return n, nil
}

func (e *FileEngine) Close() error {
	var err error
	e.once.Do(func() {
		e.closed.Store(true)
		err = e.db.Close()
	})
	return err
}
