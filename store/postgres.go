package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres is an ObjectStore backed by a single blob table. It exists for
// deployments without a shared filesystem; one row per object, whole-row
// overwrite on write.
type Postgres struct {
	db *sql.DB
}

const blobSchema = `
CREATE TABLE IF NOT EXISTS blobs (
	path     TEXT PRIMARY KEY,
	data     BYTEA NOT NULL,
	modified TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// OpenPostgres opens the DSN with the pgx stdlib driver and creates the blob
// table when missing.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, blobSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create blob table: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (s *Postgres) List(ctx context.Context, prefix string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, modified FROM blobs WHERE path LIKE $1 || '%' ORDER BY path`, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.Modified); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Postgres) Read(ctx context.Context, path string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM blobs WHERE path = $1`, path).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *Postgres) Write(ctx context.Context, path string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO blobs (path, data, modified) VALUES ($1, $2, now())
ON CONFLICT (path) DO UPDATE SET data = EXCLUDED.data, modified = now()`,
		path, data)
	return err
}

func (s *Postgres) EnsureDir(ctx context.Context, prefix string) error {
	return nil
}

func (s *Postgres) Close() error {
	return s.db.Close()
}
