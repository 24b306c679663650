package devserver

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Exchange is one recorded chat round trip.
type Exchange struct {
	ID        string
	Message   string
	Reply     string
	Failed    bool
	CreatedAt time.Time
}

// Recorder persists exchanges handled by the dev server.
type Recorder interface {
	Record(ctx context.Context, message, reply string, failed bool) error
	Recent(ctx context.Context, limit int) ([]Exchange, error)
	Close() error
}

// SQLRecorder stores exchanges in SQLite or PostgreSQL.
type SQLRecorder struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// OpenRecorder opens the exchange log named by dsn. Accepted forms are
// postgres://..., postgresql://..., sqlite://path and a bare file path.
func OpenRecorder(dsn string) (*SQLRecorder, error) {
	driver, source := parseDSN(dsn)

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := &SQLRecorder{db: db, driver: driver, now: time.Now}
	if err := r.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return r, nil
}

func parseDSN(dsn string) (driver, source string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite3", strings.TrimPrefix(dsn, "sqlite://")
	default:
		return "sqlite3", dsn
	}
}

func (r *SQLRecorder) initSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
    CREATE TABLE IF NOT EXISTS exchanges (
        id TEXT PRIMARY KEY,
        message TEXT NOT NULL,
        reply TEXT NOT NULL,
        failed BOOLEAN NOT NULL DEFAULT FALSE,
        created_at TIMESTAMP NOT NULL
    )`)
	return err
}

// rebind rewrites ? placeholders for drivers that number them.
func (r *SQLRecorder) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Record implements Recorder.
func (r *SQLRecorder) Record(ctx context.Context, message, reply string, failed bool) error {
	_, err := r.db.ExecContext(ctx,
		r.rebind(`INSERT INTO exchanges (id, message, reply, failed, created_at) VALUES (?, ?, ?, ?, ?)`),
		uuid.NewString(), message, reply, failed, r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record exchange: %w", err)
	}
	return nil
}

// Recent returns up to limit exchanges, newest first.
func (r *SQLRecorder) Recent(ctx context.Context, limit int) ([]Exchange, error) {
	rows, err := r.db.QueryContext(ctx,
		r.rebind(`SELECT id, message, reply, failed, created_at FROM exchanges ORDER BY created_at DESC LIMIT ?`),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query exchanges: %w", err)
	}
	defer rows.Close()

	var out []Exchange
	for rows.Next() {
		var e Exchange
		if err := rows.Scan(&e.ID, &e.Message, &e.Reply, &e.Failed, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close implements Recorder.
func (r *SQLRecorder) Close() error {
	return r.db.Close()
}
