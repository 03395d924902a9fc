package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"QuarterChart/internal/model"
)

// SQLiteRecorder persists submissions to a SQLite database. The price series is
// kept as a JSON document column so each row is a self-contained record.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS submissions (
			id             TEXT PRIMARY KEY,
			created_at     INTEGER NOT NULL,
			stock          TEXT NOT NULL,
			year           INTEGER,
			quarter        INTEGER,
			field1_text    TEXT,
			field1_percent REAL,
			field2_text    TEXT,
			field2_percent REAL,
			field3_text    TEXT,
			field3_percent REAL,
			bars           INTEGER,
			data           TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_stock ON submissions(stock, created_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) Name() string { return "sqlite" }

func nullable(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func fromNullable(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func (r *SQLiteRecorder) Save(ctx context.Context, sub *model.Submission) (string, error) {
	data, err := json.Marshal(sub.Data.Normalize())
	if err != nil {
		return "", fmt.Errorf("encode series: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a := sub.Annotations
	_, err = r.db.ExecContext(ctx, `INSERT INTO submissions
		(id, created_at, stock, year, quarter,
		 field1_text, field1_percent, field2_text, field2_percent, field3_text, field3_percent,
		 bars, data)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		sub.ID, sub.CreatedAt.Unix(), sub.Ticker, sub.Year, sub.Quarter,
		a[0].Text, nullable(a[0].Percent),
		a[1].Text, nullable(a[1].Percent),
		a[2].Text, nullable(a[2].Percent),
		len(sub.Data), string(data),
	)
	if err != nil {
		return "", fmt.Errorf("insert submission: %w", err)
	}
	return sub.ID, nil
}

func (r *SQLiteRecorder) Load(ctx context.Context, id string) (*model.Submission, error) {
	var (
		sub     model.Submission
		created int64
		pct     [3]sql.NullFloat64
		data    string
	)
	err := r.db.QueryRowContext(ctx, `SELECT id, created_at, stock, year, quarter,
		field1_text, field1_percent, field2_text, field2_percent, field3_text, field3_percent, data
		FROM submissions WHERE id = ?`, id).Scan(
		&sub.ID, &created, &sub.Ticker, &sub.Year, &sub.Quarter,
		&sub.Annotations[0].Text, &pct[0],
		&sub.Annotations[1].Text, &pct[1],
		&sub.Annotations[2].Text, &pct[2],
		&data,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query submission: %w", err)
	}
	for i := range pct {
		sub.Annotations[i].Percent = fromNullable(pct[i])
	}
	sub.CreatedAt = time.Unix(created, 0).UTC()
	if err := json.Unmarshal([]byte(data), &sub.Data); err != nil {
		return nil, fmt.Errorf("decode series: %w", err)
	}
	sub.Data = sub.Data.Normalize()
	return &sub, nil
}

func (r *SQLiteRecorder) List(ctx context.Context, ticker string, limit int) ([]model.Summary, error) {
	query := `SELECT id, stock, year, quarter, bars, created_at FROM submissions`
	args := []any{}
	if ticker != "" {
		query += ` WHERE stock = ?`
		args = append(args, ticker)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, listLimit(limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	out := []model.Summary{}
	for rows.Next() {
		var s model.Summary
		var created int64
		if err := rows.Scan(&s.ID, &s.Ticker, &s.Year, &s.Quarter, &s.Bars, &created); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		s.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close(_ context.Context) error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
