package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"perturbkit/internal/perturb"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			rule TEXT,
			params JSON,
			created_at INTEGER,
			groups_count INTEGER,
			has_meta INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS variants (
			run_id TEXT,
			group_idx INTEGER,
			variant_idx INTEGER,
			source_idx INTEGER,
			text TEXT,
			meta JSON,
			PRIMARY KEY (run_id, group_idx, variant_idx)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_variants_run ON variants(run_id);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, rec RunRecord, res *perturb.CorpusResult[string]) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	hasMeta := res.Meta != nil
	params, err := json.Marshal(rec.Params)
	if err != nil {
		return "", fmt.Errorf("failed to encode params: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, rule, params, created_at, groups_count, has_meta)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Rule, params, rec.CreatedAt.UnixNano(), res.Len(), hasMeta); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO variants (run_id, group_idx, variant_idx, source_idx, text, meta)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for gi, group := range res.Groups {
		source := -1
		if gi < len(res.Sources) {
			source = res.Sources[gi]
		}
		for vi, text := range group {
			var meta []byte
			if hasMeta && vi < len(res.Meta[gi]) {
				meta, _ = json.Marshal(res.Meta[gi][vi])
			}
			if _, err := stmt.ExecContext(ctx, rec.ID, gi, vi, source, text, meta); err != nil {
				return "", fmt.Errorf("failed to insert variant: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (s *SQLiteStore) LoadRun(ctx context.Context, id string) (*StoredRun, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, rule, params, created_at, groups_count, has_meta FROM runs WHERE id = ?", id)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT group_idx, source_idx, text, meta FROM variants
		WHERE run_id = ? ORDER BY group_idx, variant_idx
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query variants: %w", err)
	}
	defer rows.Close()

	res := &perturb.CorpusResult[string]{}
	if rec.HasMeta {
		res.Meta = [][]perturb.Meta{}
	}
	current := -1
	for rows.Next() {
		var gi, source int
		var text string
		var meta []byte
		if err := rows.Scan(&gi, &source, &text, &meta); err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		if gi != current {
			current = gi
			res.Groups = append(res.Groups, nil)
			res.Sources = append(res.Sources, source)
			if rec.HasMeta {
				res.Meta = append(res.Meta, nil)
			}
		}
		last := len(res.Groups) - 1
		res.Groups[last] = append(res.Groups[last], text)
		if rec.HasMeta {
			m := perturb.Meta{}
			if len(meta) > 0 {
				if err := json.Unmarshal(meta, &m); err != nil {
					return nil, fmt.Errorf("failed to decode meta of group %d: %w", gi, err)
				}
			}
			res.Meta[last] = append(res.Meta[last], m)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &StoredRun{RunRecord: *rec, Result: res}, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, rule, params, created_at, groups_count, has_meta FROM runs ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*RunRecord, error) {
	var rec RunRecord
	var params []byte
	var created int64
	if err := sc.Scan(&rec.ID, &rec.Rule, &params, &created, &rec.Groups, &rec.HasMeta); err != nil {
		return nil, err
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &rec.Params); err != nil {
			return nil, fmt.Errorf("failed to decode params of run %s: %w", rec.ID, err)
		}
	}
	rec.CreatedAt = time.Unix(0, created)
	return &rec, nil
}
