// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/mdhender/astrepr/model"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore records conversions and the node kinds they contained.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path, creating it and its schema
// if needed. An empty path opens a private in-memory database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := ":memory:"
	if path != "" {
		// Apply PRAGMA's per-connection via DSN so the pool always has them.
		// modernc.org/sqlite supports repeated _pragma=... parameters.
		dsn = fmt.Sprintf(
			"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)",
			path,
		)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == "" {
		// every new connection to ":memory:" is a new, empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InsertConversion inserts a Conversion and returns its assigned ID.
// A zero CreatedAt is set to the current time.
func (s *SQLiteStore) InsertConversion(ctx context.Context, c *model.Conversion) (int64, error) {
	return s.InsertConversionWithKinds(ctx, c, nil)
}

// InsertConversionWithKinds inserts a Conversion and its per-kind counts
// in one transaction and returns the assigned ID. On error nothing is
// stored and c.ID is left unchanged.
func (s *SQLiteStore) InsertConversionWithKinds(ctx context.Context, c *model.Conversion, counts []model.KindCount) (int64, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := insertConversion(ctx, tx, c)
	if err != nil {
		return 0, err
	}
	if err := insertKindCounts(ctx, tx, id, counts); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	c.ID = id
	return id, nil
}

func insertConversion(ctx context.Context, tx *sql.Tx, c *model.Conversion) (int64, error) {
	const query = `
		INSERT INTO conversions (name, sha256, nodes, placeholders, diagnostics, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := tx.ExecContext(ctx, query,
		c.Name,
		c.SHA256,
		c.Nodes,
		c.Placeholders,
		c.Diagnostics,
		c.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert conversion: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	return id, nil
}

// GetConversionBySHA256 returns the conversion with the given input
// digest, or nil if there is none.
func (s *SQLiteStore) GetConversionBySHA256(ctx context.Context, sha256 string) (*model.Conversion, error) {
	const query = `
		SELECT id, name, sha256, nodes, placeholders, diagnostics, created_at
		FROM conversions
		WHERE sha256 = ?
	`
	var c model.Conversion
	var createdAt string
	err := s.db.QueryRowContext(ctx, query, sha256).Scan(
		&c.ID,
		&c.Name,
		&c.SHA256,
		&c.Nodes,
		&c.Placeholders,
		&c.Diagnostics,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("get conversion: %w", err)
	}
	c.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &c, nil
}

// InsertKindCounts stores the per-kind counts of one conversion.
func (s *SQLiteStore) InsertKindCounts(ctx context.Context, conversionID int64, counts []model.KindCount) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertKindCounts(ctx, tx, conversionID, counts); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertKindCounts(ctx context.Context, tx *sql.Tx, conversionID int64, counts []model.KindCount) error {
	const query = `
		INSERT INTO kind_counts (conversion_id, kind, count, known, placeholders)
		VALUES (?, ?, ?, ?, ?)
	`
	if len(counts) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare kind count: %w", err)
	}
	defer stmt.Close()

	for _, kc := range counts {
		if _, err := stmt.ExecContext(ctx, conversionID, kc.Kind, kc.Count, kc.Known, kc.Placeholders); err != nil {
			return fmt.Errorf("insert kind count %q: %w", kc.Kind, err)
		}
	}
	return nil
}

// KindSummary returns the kind counts summed over every conversion,
// most frequent first.
func (s *SQLiteStore) KindSummary(ctx context.Context) ([]model.KindCount, error) {
	const query = `
		SELECT kind, SUM(count), MAX(known), SUM(placeholders)
		FROM kind_counts
		GROUP BY kind
		ORDER BY SUM(count) DESC, kind
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query kind summary: %w", err)
	}
	defer rows.Close()

	var list []model.KindCount
	for rows.Next() {
		var kc model.KindCount
		var known int
		if err := rows.Scan(&kc.Kind, &kc.Count, &known, &kc.Placeholders); err != nil {
			return nil, fmt.Errorf("scan kind summary: %w", err)
		}
		kc.Known = known != 0
		list = append(list, kc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kind summary: %w", err)
	}
	return list, nil
}

// TableStats returns the row count of each table.
func (s *SQLiteStore) TableStats(ctx context.Context) (map[string]int, error) {
	stats := make(map[string]int)
	for _, table := range []string{"conversions", "kind_counts"} {
		var n int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		stats[table] = n
	}
	return stats, nil
}
