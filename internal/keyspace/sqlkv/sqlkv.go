// Package sqlkv stores keyspace entries in a single SQL table. It serves both
// Postgres (pgx) and SQLite (modernc) connections.
package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

const table = "keyspace"

type Store struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func New(db *sql.DB, dialect Dialect) *Store {
	var placeholder sq.PlaceholderFormat = sq.Question
	if dialect == Postgres {
		placeholder = sq.Dollar
	}

	return &Store{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := s.sb.
		Select("value").
		From(table).
		Where(sq.Eq{"name": key}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("building select: %w", err)
	}

	var value string

	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("getting key %s: %w", key, err)
	}

	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	query, args, err := s.sb.
		Insert(table).
		Columns("name", "value", "updated_at").
		Values(key, value, time.Now().UTC()).
		Suffix("ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("building upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("setting key %s: %w", key, err)
	}

	return nil
}
