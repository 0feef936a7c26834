package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"goqualtrics/internal/domain/filter"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/exp/slog"
)

const uniqueViolation = "23505"

// DB - подмножество pgxpool.Pool, используемое репозиторием
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type FilterRepository struct {
	db  DB
	log *slog.Logger
}

func NewFilterRepository(db DB, log *slog.Logger) *FilterRepository {
	return &FilterRepository{
		db:  db,
		log: log,
	}
}

func (r *FilterRepository) Save(ctx context.Context, f *filter.Saved) error {
	spec, err := json.Marshal(f.Spec)
	if err != nil {
		return fmt.Errorf("marshal spec: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO saved_filters (id, name, kind, spec, created_at) VALUES ($1, $2, $3, $4, $5)`,
		f.ID, f.Name, string(f.Spec.Kind), spec, f.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", filter.ErrFilterExists, f.Name)
		}
		return fmt.Errorf("insert filter: %w", err)
	}
	return nil
}

func (r *FilterRepository) GetByName(ctx context.Context, name string) (*filter.Saved, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, spec, created_at FROM saved_filters WHERE name = $1`, name)

	f, err := scanFilter(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", filter.ErrFilterNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get filter: %w", err)
	}
	return f, nil
}

func (r *FilterRepository) List(ctx context.Context) ([]*filter.Saved, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, spec, created_at FROM saved_filters ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list filters: %w", err)
	}
	defer rows.Close()

	var out []*filter.Saved
	for rows.Next() {
		f, err := scanFilter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan filter: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FilterRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM saved_filters WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete filter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", filter.ErrFilterNotFound, name)
	}
	return nil
}

func scanFilter(row pgx.Row) (*filter.Saved, error) {
	var (
		f    filter.Saved
		spec []byte
	)
	if err := row.Scan(&f.ID, &f.Name, &spec, &f.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(spec, &f.Spec); err != nil {
		return nil, fmt.Errorf("decode spec of %s: %w", f.Name, err)
	}
	return &f, nil
}
