package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"goqualtrics/internal/domain/filter"

	"github.com/google/uuid"
)

type FilterRepository struct {
	db *sql.DB
}

func NewFilterRepository(s *Storage) *FilterRepository {
	return &FilterRepository{db: s.db}
}

func (r *FilterRepository) Save(ctx context.Context, f *filter.Saved) error {
	spec, err := json.Marshal(f.Spec)
	if err != nil {
		return fmt.Errorf("marshal spec: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO saved_filters (id, name, kind, spec, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, f.ID.String(), f.Name, string(f.Spec.Kind), string(spec), f.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", filter.ErrFilterExists, f.Name)
		}
		return fmt.Errorf("insert filter: %w", err)
	}
	return nil
}

func (r *FilterRepository) GetByName(ctx context.Context, name string) (*filter.Saved, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, spec, created_at FROM saved_filters WHERE name = ?`, name)

	f, err := scanFilter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", filter.ErrFilterNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get filter: %w", err)
	}
	return f, nil
}

func (r *FilterRepository) List(ctx context.Context) ([]*filter.Saved, error) {
	rows, err := r.db.QueryContext(ctx,
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM saved_filters WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete filter: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", filter.ErrFilterNotFound, name)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFilter(row scanner) (*filter.Saved, error) {
	var (
		f                   filter.Saved
		id, spec, createdAt string
	)
	if err := row.Scan(&id, &f.Name, &spec, &createdAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("filter %s has bad id: %w", f.Name, err)
	}
	f.ID = parsed
	if err := json.Unmarshal([]byte(spec), &f.Spec); err != nil {
		return nil, fmt.Errorf("decode spec of %s: %w", f.Name, err)
	}
	f.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return &f, nil
}
