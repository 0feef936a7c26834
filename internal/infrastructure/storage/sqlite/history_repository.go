package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"goqualtrics/internal/domain/response"

	"github.com/google/uuid"
)

type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(s *Storage) *HistoryRepository {
	return &HistoryRepository{db: s.db}
}

func (r *HistoryRepository) Append(ctx context.Context, e response.HistoryEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO export_history (id, survey_id, progress_id, file_id, format, artifact_path,
		                            digest, responses, bytes, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID.String(), e.SurveyID, e.ProgressID, e.FileID, e.Format, e.ArtifactPath,
		e.Digest, e.Responses, e.Bytes, e.Duration.Milliseconds(), e.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert export history: %w", err)
	}
	return nil
}

// List возвращает последние записи; пустой surveyID - по всем опросам
func (r *HistoryRepository) List(ctx context.Context, surveyID string, limit int) ([]response.HistoryEntry, error) {
	query := `SELECT id, survey_id, progress_id, file_id, format, artifact_path,
	                 digest, responses, bytes, duration_ms, created_at
	          FROM export_history WHERE 1=1`
	args := []any{}

	if surveyID != "" {
		query += " AND survey_id = ?"
		args = append(args, surveyID)
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list export history: %w", err)
	}
	defer rows.Close()

	var out []response.HistoryEntry
	for rows.Next() {
		var (
			e             response.HistoryEntry
			id, createdAt string
			durationMS    int64
		)
		if err := rows.Scan(&id, &e.SurveyID, &e.ProgressID, &e.FileID, &e.Format, &e.ArtifactPath,
			&e.Digest, &e.Responses, &e.Bytes, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan export history: %w", err)
		}
		e.ID, _ = uuid.Parse(id)
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}
