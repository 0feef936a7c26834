package response

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"goqualtrics/internal/domain/export"
	"goqualtrics/internal/model"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Exporter запускает полный цикл экспорта
type Exporter interface {
	Run(ctx context.Context, req export.Request) (*export.Result, error)
}

// HistoryEntry - запись о завершенном экспорте
type HistoryEntry struct {
	ID           uuid.UUID     `json:"id"`
	SurveyID     string        `json:"survey_id"`
	ProgressID   string        `json:"progress_id"`
	FileID       string        `json:"file_id"`
	Format       string        `json:"format"`
	ArtifactPath string        `json:"artifact_path"`
	Digest       string        `json:"digest"`
	Responses    int           `json:"responses"`
	Bytes        int64         `json:"bytes"`
	Duration     time.Duration `json:"duration"`
	CreatedAt    time.Time     `json:"created_at"`
}

// History хранит журнал экспортов
type History interface {
	Append(ctx context.Context, entry HistoryEntry) error
	List(ctx context.Context, surveyID string, limit int) ([]HistoryEntry, error)
}

// Config - параметры хранилища одного опроса
type Config struct {
	SurveyID   string
	SurveyName string
	OutputDir  string
	Options    export.Options
	Decoder    *Decoder
	OnProgress func(export.Job)
}

// Store держит снимок ответов одного опроса.
// Materialize и Refetch сериализуются мьютексом, снимок заменяется целиком.
type Store struct {
	mu       sync.Mutex
	cfg      Config
	exporter Exporter
	history  History
	log      *slog.Logger
	snap     atomic.Pointer[Snapshot]
}

func NewStore(cfg Config, exporter Exporter, history History, log *slog.Logger) *Store {
	if cfg.Decoder == nil {
		cfg.Decoder = NewDecoder()
	}
	if cfg.Options.Format == export.FormatTSV && cfg.Decoder.Comma == ',' {
		d := *cfg.Decoder
		d.Comma = '\t'
		cfg.Decoder = &d
	}
	return &Store{
		cfg:      cfg,
		exporter: exporter,
		history:  history,
		log:      log.With("component", "response_store", "survey_id", cfg.SurveyID),
	}
}

// Snapshot возвращает текущий снимок или nil
func (s *Store) Snapshot() *Snapshot {
	return s.snap.Load()
}

// OutputDir - текущий каталог артефакта
func (s *Store) OutputDir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.OutputDir
}

// ArtifactPath - детерминированный путь артефакта опроса
func (s *Store) ArtifactPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifactPath()
}

func (s *Store) artifactPath() string {
	return s.artifactIn(s.cfg.OutputDir)
}

func (s *Store) artifactIn(dir string) string {
	return export.ArtifactPath(dir, s.cfg.SurveyName, s.cfg.Options.Format)
}

// Materialize возвращает снимок ответов. Без force повторный вызов
// не делает сетевых запросов: используется текущий снимок или файл на диске.
func (s *Store) Materialize(ctx context.Context, force bool) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.materialize(ctx, force, s.cfg.OutputDir)
}

// Refetch принудительно выгружает ответы заново, при непустом outputDir - в новый каталог.
// Каталог хранилища меняется только вместе с новым снимком.
func (s *Store) Refetch(ctx context.Context, outputDir string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if outputDir == "" {
		outputDir = s.cfg.OutputDir
	}
	return s.materialize(ctx, true, outputDir)
}

func (s *Store) materialize(ctx context.Context, force bool, dir string) (*Snapshot, error) {
	const op = "response.materialize"

	if dir == "" {
		return nil, model.Configuration(op, "output_location", export.ErrNoOutputLocation)
	}
	if f := s.cfg.Options.Format; f != "" && f != export.FormatCSV && f != export.FormatTSV {
		return nil, model.Configuration(op, "format", fmt.Errorf("%w: %s", ErrUnsupportedFormat, f))
	}

	if !force {
		if cur := s.snap.Load(); cur != nil {
			return cur, nil
		}
		path := s.artifactIn(dir)
		if _, err := os.Stat(path); err == nil {
			snap, err := s.cfg.Decoder.DecodeFile(path)
			if err != nil {
				return nil, err
			}
			s.log.Debug("responses loaded from artifact", "path", path, "responses", len(snap.Records))
			s.snap.Store(snap)
			return snap, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	res, err := s.exporter.Run(ctx, export.Request{
		SurveyID:   s.cfg.SurveyID,
		SurveyName: s.cfg.SurveyName,
		OutputDir:  dir,
		Options:    s.cfg.Options,
		OnProgress: s.cfg.OnProgress,
	})
	if err != nil {
		return nil, err
	}

	snap, err := s.cfg.Decoder.DecodeFile(res.ArtifactPath)
	if err != nil {
		return nil, err
	}
	s.snap.Store(snap)
	if dir != s.cfg.OutputDir {
		s.log.Debug("output location changed", "from", s.cfg.OutputDir, "to", dir)
		s.cfg.OutputDir = dir
	}
	s.log.Info("responses materialized", "path", res.ArtifactPath, "responses", len(snap.Records), "digest", snap.Digest)

	s.record(ctx, res, snap)
	return snap, nil
}

func (s *Store) record(ctx context.Context, res *export.Result, snap *Snapshot) {
	if s.history == nil {
		return
	}
	format := s.cfg.Options.Format
	if format == "" {
		format = export.FormatCSV
	}
	entry := HistoryEntry{
		ID:           uuid.New(),
		SurveyID:     s.cfg.SurveyID,
		ProgressID:   res.Job.ProgressID,
		FileID:       res.Job.FileID,
		Format:       string(format),
		ArtifactPath: res.ArtifactPath,
		Digest:       snap.Digest,
		Responses:    len(snap.Records),
		Bytes:        res.Bytes,
		Duration:     res.Duration,
		CreatedAt:    time.Now(),
	}
	if err := s.history.Append(ctx, entry); err != nil {
		s.log.Warn("failed to record export history", "error", err)
	}
}

// Response ищет ответ по id; при redownload ответы выгружаются заново
func (s *Store) Response(ctx context.Context, id string, redownload bool) (Record, error) {
	snap, err := s.Materialize(ctx, redownload)
	if err != nil {
		return Record{}, err
	}
	rec, ok := snap.Find(id)
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}
