package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"goqualtrics/internal/model"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/exp/slog"
)

const instrumentationName = "goqualtrics/export"

// Transport - коллаборатор, выполняющий запросы к платформе
type Transport interface {
	Request(ctx context.Context, method, path string, body, out any) error
	Download(ctx context.Context, path string, w io.Writer) (int64, error)
}

// PollPolicy ограничивает цикл опроса статуса
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts int
	Timeout     time.Duration
}

func DefaultPollPolicy() PollPolicy {
	return PollPolicy{
		Interval:    time.Second,
		MaxAttempts: 600,
		Timeout:     15 * time.Minute,
	}
}

// Service запускает экспорт ответов, опрашивает его и забирает артефакт
type Service struct {
	transport Transport
	log       *slog.Logger
	policy    PollPolicy
	verbose   bool
	now       func() time.Time
	tracer    trace.Tracer
}

func NewService(transport Transport, log *slog.Logger, policy PollPolicy, verbose bool) *Service {
	if policy.Interval < 0 {
		policy.Interval = 0
	}
	return &Service{
		transport: transport,
		log:       log.With("component", "export"),
		policy:    policy,
		verbose:   verbose,
		now:       time.Now,
		tracer:    noop.NewTracerProvider().Tracer(instrumentationName),
	}
}

// WithTracerProvider включает трассировку заданий экспорта
func (s *Service) WithTracerProvider(tp trace.TracerProvider) *Service {
	if tp != nil {
		s.tracer = tp.Tracer(instrumentationName)
	}
	return s
}

func exportPath(surveyID string, parts ...string) string {
	p := "/surveys/" + url.PathEscape(surveyID) + "/export-responses/"
	for i, part := range parts {
		if i > 0 {
			p += "/"
		}
		p += url.PathEscape(part)
	}
	return p
}

// Start отправляет запрос на генерацию файла ответов
func (s *Service) Start(ctx context.Context, surveyID string, opts Options) (*Job, error) {
	const op = "export.start"

	if surveyID == "" {
		return nil, model.Configuration(op, "survey_id", ErrNoSurveyID)
	}
	if opts.Format != "" && !opts.Format.Valid() {
		return nil, model.Configuration(op, "format", fmt.Errorf("%w: %s", ErrUnsupportedFormat, opts.Format))
	}

	var resp startResponse
	if err := s.transport.Request(ctx, http.MethodPost, exportPath(surveyID), opts, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.Result.ProgressID == "" {
		return nil, model.Decode(op, errors.New("response has no progressId"))
	}

	job := &Job{
		SurveyID:   surveyID,
		ProgressID: resp.Result.ProgressID,
		Status:     StatusInProgress,
		StartedAt:  s.now(),
	}
	s.log.Debug("export started", "survey_id", surveyID, "progress_id", job.ProgressID)
	return job, nil
}

// Poll выполняет один запрос статуса и обновляет job.
// Завершенное задание повторно не опрашивается.
func (s *Service) Poll(ctx context.Context, job *Job) error {
	const op = "export.poll"

	if job.Status.Terminal() {
		return jobError(model.ErrConfiguration, op, job, ErrJobTerminal)
	}

	var resp progressResponse
	if err := s.transport.Request(ctx, http.MethodGet, exportPath(job.SurveyID, job.ProgressID), nil, &resp); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	job.Polls++
	job.PercentComplete = resp.Result.PercentComplete
	job.Status = parseStatus(resp.Result.Status)

	attrs := []any{"progress_id", job.ProgressID, "percent_complete", job.PercentComplete, "status", job.Status}
	if s.verbose {
		s.log.Info("export progress", attrs...)
	} else {
		s.log.Debug("export progress", attrs...)
	}

	switch job.Status {
	case StatusFailed:
		job.FinishedAt = s.now()
		return jobError(model.ErrExportFailed, op, job, ErrJobFailed)
	case StatusComplete:
		job.FinishedAt = s.now()
		if resp.Result.FileID == "" {
			return jobError(model.ErrDecode, op, job, ErrNoFileID)
		}
		job.FileID = resp.Result.FileID
	}
	return nil
}

// Wait опрашивает задание до конечного состояния в пределах PollPolicy.
// Отмена ctx возвращает ошибку контекста, исчерпание политики - ErrExportTimeout.
func (s *Service) Wait(ctx context.Context, job *Job, onProgress func(Job)) error {
	const op = "export.wait"

	waitCtx := ctx
	if s.policy.Timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.policy.Timeout)
		defer cancel()
	}

	for !job.Status.Terminal() {
		if s.policy.MaxAttempts > 0 && job.Polls >= s.policy.MaxAttempts {
			return jobError(model.ErrExportTimeout, op, job,
				fmt.Errorf("still %s after %d polls", job.Status, job.Polls))
		}

		if job.Polls > 0 {
			if err := sleep(waitCtx, s.policy.Interval); err != nil {
				return s.waitErr(ctx, op, job, err)
			}
		}

		if err := s.Poll(waitCtx, job); err != nil {
			if waitCtx.Err() != nil {
				return s.waitErr(ctx, op, job, err)
			}
			return err
		}
		if onProgress != nil {
			onProgress(*job)
		}
	}
	return nil
}

func (s *Service) waitErr(parent context.Context, op string, job *Job, err error) error {
	if parent.Err() != nil {
		return fmt.Errorf("%s: %w", op, parent.Err())
	}
	return jobError(model.ErrExportTimeout, op, job,
		fmt.Errorf("no terminal status within %s: %w", s.policy.Timeout, err))
}

// Fetch скачивает архив завершенного задания и извлекает его в dir.
// Возвращает путь артефакта и число скачанных байт.
func (s *Service) Fetch(ctx context.Context, job *Job, dir, surveyName string, opts Options) (string, int64, error) {
	const op = "export.fetch"

	if job.Status != StatusComplete || job.FileID == "" {
		return "", 0, jobError(model.ErrConfiguration, op, job, ErrNoFileID)
	}
	if dir == "" {
		return "", 0, model.Configuration(op, "output_location", ErrNoOutputLocation)
	}

	target := ArtifactPath(dir, surveyName, opts.Format)
	if !inside(dir, target) {
		return "", 0, jobError(model.ErrConfiguration, op, job, fmt.Errorf("%w: %s", ErrUnsafeArtifact, target))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("%s: create output location: %w", op, err)
	}

	tmp, err := os.CreateTemp(dir, ".export-*.zip")
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}
	defer os.Remove(tmp.Name())

	n, err := s.transport.Download(ctx, exportPath(job.SurveyID, job.FileID, "file"), tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", n, fmt.Errorf("%s: %w", op, err)
	}

	if opts.Compress != nil && !*opts.Compress {
		if err := os.Rename(tmp.Name(), target); err != nil {
			return "", n, fmt.Errorf("%s: %w", op, err)
		}
		return target, n, nil
	}

	files, err := extract(tmp.Name(), dir)
	if err != nil {
		return "", n, jobError(model.ErrDecode, op, job, err)
	}
	if err := placeArtifact(files, target); err != nil {
		return "", n, jobError(model.ErrDecode, op, job, err)
	}

	s.log.Debug("export artifact extracted", "path", target, "bytes", n, "files", len(files))
	return filepath.Clean(target), n, nil
}

// Run проходит весь цикл: запуск, ожидание, скачивание
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "export.run", trace.WithAttributes(
		attribute.String("survey.id", req.SurveyID),
		attribute.String("export.format", string(req.Options.Format)),
	))
	defer span.End()

	res, err := s.run(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("export.progress_id", res.Job.ProgressID),
		attribute.String("export.file_id", res.Job.FileID),
		attribute.Int("export.polls", res.Job.Polls),
		attribute.Int64("export.bytes", res.Bytes),
	)
	return res, nil
}

func (s *Service) run(ctx context.Context, req Request) (*Result, error) {
	const op = "export.run"

	if req.OutputDir == "" {
		return nil, model.Configuration(op, "output_location", ErrNoOutputLocation)
	}
	if req.SurveyName == "" {
		return nil, model.Configuration(op, "survey_name", ErrNoSurveyName)
	}

	started := s.now()
	job, err := s.Start(ctx, req.SurveyID, req.Options)
	if err != nil {
		return nil, err
	}
	if err := s.Wait(ctx, job, req.OnProgress); err != nil {
		return nil, err
	}

	path, n, err := s.Fetch(ctx, job, req.OutputDir, req.SurveyName, req.Options)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Job:          *job,
		ArtifactPath: path,
		Bytes:        n,
		Duration:     s.now().Sub(started),
	}
	s.log.Info("export complete",
		"survey_id", req.SurveyID,
		"file_id", job.FileID,
		"path", path,
		"polls", job.Polls,
	)
	return res, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
