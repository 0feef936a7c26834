package filter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"goqualtrics/internal/domain/response"
	"goqualtrics/internal/model"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Source - хранилище ответов, над которым вычисляется фильтр
type Source interface {
	Materialize(ctx context.Context, force bool) (*response.Snapshot, error)
	Refetch(ctx context.Context, outputDir string) (*response.Snapshot, error)
	OutputDir() string
}

// Request - параметры одного применения фильтра
type Request struct {
	// Kind - ожидаемый вид фильтра, пустой - любой
	Kind Kind
	Spec Spec
	// Existing - имя сохраненного фильтра; если задано, Spec игнорируется
	Existing string
	// SaveAs - сохранить Spec под этим именем после успешного вычисления
	SaveAs    string
	Refresh   bool
	OutputDir string
}

type Result struct {
	Spec    Spec
	Records []response.Record
	Table   *response.Table
	Saved   *Saved
}

// IDs - ResponseId результата в исходном порядке
func (r *Result) IDs() []string {
	if r.Table != nil {
		return r.Table.IDs()
	}
	ids := make([]string, len(r.Records))
	for i, rec := range r.Records {
		ids[i] = rec.ResponseID
	}
	return ids
}

// Service применяет фильтры к ответам и управляет сохраненными фильтрами
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// NewService создает сервис; repo может быть nil, тогда сохранение недоступно
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "filter"),
		now:  time.Now,
	}
}

// Rows применяет фильтр построчно
func (s *Service) Rows(ctx context.Context, src Source, req Request) (*Result, error) {
	return s.apply(ctx, src, req, func(snap *response.Snapshot, spec Spec, res *Result) error {
		recs, err := Rows(snap, spec)
		res.Records = recs
		return err
	})
}

// Columns применяет фильтр к колоночному представлению
func (s *Service) Columns(ctx context.Context, src Source, req Request) (*Result, error) {
	return s.apply(ctx, src, req, func(snap *response.Snapshot, spec Spec, res *Result) error {
		table, err := Columns(snap, spec)
		res.Table = table
		return err
	})
}

type evaluator func(snap *response.Snapshot, spec Spec, res *Result) error

func (s *Service) apply(ctx context.Context, src Source, req Request, eval evaluator) (*Result, error) {
	spec, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx, src, req)
	if err != nil {
		return nil, err
	}

	res := &Result{Spec: spec}
	if err := eval(snap, spec, res); err != nil {
		return nil, err
	}

	if req.Existing == "" && req.SaveAs != "" {
		saved, err := s.Save(ctx, req.SaveAs, spec)
		if err != nil {
			return nil, err
		}
		res.Saved = saved
	}

	s.log.Debug("filter applied", "kind", spec.Kind, "fields", spec.Fields(), "matched", len(res.IDs()))
	return res, nil
}

// resolve выбирает фильтр и проверяет все предусловия до обращения к данным
func (s *Service) resolve(ctx context.Context, req Request) (Spec, error) {
	const op = "filter.resolve"

	spec := req.Spec
	if req.Existing != "" {
		if s.repo == nil {
			return Spec{}, model.Configuration(op, "existing", ErrNoRepository)
		}
		saved, err := s.repo.GetByName(ctx, req.Existing)
		if err != nil {
			return Spec{}, fmt.Errorf("%s: %w", op, err)
		}
		spec = saved.Spec
	} else if req.SaveAs != "" {
		if s.repo == nil {
			return Spec{}, model.Configuration(op, "save_as", ErrNoRepository)
		}
		if err := ValidateName(req.SaveAs); err != nil {
			return Spec{}, model.Configuration(op, "save_as", err)
		}
		// имя проверяется до выгрузки, иначе занятое имя всплывет после полного экспорта
		_, err := s.repo.GetByName(ctx, strings.TrimSpace(req.SaveAs))
		switch {
		case err == nil:
			return Spec{}, model.Configuration(op, "save_as", ErrFilterExists)
		case !errors.Is(err, ErrFilterNotFound):
			return Spec{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	if req.Kind != "" && spec.Kind != req.Kind {
		return Spec{}, model.Configuration(op, "kind",
			fmt.Errorf("%w: want %s, got %s", ErrKindMismatch, req.Kind, spec.Kind))
	}
	if err := spec.Validate(); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

func (s *Service) snapshot(ctx context.Context, src Source, req Request) (*response.Snapshot, error) {
	if req.Refresh || (req.OutputDir != "" && req.OutputDir != src.OutputDir()) {
		return src.Refetch(ctx, req.OutputDir)
	}
	return src.Materialize(ctx, false)
}

// Save сохраняет фильтр под именем
func (s *Service) Save(ctx context.Context, name string, spec Spec) (*Saved, error) {
	const op = "filter.save"

	if s.repo == nil {
		return nil, model.Configuration(op, "save_as", ErrNoRepository)
	}
	if err := ValidateName(name); err != nil {
		return nil, model.Configuration(op, "name", err)
	}
	name = strings.TrimSpace(name)
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	saved := &Saved{
		ID:        uuid.New(),
		Name:      name,
		Spec:      spec,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Save(ctx, saved); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("filter saved", "name", name, "id", saved.ID)
	return saved, nil
}

func (s *Service) Get(ctx context.Context, name string) (*Saved, error) {
	if s.repo == nil {
		return nil, model.Configuration("filter.get", "", ErrNoRepository)
	}
	return s.repo.GetByName(ctx, name)
}

func (s *Service) List(ctx context.Context) ([]*Saved, error) {
	if s.repo == nil {
		return nil, model.Configuration("filter.list", "", ErrNoRepository)
	}
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, name string) error {
	if s.repo == nil {
		return model.Configuration("filter.delete", "", ErrNoRepository)
	}
	return s.repo.Delete(ctx, name)
}
