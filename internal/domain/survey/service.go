package survey

import (
	"context"
	"sync"

	"goqualtrics/internal/domain/directory"
	"goqualtrics/internal/domain/export"
	"goqualtrics/internal/domain/filter"
	"goqualtrics/internal/domain/response"

	"golang.org/x/exp/slog"
)

// Finder ищет опрос в каталоге
type Finder interface {
	FindSurvey(ctx context.Context, id, name string) (*directory.Survey, error)
}

// Config - параметры, общие для всех опросов процесса
type Config struct {
	OutputDir  string
	Options    export.Options
	Decoder    *response.Decoder
	OnProgress func(export.Job)
}

// Service открывает опросы; на каждый опрос создается одно хранилище ответов
type Service struct {
	finder   Finder
	exporter response.Exporter
	history  response.History
	filters  *filter.Service
	cfg      Config
	log      *slog.Logger

	mu     sync.Mutex
	stores map[string]*response.Store
}

func NewService(
	finder Finder,
	exporter response.Exporter,
	history response.History,
	filters *filter.Service,
	cfg Config,
	log *slog.Logger,
) *Service {
	return &Service{
		finder:   finder,
		exporter: exporter,
		history:  history,
		filters:  filters,
		cfg:      cfg,
		log:      log,
		stores:   make(map[string]*response.Store),
	}
}

// Open возвращает опрос по id или имени
func (s *Service) Open(ctx context.Context, id, name string) (*Survey, error) {
	info, err := s.finder.FindSurvey(ctx, id, name)
	if err != nil {
		return nil, err
	}
	return s.Wrap(*info), nil
}

// Wrap связывает уже известный опрос с его хранилищем
func (s *Service) Wrap(info directory.Survey) *Survey {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, ok := s.stores[info.ID]
	if !ok {
		store = response.NewStore(response.Config{
			SurveyID:   info.ID,
			SurveyName: info.Name,
			OutputDir:  s.cfg.OutputDir,
			Options:    s.cfg.Options,
			Decoder:    s.cfg.Decoder,
			OnProgress: s.cfg.OnProgress,
		}, s.exporter, s.history, s.log)
		s.stores[info.ID] = store
	}
	return &Survey{Info: info, store: store, filters: s.filters}
}

func (s *Service) Filters() *filter.Service {
	return s.filters
}
