package survey

import (
	"context"

	"goqualtrics/internal/domain/directory"
	"goqualtrics/internal/domain/filter"
	"goqualtrics/internal/domain/response"
)

// FilterOptions - общие параметры фильтрации ответов
type FilterOptions struct {
	Existing  string
	SaveAs    string
	Refresh   bool
	OutputDir string
}

func (o FilterOptions) request(kind filter.Kind, spec filter.Spec) filter.Request {
	return filter.Request{
		Kind:      kind,
		Spec:      spec,
		Existing:  o.Existing,
		SaveAs:    o.SaveAs,
		Refresh:   o.Refresh,
		OutputDir: o.OutputDir,
	}
}

// Survey - опрос вместе с его хранилищем ответов
type Survey struct {
	Info    directory.Survey
	store   *response.Store
	filters *filter.Service
}

func (s *Survey) ID() string {
	return s.Info.ID
}

func (s *Survey) Name() string {
	return s.Info.Name
}

// Store возвращает хранилище ответов опроса
func (s *Survey) Store() *response.Store {
	return s.store
}

// Responses возвращает ответы, при redownload выгружает их заново
func (s *Survey) Responses(ctx context.Context, redownload bool) ([]response.Record, error) {
	snap, err := s.store.Materialize(ctx, redownload)
	if err != nil {
		return nil, err
	}
	return snap.Records, nil
}

// Table возвращает колоночное представление ответов
func (s *Survey) Table(ctx context.Context, redownload bool) (*response.Table, error) {
	snap, err := s.store.Materialize(ctx, redownload)
	if err != nil {
		return nil, err
	}
	return snap.Table, nil
}

func (s *Survey) Response(ctx context.Context, id string, redownload bool) (response.Record, error) {
	return s.store.Response(ctx, id, redownload)
}

func (s *Survey) FilterByText(ctx context.Context, fields map[string][]string, opts FilterOptions) (*filter.Result, error) {
	return s.filters.Rows(ctx, s.store, opts.request(filter.KindText, filter.TextSpec(fields)))
}

func (s *Survey) FilterByTextColumns(ctx context.Context, fields map[string][]string, opts FilterOptions) (*filter.Result, error) {
	return s.filters.Columns(ctx, s.store, opts.request(filter.KindText, filter.TextSpec(fields)))
}

// FilterByDate принимает поле -> [timestamp, mode]
func (s *Survey) FilterByDate(ctx context.Context, fields map[string][]string, opts FilterOptions) (*filter.Result, error) {
	req, err := dateRequest(fields, opts)
	if err != nil {
		return nil, err
	}
	return s.filters.Rows(ctx, s.store, req)
}

func (s *Survey) FilterByDateColumns(ctx context.Context, fields map[string][]string, opts FilterOptions) (*filter.Result, error) {
	req, err := dateRequest(fields, opts)
	if err != nil {
		return nil, err
	}
	return s.filters.Columns(ctx, s.store, req)
}

// FilterByAnswer отбирает ответы, где на вопрос выбран один из answers
func (s *Survey) FilterByAnswer(ctx context.Context, questionID string, answers []string, opts FilterOptions) (*filter.Result, error) {
	return s.FilterByText(ctx, map[string][]string{questionID: answers}, opts)
}

// ApplySaved применяет сохраненный фильтр любого вида
func (s *Survey) ApplySaved(ctx context.Context, name string, opts FilterOptions) (*filter.Result, error) {
	return s.filters.Rows(ctx, s.store, savedRequest(name, opts))
}

func (s *Survey) ApplySavedColumns(ctx context.Context, name string, opts FilterOptions) (*filter.Result, error) {
	return s.filters.Columns(ctx, s.store, savedRequest(name, opts))
}

func savedRequest(name string, opts FilterOptions) filter.Request {
	opts.Existing = name
	opts.SaveAs = ""
	return opts.request("", filter.Spec{})
}

func dateRequest(fields map[string][]string, opts FilterOptions) (filter.Request, error) {
	// сохраненный фильтр заменяет переданный, разбирать его не нужно
	if opts.Existing != "" {
		return opts.request(filter.KindDate, filter.Spec{}), nil
	}
	spec, err := filter.ParseDateSpec(fields)
	if err != nil {
		return filter.Request{}, err
	}
	return opts.request(filter.KindDate, spec), nil
}
