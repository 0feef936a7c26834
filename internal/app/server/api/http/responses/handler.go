package responses

import (
	"context"

	"goqualtrics/internal/app/server/api/http/apierr"
	"goqualtrics/internal/domain/directory"
	"goqualtrics/internal/domain/response"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Query - параметры выборки ответов
type Query struct {
	Filter  string
	Refresh bool
}

type Service interface {
	Surveys(ctx context.Context) ([]directory.Survey, error)
	List(ctx context.Context, surveyID string, q Query) ([]response.Record, error)
	Find(ctx context.Context, surveyID, responseID string, refresh bool) (response.Record, error)
	History(ctx context.Context, surveyID string, limit int) ([]response.HistoryEntry, error)
}

type Handler struct {
	service    Service
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service Service, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log.With("component", "responses_handler"),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.surveysOp(), h.surveys)
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.findOp(), h.find)
	huma.Register(api, h.historyOp(), h.history)
}

func (h *Handler) surveys(ctx context.Context, _ *struct{}) (*surveysOutput, error) {
	list, err := h.service.Surveys(ctx)
	if err != nil {
		return nil, apierr.From(err)
	}
	return &surveysOutput{
		Body: surveysResponse{Count: len(list), Surveys: list},
	}, nil
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	records, err := h.service.List(ctx, input.SurveyID, Query{
		Filter:  input.Filter,
		Refresh: input.Refresh,
	})
	if err != nil {
		h.log.Warn("list responses", "survey_id", input.SurveyID, "filter", input.Filter, "error", err)
		return nil, apierr.From(err)
	}

	page := paginate(records, input.Offset, input.Limit)
	return &listOutput{
		Body: listResponse{
			Total:     len(records),
			Count:     len(page),
			Responses: page,
		},
	}, nil
}

func (h *Handler) find(ctx context.Context, input *findInput) (*findOutput, error) {
	rec, err := h.service.Find(ctx, input.SurveyID, input.ResponseID, input.Refresh)
	if err != nil {
		return nil, apierr.From(err)
	}
	return &findOutput{Body: rec}, nil
}

func (h *Handler) history(ctx context.Context, input *historyInput) (*historyOutput, error) {
	entries, err := h.service.History(ctx, input.SurveyID, input.Limit)
	if err != nil {
		return nil, apierr.From(err)
	}
	if entries == nil {
		entries = []response.HistoryEntry{}
	}
	return &historyOutput{
		Body: historyResponse{Count: len(entries), Exports: entries},
	}, nil
}

func paginate(records []response.Record, offset, limit int) []response.Record {
	if offset >= len(records) {
		return []response.Record{}
	}
	records = records[offset:]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}
