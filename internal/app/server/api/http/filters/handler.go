package filters

import (
	"context"

	"goqualtrics/internal/app/server/api/http/apierr"
	"goqualtrics/internal/domain/filter"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Service interface {
	Save(ctx context.Context, name string, spec filter.Spec) (*filter.Saved, error)
	Get(ctx context.Context, name string) (*filter.Saved, error)
	List(ctx context.Context) ([]*filter.Saved, error)
	Delete(ctx context.Context, name string) error
}

type Handler struct {
	service    Service
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service Service, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log.With("component", "filters_handler"),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.findOp(), h.find)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	saved, err := h.service.List(ctx)
	if err != nil {
		return nil, apierr.From(err)
	}

	out := make([]filterResponse, 0, len(saved))
	for _, s := range saved {
		out = append(out, toResponse(s))
	}
	return &listOutput{
		Body: listResponse{Count: len(out), Filters: out},
	}, nil
}

func (h *Handler) find(ctx context.Context, input *nameInput) (*output, error) {
	saved, err := h.service.Get(ctx, input.Name)
	if err != nil {
		return nil, apierr.From(err)
	}
	return &output{Body: toResponse(saved)}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*output, error) {
	spec, err := input.Body.spec()
	if err != nil {
		return nil, apierr.From(err)
	}

	saved, err := h.service.Save(ctx, input.Body.Name, spec)
	if err != nil {
		h.log.Warn("save filter", "name", input.Body.Name, "error", err)
		return nil, apierr.From(err)
	}
	return &output{Body: toResponse(saved)}, nil
}

func (h *Handler) delete(ctx context.Context, input *nameInput) (*deleteOutput, error) {
	if err := h.service.Delete(ctx, input.Name); err != nil {
		return nil, apierr.From(err)
	}
	return &deleteOutput{Body: statusResponse{Status: "Ok"}}, nil
}
