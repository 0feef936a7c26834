package health

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

const pingTimeout = 2 * time.Second

// Checker сообщает, настроена ли сессия платформы и доступны ли хранилища
type Checker interface {
	IsAuthenticated() bool
	Ping(ctx context.Context) error
}

type Handler struct {
	checker    Checker
	started    time.Time
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(checker Checker, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		checker:    checker,
		started:    time.Now(),
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

func (h *Handler) healthCheck(ctx context.Context, _ *Input) (*Output, error) {
	h.log.Debug("health check request received")

	if h.checker == nil {
		return h.output(false, "UNKNOWN"), nil
	}

	storage := "OK"
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := h.checker.Ping(pingCtx); err != nil {
		h.log.Warn("storage ping failed", "error", err)
		storage = "ERROR"
	}

	return h.output(h.checker.IsAuthenticated(), storage), nil
}

func (h *Handler) output(authenticated bool, storage string) *Output {
	status := "OK"
	if !authenticated || storage != "OK" {
		status = "DEGRADED"
	}
	return &Output{
		Body: Response{
			Status:        status,
			Authenticated: authenticated,
			Storage:       storage,
			Uptime:        time.Since(h.started).Round(time.Second).String(),
		},
	}
}
