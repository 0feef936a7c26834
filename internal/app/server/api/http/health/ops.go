package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) healthCheckOp() huma.Operation {
	return huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/v1/health",
		Summary:     "Состояние сервиса",
		Description: "DEGRADED, если токен платформы опросов не настроен или хранилище недоступно",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
	}
}
