package responses

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) surveysOp() huma.Operation {
	return huma.Operation{
		OperationID: "surveys-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/surveys",
		Summary:     "Список опросов",
		Tags:        []string{"surveys"},
		Security:    []map[string][]string{{"apiKey": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "responses-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/surveys/{id}/responses",
		Summary:     "Ответы опроса",
		Description: "При первом обращении запускает выгрузку. С filter применяет сохраненный фильтр.",
		Tags:        []string{"responses"},
		Security:    []map[string][]string{{"apiKey": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "responses-find",
		Method:      http.MethodGet,
		Path:        "/api/v1/surveys/{id}/responses/{responseId}",
		Summary:     "Один ответ по ResponseId",
		Tags:        []string{"responses"},
		Security:    []map[string][]string{{"apiKey": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) historyOp() huma.Operation {
	return huma.Operation{
		OperationID: "exports-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/surveys/{id}/exports",
		Summary:     "Журнал выгрузок опроса",
		Tags:        []string{"responses"},
		Security:    []map[string][]string{{"apiKey": {}}},
		Middlewares: h.middleware,
	}
}
