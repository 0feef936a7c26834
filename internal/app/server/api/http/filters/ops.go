package filters

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "filters-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/filters",
		Summary:     "Сохраненные фильтры",
		Tags:        []string{"filters"},
		Security:    []map[string][]string{{"apiKey": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "filters-find",
		Method:      http.MethodGet,
		Path:        "/api/v1/filters/{name}",
		Summary:     "Получить фильтр",
		Tags:        []string{"filters"},
		Security:    []map[string][]string{{"apiKey": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID:   "filters-create",
		Method:        http.MethodPost,
		Path:          "/api/v1/filters",
		Summary:       "Сохранить фильтр",
		Description:   "Текстовый фильтр: поле -> список значений. Фильтр по датам: поле -> [timestamp, before|after].",
		Tags:          []string{"filters"},
		Security:      []map[string][]string{{"apiKey": {}}},
		DefaultStatus: http.StatusCreated,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "filters-delete",
		Method:      http.MethodDelete,
		Path:        "/api/v1/filters/{name}",
		Summary:     "Удалить фильтр",
		Tags:        []string{"filters"},
		Security:    []map[string][]string{{"apiKey": {}}},
		Middlewares: h.middleware,
	}
}
