// GET    /api/v1/health                               # состояние (публичный)
// GET    /api/v1/surveys                              # опросы (api key)
// GET    /api/v1/surveys/{id}/responses               # ответы, ?filter=&refresh=&offset=&limit=
// GET    /api/v1/surveys/{id}/responses/{responseId}  # один ответ
// GET    /api/v1/surveys/{id}/exports                 # журнал выгрузок
// GET    /api/v1/filters                              # сохраненные фильтры
// POST   /api/v1/filters                              # сохранить фильтр
// GET    /api/v1/filters/{name}                       # получить фильтр
// DELETE /api/v1/filters/{name}                       # удалить фильтр

package api

import (
	filtersAPI "goqualtrics/internal/app/server/api/http/filters"
	healthAPI "goqualtrics/internal/app/server/api/http/health"
	"goqualtrics/internal/app/server/api/http/middleware"
	"goqualtrics/internal/app/server/api/http/middleware/auth"
	"goqualtrics/internal/app/server/api/http/middleware/logger"
	responsesAPI "goqualtrics/internal/app/server/api/http/responses"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/exp/slog"
)

// Deps - сервисы, которые обслуживает HTTP API
type Deps struct {
	Health    healthAPI.Checker
	Responses responsesAPI.Service
	Filters   filtersAPI.Service
	APIKey    string
}

type Handlers struct {
	Health    *healthAPI.Handler
	Responses *responsesAPI.Handler
	Filters   *filtersAPI.Handler
}

// New создает *chi.Mux со всеми операциями, зарегистрированными через huma
func New(deps Deps, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()
	mux.Use(chimw.Recoverer)

	config := huma.DefaultConfig("goqualtrics API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"apiKey": {Type: "apiKey", In: "header", Name: auth.Header},
	}

	API := humachi.New(mux, config)

	h := handlers(deps, log)
	h.Health.SetupRoutes(API)
	h.Responses.SetupRoutes(API)
	h.Filters.SetupRoutes(API)

	return mux
}

func handlers(deps Deps, log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	protected := func() huma.Middlewares {
		middlewares.Add(loggerMW.Middleware())
		if deps.APIKey != "" {
			middlewares.Add(auth.New(deps.APIKey, log).Middleware())
		}
		return middlewares.GetAllAndClear()
	}
	if deps.APIKey == "" {
		log.Warn("API_KEY не задан, API доступно без аутентификации")
	}

	healthHandler := healthAPI.NewHandler(deps.Health, log, middlewares.Add(loggerMW.Middleware()).GetAllAndClear())
	responsesHandler := responsesAPI.NewHandler(deps.Responses, log, protected())
	filtersHandler := filtersAPI.NewHandler(deps.Filters, log, protected())

	return &Handlers{
		Health:    healthHandler,
		Responses: responsesHandler,
		Filters:   filtersHandler,
	}
}
