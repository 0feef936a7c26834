package apierr

import (
	"context"
	"errors"

	"goqualtrics/internal/domain/directory"
	"goqualtrics/internal/domain/filter"
	"goqualtrics/internal/domain/response"
	"goqualtrics/internal/model"

	"github.com/danielgtaylor/huma/v2"
)

// From переводит доменную ошибку в HTTP ответ
func From(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	switch {
	case errors.Is(err, filter.ErrFilterNotFound),
		errors.Is(err, response.ErrNotFound),
		errors.Is(err, directory.ErrSurveyNotFound):
		return huma.Error404NotFound(msg)
	case errors.Is(err, filter.ErrFilterExists):
		return huma.Error409Conflict(msg)
	case errors.Is(err, model.ErrConfiguration):
		return huma.Error400BadRequest(msg)
	case errors.Is(err, model.ErrExportTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return huma.Error504GatewayTimeout(msg)
	case errors.Is(err, model.ErrRemote),
		errors.Is(err, model.ErrExportFailed),
		errors.Is(err, model.ErrDecode):
		return huma.Error502BadGateway(msg)
	}
	return huma.Error500InternalServerError(msg)
}
