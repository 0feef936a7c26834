package api

import (
	"context"

	"goqualtrics/internal/app/client"
	responsesAPI "goqualtrics/internal/app/server/api/http/responses"
	"goqualtrics/internal/domain/directory"
	"goqualtrics/internal/domain/response"
	"goqualtrics/internal/domain/survey"
)

// NewDeps связывает API с клиентом платформы опросов
func NewDeps(app *client.App, apiKey string) Deps {
	return Deps{
		Health:    app,
		Responses: newResponseService(app.Directory(), app.Surveys(client.SurveyOptions{}), app.History()),
		Filters:   app.Filters(),
		APIKey:    apiKey,
	}
}

type surveyLister interface {
	ListSurveys(ctx context.Context) ([]directory.Survey, error)
}

type responseService struct {
	directory surveyLister
	surveys   *survey.Service
	history   response.History
}

func newResponseService(dir surveyLister, surveys *survey.Service, history response.History) *responseService {
	return &responseService{directory: dir, surveys: surveys, history: history}
}

func (s *responseService) Surveys(ctx context.Context) ([]directory.Survey, error) {
	return s.directory.ListSurveys(ctx)
}

func (s *responseService) List(ctx context.Context, surveyID string, q responsesAPI.Query) ([]response.Record, error) {
	sv, err := s.surveys.Open(ctx, surveyID, "")
	if err != nil {
		return nil, err
	}
	if q.Filter == "" {
		return sv.Responses(ctx, q.Refresh)
	}
	res, err := sv.ApplySaved(ctx, q.Filter, survey.FilterOptions{Refresh: q.Refresh})
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

func (s *responseService) Find(ctx context.Context, surveyID, responseID string, refresh bool) (response.Record, error) {
	sv, err := s.surveys.Open(ctx, surveyID, "")
	if err != nil {
		return response.Record{}, err
	}
	return sv.Response(ctx, responseID, refresh)
}

func (s *responseService) History(ctx context.Context, surveyID string, limit int) ([]response.HistoryEntry, error) {
	return s.history.List(ctx, surveyID, limit)
}
