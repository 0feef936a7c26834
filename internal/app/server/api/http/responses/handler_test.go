package responses

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"goqualtrics/internal/domain/directory"
	"goqualtrics/internal/domain/filter"
	"goqualtrics/internal/domain/response"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Surveys(ctx context.Context) ([]directory.Survey, error) {
	args := m.Called(ctx)
	return args.Get(0).([]directory.Survey), args.Error(1)
}

func (m *MockService) List(ctx context.Context, surveyID string, q Query) ([]response.Record, error) {
	args := m.Called(ctx, surveyID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]response.Record), args.Error(1)
}

func (m *MockService) Find(ctx context.Context, surveyID, responseID string, refresh bool) (response.Record, error) {
	args := m.Called(ctx, surveyID, responseID, refresh)
	return args.Get(0).(response.Record), args.Error(1)
}

func (m *MockService) History(ctx context.Context, surveyID string, limit int) ([]response.HistoryEntry, error) {
	args := m.Called(ctx, surveyID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]response.HistoryEntry), args.Error(1)
}

func records(ids ...string) []response.Record {
	out := make([]response.Record, len(ids))
	for i, id := range ids {
		out[i] = response.Record{ResponseID: id}
	}
	return out
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	return se.GetStatus()
}

func TestHandler_list(t *testing.T) {
	tests := []struct {
		name    string
		input   listInput
		stored  []response.Record
		wantIDs []string
		total   int
	}{
		{
			name:    "all responses",
			input:   listInput{SurveyID: "SV_1"},
			stored:  records("R_1", "R_2", "R_3"),
			wantIDs: []string{"R_1", "R_2", "R_3"},
			total:   3,
		},
		{
			name:    "page",
			input:   listInput{SurveyID: "SV_1", Offset: 1, Limit: 1},
			stored:  records("R_1", "R_2", "R_3"),
			wantIDs: []string{"R_2"},
			total:   3,
		},
		{
			name:    "offset past end",
			input:   listInput{SurveyID: "SV_1", Offset: 10},
			stored:  records("R_1"),
			wantIDs: []string{},
			total:   1,
		},
		{
			name:    "saved filter and refresh are forwarded",
			input:   listInput{SurveyID: "SV_1", Filter: "reds", Refresh: true},
			stored:  records("R_3"),
			wantIDs: []string{"R_3"},
			total:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			svc := new(MockService)
			svc.On("List", mock.Anything, "SV_1", Query{Filter: tt.input.Filter, Refresh: tt.input.Refresh}).
				Return(tt.stored, nil).Once()
			h := NewHandler(svc, slog.Default(), huma.Middlewares{})

			// Act
			out, err := h.list(context.Background(), &tt.input)

			// Assert
			require.NoError(t, err)
			ids := make([]string, 0, len(out.Body.Responses))
			for _, r := range out.Body.Responses {
				ids = append(ids, r.ResponseID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.total, out.Body.Total)
			assert.Equal(t, len(tt.wantIDs), out.Body.Count)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_list_Errors(t *testing.T) {
	svc := new(MockService)
	svc.On("List", mock.Anything, "SV_1", Query{Filter: "missing"}).
		Return(nil, fmt.Errorf("filter.resolve: %w", filter.ErrFilterNotFound)).Once()
	h := NewHandler(svc, slog.Default(), huma.Middlewares{})

	_, err := h.list(context.Background(), &listInput{SurveyID: "SV_1", Filter: "missing"})

	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestHandler_find(t *testing.T) {
	svc := new(MockService)
	svc.On("Find", mock.Anything, "SV_1", "R_2", false).Return(response.Record{ResponseID: "R_2"}, nil).Once()
	svc.On("Find", mock.Anything, "SV_1", "R_9", false).Return(response.Record{}, response.ErrNotFound).Once()
	h := NewHandler(svc, slog.Default(), huma.Middlewares{})

	out, err := h.find(context.Background(), &findInput{SurveyID: "SV_1", ResponseID: "R_2"})
	require.NoError(t, err)
	assert.Equal(t, "R_2", out.Body.ResponseID)

	_, err = h.find(context.Background(), &findInput{SurveyID: "SV_1", ResponseID: "R_9"})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestHandler_history(t *testing.T) {
	svc := new(MockService)
	svc.On("History", mock.Anything, "SV_1", 20).Return(nil, nil).Once()
	h := NewHandler(svc, slog.Default(), huma.Middlewares{})

	out, err := h.history(context.Background(), &historyInput{SurveyID: "SV_1", Limit: 20})

	require.NoError(t, err)
	assert.Equal(t, 0, out.Body.Count)
	assert.NotNil(t, out.Body.Exports)
}

func TestHandler_surveys(t *testing.T) {
	svc := new(MockService)
	svc.On("Surveys", mock.Anything).Return([]directory.Survey{{ID: "SV_1", Name: "Shop"}}, nil).Once()
	h := NewHandler(svc, slog.Default(), huma.Middlewares{})

	out, err := h.surveys(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 1, out.Body.Count)
	assert.Equal(t, "Shop", out.Body.Surveys[0].Name)
}
