package directory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"goqualtrics/internal/domain/pagination"
	"goqualtrics/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

// MockFetcher is a mock implementation of the pagination.Fetcher interface for testing
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Request(ctx context.Context, method, path string, body, out any) error {
	args := m.Called(ctx, method, path)
	if raw, ok := args.Get(0).(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), out); err != nil {
			return err
		}
	}
	return args.Error(1)
}

func newService(f *MockFetcher) *Service {
	return NewService(f, pagination.New(f, 0, slog.Default()), slog.Default())
}

func TestService_WhoAmI(t *testing.T) {
	// Arrange
	f := new(MockFetcher)
	f.On("Request", mock.Anything, "GET", "/whoami").
		Return(`{"result":{"userId":"UR_1","userName":"jdoe","firstName":"J","lastName":"Doe","email":"j@d.io"}}`, nil)
	svc := newService(f)

	// Act
	u, err := svc.WhoAmI(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "UR_1", u.ID)
	assert.Equal(t, "jdoe", u.Username)
}

func TestService_ListSurveys_PartialOnError(t *testing.T) {
	f := new(MockFetcher)
	f.On("Request", mock.Anything, "GET", "/surveys").
		Return(`{"result":{"elements":[{"id":"SV_1","name":"One","isActive":true}],"nextPage":"x"}}`, nil).Once()
	f.On("Request", mock.Anything, "GET", "/surveys?offset=100").
		Return("", model.Remote("request", errors.New("status 500"))).Once()
	svc := newService(f)

	surveys, err := svc.ListSurveys(context.Background())

	require.NoError(t, err)
	require.Len(t, surveys, 1)
	assert.Equal(t, "SV_1", surveys[0].ID)
	assert.True(t, surveys[0].IsActive)
}

func TestService_ListSurveys_CanceledContext(t *testing.T) {
	f := new(MockFetcher)
	svc := newService(f)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ListSurveys(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_FindSurvey(t *testing.T) {
	page := `{"result":{"elements":[{"id":"SV_1","name":"One"},{"id":"SV_2","name":"Two"}]}}`

	tests := []struct {
		name    string
		id      string
		byName  string
		wantID  string
		wantErr error
	}{
		{name: "by id", id: "SV_2", wantID: "SV_2"},
		{name: "by name", byName: "One", wantID: "SV_1"},
		{name: "not found", id: "SV_9", wantErr: ErrSurveyNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := new(MockFetcher)
			f.On("Request", mock.Anything, "GET", "/surveys").Return(page, nil).Once()

			got, err := newService(f).FindSurvey(context.Background(), tt.id, tt.byName)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestService_FindSurvey_NoKey(t *testing.T) {
	f := new(MockFetcher)

	_, err := newService(f).FindSurvey(context.Background(), "", "")

	assert.ErrorIs(t, err, model.ErrConfiguration)
	f.AssertNotCalled(t, "Request", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ListLibrarySurveys_URLCursor(t *testing.T) {
	f := new(MockFetcher)
	next := "https://co1.qualtrics.com/API/v3/libraries/UR_1/survey/surveys?skipToken=2"
	f.On("Request", mock.Anything, "GET", "/libraries/UR_1/survey/surveys").
		Return(`{"result":{"elements":[{"id":"SV_1"}],"nextPage":"`+next+`"}}`, nil).Once()
	f.On("Request", mock.Anything, "GET", next).
		Return(`{"result":{"elements":[{"id":"SV_2"}],"nextPage":null}}`, nil).Once()

	surveys, err := newService(f).ListLibrarySurveys(context.Background(), "UR_1")

	require.NoError(t, err)
	assert.Len(t, surveys, 2)
	f.AssertExpectations(t)
}
