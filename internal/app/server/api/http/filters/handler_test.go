package filters

import (
	"context"
	"net/http"
	"testing"
	"time"

	"goqualtrics/internal/domain/filter"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Save(ctx context.Context, name string, spec filter.Spec) (*filter.Saved, error) {
	args := m.Called(ctx, name, spec)
	if fn, ok := args.Get(0).(func(string, filter.Spec) *filter.Saved); ok {
		return fn(name, spec), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filter.Saved), args.Error(1)
}

func (m *MockService) Get(ctx context.Context, name string) (*filter.Saved, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filter.Saved), args.Error(1)
}

func (m *MockService) List(ctx context.Context) ([]*filter.Saved, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*filter.Saved), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	return se.GetStatus()
}

func TestHandler_create(t *testing.T) {
	tests := []struct {
		name       string
		body       createRequest
		saveErr    error
		wantStatus int
	}{
		{
			name: "text filter",
			body: createRequest{Name: "reds", Kind: filter.KindText, Text: map[string][]string{"Q1": {"red"}}},
		},
		{
			name: "date filter",
			body: createRequest{Name: "early", Kind: filter.KindDate,
				Date: map[string][]string{"RecordedDate": {"2021-03-01 00:00:00", "before"}}},
		},
		{
			name: "date tuple of wrong length",
			body: createRequest{Name: "bad", Kind: filter.KindDate,
				Date: map[string][]string{"RecordedDate": {"2021-03-01 00:00:00"}}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "name taken",
			body:       createRequest{Name: "reds", Kind: filter.KindText, Text: map[string][]string{"Q1": {"red"}}},
			saveErr:    filter.ErrFilterExists,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			svc := new(MockService)
			svc.On("Save", mock.Anything, tt.body.Name, mock.AnythingOfType("filter.Spec")).
				Return(func(name string, spec filter.Spec) *filter.Saved {
					if tt.saveErr != nil {
						return nil
					}
					return &filter.Saved{ID: uuid.New(), Name: name, Spec: spec, CreatedAt: time.Now()}
				}, tt.saveErr).Maybe()
			h := NewHandler(svc, slog.Default(), huma.Middlewares{})

			// Act
			out, err := h.create(context.Background(), &createInput{Body: tt.body})

			// Assert
			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.body.Name, out.Body.Name)
			assert.Equal(t, tt.body.Kind, out.Body.Kind)
			if tt.body.Kind == filter.KindDate {
				assert.Equal(t, "2021-03-01 00:00:00", out.Body.Date["RecordedDate"].Reference)
				assert.Equal(t, filter.ModeBefore, out.Body.Date["RecordedDate"].Mode)
			}
		})
	}
}

func TestHandler_findAndDelete(t *testing.T) {
	svc := new(MockService)
	svc.On("Get", mock.Anything, "missing").Return(nil, filter.ErrFilterNotFound).Once()
	svc.On("Delete", mock.Anything, "reds").Return(nil).Once()
	h := NewHandler(svc, slog.Default(), huma.Middlewares{})

	_, err := h.find(context.Background(), &nameInput{Name: "missing"})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	out, err := h.delete(context.Background(), &nameInput{Name: "reds"})
	require.NoError(t, err)
	assert.Equal(t, "Ok", out.Body.Status)
	svc.AssertExpectations(t)
}

func TestHandler_list(t *testing.T) {
	svc := new(MockService)
	svc.On("List", mock.Anything).Return([]*filter.Saved{
		{ID: uuid.New(), Name: "reds", Spec: filter.TextSpec(map[string][]string{"Q1": {"red"}})},
	}, nil).Once()
	h := NewHandler(svc, slog.Default(), huma.Middlewares{})

	out, err := h.list(context.Background(), nil)

	require.NoError(t, err)
	require.Equal(t, 1, out.Body.Count)
	assert.Equal(t, []string{"red"}, out.Body.Filters[0].Text["Q1"])
}
