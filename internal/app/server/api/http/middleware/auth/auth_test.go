package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

func TestAuth_Middleware(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantNext   bool
	}{
		{name: "api key header", headers: map[string]string{Header: "secret"}, wantStatus: http.StatusOK, wantNext: true},
		{name: "bearer token", headers: map[string]string{"Authorization": "Bearer secret"}, wantStatus: http.StatusOK, wantNext: true},
		{name: "missing", headers: nil, wantStatus: http.StatusUnauthorized},
		{name: "wrong key", headers: map[string]string{Header: "other"}, wantStatus: http.StatusUnauthorized},
		{name: "malformed bearer", headers: map[string]string{"Authorization": "Token secret"}, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			mw := New("secret", slog.Default()).Middleware()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/filters", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			ctx := humatest.NewContext(&huma.Operation{}, req, rec)
			called := false

			// Act
			mw(ctx, func(c huma.Context) {
				called = true
				c.SetStatus(http.StatusOK)
			})

			// Assert
			assert.Equal(t, tt.wantNext, called)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
