package health

import (
	"context"
	"errors"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

type staticChecker struct {
	authenticated bool
	pingErr       error
}

func (c staticChecker) IsAuthenticated() bool {
	return c.authenticated
}

func (c staticChecker) Ping(context.Context) error {
	return c.pingErr
}

func TestHandler_healthCheck(t *testing.T) {
	tests := []struct {
		name            string
		checker         Checker
		expectedStatus  string
		expectedAuth    bool
		expectedStorage string
	}{
		{
			name:            "session configured",
			checker:         staticChecker{authenticated: true},
			expectedStatus:  "OK",
			expectedAuth:    true,
			expectedStorage: "OK",
		},
		{
			name:            "no session",
			checker:         staticChecker{},
			expectedStatus:  "DEGRADED",
			expectedStorage: "OK",
		},
		{
			name:            "storage down",
			checker:         staticChecker{authenticated: true, pingErr: errors.New("database is locked")},
			expectedStatus:  "DEGRADED",
			expectedAuth:    true,
			expectedStorage: "ERROR",
		},
		{
			name:            "no checker",
			checker:         nil,
			expectedStatus:  "DEGRADED",
			expectedStorage: "UNKNOWN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			handler := NewHandler(tt.checker, slog.Default(), huma.Middlewares{})

			// Act
			output, err := handler.healthCheck(context.Background(), &Input{})

			// Assert
			assert.NoError(t, err)
			assert.NotNil(t, output)
			assert.Equal(t, tt.expectedStatus, output.Body.Status)
			assert.Equal(t, tt.expectedAuth, output.Body.Authenticated)
			assert.Equal(t, tt.expectedStorage, output.Body.Storage)
			assert.NotEmpty(t, output.Body.Uptime)
		})
	}
}
