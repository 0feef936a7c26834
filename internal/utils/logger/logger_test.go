package logger

import (
	"bytes"
	"context"
	"testing"

	"goqualtrics/internal/app/server/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		debug     bool
		wantTyped bool
	}{
		{name: "local environment", env: config.EnvLocal, debug: true, wantTyped: true},
		{name: "empty environment falls back to local", env: "", debug: true, wantTyped: true},
		{name: "dev environment", env: config.EnvDev, debug: true},
		{name: "prod environment", env: config.EnvProd, debug: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.env)
			require.NotNil(t, log)

			ctx := context.Background()
			assert.Equal(t, tt.debug, log.Enabled(ctx, slog.LevelDebug))
			assert.True(t, log.Enabled(ctx, slog.LevelInfo))

			_, pretty := log.Handler().(*PrettyHandler)
			assert.Equal(t, tt.wantTyped, pretty)
		})
	}
}

func TestPrettyHandler_WritesAttrs(t *testing.T) {
	var buf bytes.Buffer
	opts := PrettyHandlerOptions{SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug}}
	log := slog.New(opts.NewPrettyHandler(&buf)).With("component", "export")

	log.Info("export finished", slog.String("survey_id", "SV_1"))

	out := buf.String()
	assert.Contains(t, out, "export finished")
	assert.Contains(t, out, `"component": "export"`)
	assert.Contains(t, out, `"survey_id": "SV_1"`)
}

func TestDiscard(t *testing.T) {
	log := Discard()

	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}

func TestNewWithLevel(t *testing.T) {
	ctx := context.Background()

	for _, env := range []string{config.EnvLocal, config.EnvDev, config.EnvProd} {
		log := NewWithLevel(env, slog.LevelWarn)

		assert.False(t, log.Enabled(ctx, slog.LevelInfo), env)
		assert.True(t, log.Enabled(ctx, slog.LevelWarn), env)
	}
}
