package logger

import (
	"io"
	"os"

	"goqualtrics/internal/app/server/config"

	"golang.org/x/exp/slog"
)

// New создает логгер под окружение: local - цветной вывод, dev и prod - JSON
func New(env string) *slog.Logger {
	switch env {
	case config.EnvDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case config.EnvProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return setupPrettySlog()
	}
}

// NewWithLevel - то же, но с явным уровнем; CLI пишет в stderr, чтобы не мешать выводу
func NewWithLevel(env string, level slog.Leveler) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if env == config.EnvDev || env == config.EnvProd {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	pretty := PrettyHandlerOptions{SlogOpts: opts}
	return slog.New(pretty.NewPrettyHandler(os.Stderr))
}

// Discard возвращает логгер, который ничего не пишет
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func setupPrettySlog() *slog.Logger {
	opts := PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug},
	}
	return slog.New(opts.NewPrettyHandler(os.Stdout))
}
