package main

import (
	"context"
	"os"

	"goqualtrics/internal/app/client"
	"goqualtrics/internal/app/server"
	"goqualtrics/internal/app/server/api"
	"goqualtrics/internal/app/server/config"
	"goqualtrics/internal/utils/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	app, err := client.New(context.Background(), cfg.Client, log)
	if err != nil {
		log.Error("Ошибка инициализации приложения", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	ctx, stop := app.WithSignals(context.Background())
	defer stop()

	if !app.IsAuthenticated() {
		log.Warn("Токен API не задан, запросы к платформе будут отклонены")
	}

	srv := server.New(cfg.Server.RunAddress, api.New(api.NewDeps(app, cfg.Server.APIKey), log), log)
	if err := srv.Run(ctx); err != nil {
		log.Error("Ошибка сервера", "error", err)
		stop()
		app.Close()
		os.Exit(1)
	}
}
