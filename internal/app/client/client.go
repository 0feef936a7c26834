package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel"
	"golang.org/x/exp/slog"

	"goqualtrics/internal/app/client/config"
	"goqualtrics/internal/app/client/crypto"
	"goqualtrics/internal/domain/directory"
	"goqualtrics/internal/domain/export"
	"goqualtrics/internal/domain/filter"
	"goqualtrics/internal/domain/pagination"
	"goqualtrics/internal/domain/response"
	"goqualtrics/internal/domain/session"
	"goqualtrics/internal/domain/survey"
	"goqualtrics/internal/infrastructure/migration"
	"goqualtrics/internal/infrastructure/storage/postgres"
	"goqualtrics/internal/infrastructure/storage/sqlite"
)

// App собирает все компоненты клиента вокруг одной сессии
type App struct {
	config     *config.Config
	log        *slog.Logger
	vault      *crypto.Vault
	httpClient *httpClient
	pager      *pagination.Paginator
	directory  *directory.Service
	exports    *export.Service
	filters    *filter.Service
	history    response.History
	closers    []func() error
	pingers    []func(context.Context) error
}

// SurveyOptions - параметры выгрузки для конкретной команды
type SurveyOptions struct {
	OutputDir  string
	Options    export.Options
	HeaderRows *int
	OnProgress func(export.Job)
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	app := &App{
		config: cfg,
		log:    log,
		vault:  crypto.NewVault(cfg.TokenPath),
	}

	sess, err := app.loadSession()
	if err != nil {
		log.Debug("Сессия не загружена", "error", err)
	}

	app.httpClient = NewHTTPClient(sess, cfg.HTTPTimeout, log)
	app.pager = pagination.New(app.httpClient, cfg.SettleDelay, log)
	app.directory = directory.NewService(app.httpClient, app.pager, log)
	app.exports = export.NewService(app.httpClient, log, export.PollPolicy{
		Interval:    cfg.PollInterval,
		MaxAttempts: cfg.PollAttempts,
		Timeout:     cfg.PollTimeout,
	}, cfg.Verbose).WithTracerProvider(otel.GetTracerProvider())

	local, err := sqlite.New(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации локального хранилища: %w", err)
	}
	app.closers = append(app.closers, local.Close)
	app.pingers = append(app.pingers, local.Ping)
	app.history = sqlite.NewHistoryRepository(local)

	repo, err := app.filterRepository(ctx, local)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.filters = filter.NewService(repo, log)

	return app, nil
}

func (a *App) filterRepository(ctx context.Context, local *sqlite.Storage) (filter.Repository, error) {
	if a.config.FilterStore != "postgres" {
		return sqlite.NewFilterRepository(local), nil
	}

	mg := migration.NewMigration(a.config.MigrationsPath, a.config.DatabaseURI, nil, a.log)
	pg, err := postgres.New(ctx, a.config.DatabaseURI, mg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к postgres: %w", err)
	}
	a.closers = append(a.closers, pg.Close)
	a.pingers = append(a.pingers, pg.Ping)
	return postgres.NewFilterRepository(pg.Pool(), a.log), nil
}

// loadSession берет токен из окружения, а если его нет - из хранилища токена
func (a *App) loadSession() (*session.Session, error) {
	baseURL, token := a.config.BaseURL, a.config.Token
	if token == "" {
		stored, storedURL, err := a.vault.Load(a.config.Passphrase)
		if err != nil {
			return nil, err
		}
		token = stored
		if storedURL != "" {
			baseURL = storedURL
		}
	}
	return session.New(baseURL, token, a.config.SettleDelay, a.config.Verbose)
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// WithSignals возвращает контекст, отменяемый по SIGINT и SIGTERM
func (a *App) WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		if parent.Err() == nil {
			a.log.Info("Получен сигнал завершения")
		}
	}()
	return ctx, cancel
}

// IsAuthenticated проверяет, есть ли действующая сессия
func (a *App) IsAuthenticated() bool {
	return a.httpClient.Session() != nil
}

// Ping проверяет доступность хранилищ фильтров и журнала
func (a *App) Ping(ctx context.Context) error {
	var errs []error
	for _, ping := range a.pingers {
		if err := ping(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) Session() *session.Session {
	return a.httpClient.Session()
}

// Login проверяет токен запросом whoami и сохраняет его в зашифрованном виде
func (a *App) Login(ctx context.Context, baseURL, token string) (*directory.User, error) {
	if baseURL == "" {
		baseURL = a.config.BaseURL
	}
	sess, err := session.New(baseURL, token, a.config.SettleDelay, a.config.Verbose)
	if err != nil {
		return nil, err
	}

	prev := a.httpClient.Session()
	a.httpClient.SetSession(sess)

	user, err := a.directory.WhoAmI(ctx)
	if err != nil {
		a.httpClient.SetSession(prev)
		return nil, fmt.Errorf("токен не принят: %w", err)
	}

	if err := a.vault.Save(sess.Token, sess.BaseURL, a.config.Passphrase); err != nil {
		return nil, err
	}
	a.log.Info("Вход выполнен", "user_id", user.ID, "base_url", sess.BaseURL)
	return user, nil
}

// Logout удаляет сохраненный токен
func (a *App) Logout() error {
	a.httpClient.SetSession(nil)
	return a.vault.Clear()
}

func (a *App) Directory() *directory.Service {
	return a.directory
}

func (a *App) Exports() *export.Service {
	return a.exports
}

func (a *App) Filters() *filter.Service {
	return a.filters
}

func (a *App) History() response.History {
	return a.history
}

// Surveys создает сервис опросов с параметрами выгрузки команды
func (a *App) Surveys(opts SurveyOptions) *survey.Service {
	dir := opts.OutputDir
	if dir == "" {
		dir = a.config.ResponseDir
	}

	dec := response.NewDecoder()
	if opts.HeaderRows != nil {
		dec.HeaderRows = *opts.HeaderRows
	}

	return survey.NewService(a.directory, a.exports, a.history, a.filters, survey.Config{
		OutputDir:  dir,
		Options:    opts.Options,
		Decoder:    dec,
		OnProgress: opts.OnProgress,
	}, a.log)
}
