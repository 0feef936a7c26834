package cmd

import (
	"context"
	"fmt"
	"os"

	"goqualtrics/cmd/client/cmd/auth"
	"goqualtrics/cmd/client/cmd/directory"
	"goqualtrics/cmd/client/cmd/filters"
	"goqualtrics/cmd/client/cmd/output"
	"goqualtrics/cmd/client/cmd/responses"
	"goqualtrics/cmd/client/cmd/types"
	"goqualtrics/internal/app/client"
	"goqualtrics/internal/app/client/config"
	"goqualtrics/internal/utils/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"
)

var (
	cfgFile string
	baseURL string
	verbose bool
	debug   bool
	app     *client.App
	stop    context.CancelFunc
)

var rootCmd = &cobra.Command{
	Use:   "goqualtrics",
	Short: "goqualtrics - клиент платформы опросов",
	Long: `Клиент REST API платформы опросов: каталог пользователей и опросов,
выгрузка ответов, фильтры по ответам и датам.

Токен берется из QUALTRICS_TOKEN или сохраняется командой auth login.`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: closeApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("ошибка чтения %s: %w", cfgFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if verbose {
		cfg.Verbose = true
	}

	level := slog.LevelWarn
	switch {
	case debug:
		level = slog.LevelDebug
	case cfg.Verbose:
		level = slog.LevelInfo
	}
	log := logger.NewWithLevel(cfg.Env, level)

	app, err = client.New(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	var ctx context.Context
	ctx, stop = app.WithSignals(cmd.Context())
	cmd.SetContext(types.WithApp(ctx, app))
	return nil
}

func closeApp(_ *cobra.Command, _ []string) error {
	if stop != nil {
		stop()
	}
	if app == nil {
		return nil
	}
	return app.Close()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл (yaml, toml, json)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "базовый URL API, например https://co1.qualtrics.com/API/v3")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "печатать запросы и ход выгрузки")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "отладочный вывод")
	rootCmd.PersistentFlags().BoolVar(&output.JSON, "json", false, "вывод в формате JSON")

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(directory.SurveysCmd)
	rootCmd.AddCommand(directory.UsersCmd)
	rootCmd.AddCommand(directory.GroupsCmd)
	rootCmd.AddCommand(directory.LibrariesCmd)
	rootCmd.AddCommand(directory.MailingListsCmd)
	rootCmd.AddCommand(responses.ResponsesCmd)
	rootCmd.AddCommand(filters.FiltersCmd)
}
