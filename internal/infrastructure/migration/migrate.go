package migration

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slog"

	"github.com/golang-migrate/migrate/v4"
	// Blank import required for PostgreSQL driver registration for migrations
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrator - интерфейс для самой библиотеки migrate.Migrate
type Migrator interface {
	Up() error
	Version() (version uint, dirty bool, err error)
	Close() (error, error)
}

// ErrDirty - предыдущая миграция не завершилась, схему нужно чинить вручную
var ErrDirty = errors.New("database schema is dirty")

// MigrationEngine - фабрика для создания мигратора (чтобы не лезть в ФС и БД в тестах)
type MigrationEngine func(sourceURL, databaseURL string) (Migrator, error)

type Migration struct {
	source      string
	databaseURI string
	engine      MigrationEngine
	log         *slog.Logger
	version     uint
}

// NewMigration создает миграцию схемы сохраненных фильтров.
// source - каталог или URL (file://...) с SQL файлами.
func NewMigration(source, databaseURI string, engine MigrationEngine, log *slog.Logger) *Migration {
	if engine == nil {
		engine = DefaultEngine
	}
	return &Migration{
		source:      sourceURL(source),
		databaseURI: databaseURI,
		engine:      engine,
		log:         log.With("component", "migration"),
	}
}

// DefaultEngine - реальная реализация для продакшена
func DefaultEngine(sourceURL, databaseURL string) (Migrator, error) {
	return migrate.New(sourceURL, databaseURL)
}

func sourceURL(source string) string {
	if strings.Contains(source, "://") {
		return source
	}
	return "file://" + source
}

func (mg *Migration) Up() (err error) {
	m, err := mg.engine(mg.source, mg.databaseURI)
	if err != nil {
		return err
	}
	defer func() {
		serr, dberr := m.Close()
		if serr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration source error: %v", err, serr)
			} else {
				err = serr
			}
		}
		if dberr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration database error: %v", err, dberr)
			} else {
				err = dberr
			}
		}
	}()
	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", upErr)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("%w: version %d", ErrDirty, version)
	}

	mg.version = version
	mg.log.Info("schema is up to date", "version", version, "changed", upErr == nil)
	return nil
}

// Version - версия схемы после последнего Up
func (mg *Migration) Version() uint {
	return mg.version
}
