package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

func NewMigrator(db *sql.DB, logger *zap.Logger) (*Migrator, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("erro ao ler migrations: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("erro ao criar driver de migration: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar migrator: %w", err)
	}
	return &Migrator{m: m, logger: logger}, nil
}

func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("nenhuma migration pendente")
			return nil
		}
		return fmt.Errorf("migration up falhou: %w", err)
	}
	version, _, _ := m.m.Version()
	m.logger.Info("migrations aplicadas", zap.Uint("version", version))
	return nil
}

func (m *Migrator) Down() error {
	if err := m.m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down falhou: %w", err)
	}
	return nil
}
