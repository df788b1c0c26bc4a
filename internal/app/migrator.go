package app

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrator обёртка над goose с миграциями, встроенными в бинарник
type Migrator struct {
	db      *sql.DB
	ownsDB  bool
	dialect goose.Dialect
	dir     string
	logger  *zap.Logger
}

// NewPostgresMigrator создаёт мигратор для PostgreSQL.
// Goose работает с *sql.DB, поэтому создаём его из пула.
func NewPostgresMigrator(pool *pgxpool.Pool, logger *zap.Logger) *Migrator {
	return &Migrator{
		db:      stdlib.OpenDBFromPool(pool),
		ownsDB:  true,
		dialect: goose.DialectPostgres,
		dir:     "migrations/postgres",
		logger:  logger,
	}
}

// NewSQLiteMigrator создаёт мигратор для встроенной базы
func NewSQLiteMigrator(db *sql.DB, logger *zap.Logger) *Migrator {
	return &Migrator{
		db:      db,
		dialect: goose.DialectSQLite3,
		dir:     "migrations/sqlite",
		logger:  logger,
	}
}

func (mg *Migrator) setup() error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(zap.NewStdLog(mg.logger))

	if err := goose.SetDialect(string(mg.dialect)); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// Run применяет все pending миграции
func (mg *Migrator) Run(ctx context.Context) error {
	if err := mg.setup(); err != nil {
		return err
	}

	mg.logger.Info("Applying database migrations", zap.String("dialect", string(mg.dialect)))

	if err := goose.UpContext(ctx, mg.db, mg.dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	mg.logger.Info("Migrations applied successfully")
	return nil
}

// Version показывает текущую версию миграций
func (mg *Migrator) Version(ctx context.Context) (int64, error) {
	if err := mg.setup(); err != nil {
		return 0, err
	}

	version, err := goose.GetDBVersionContext(ctx, mg.db)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}

// Close закрывает соединение мигратора, если оно создано им самим
func (mg *Migrator) Close() error {
	// пул PostgreSQL и база SQLite управляются в main
	if mg.ownsDB && mg.db != nil {
		return mg.db.Close()
	}
	return nil
}
