package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Пространство ключей advisory-блокировок календаря (первый аргумент pg_advisory_xact_lock)
const dayLockNamespace int32 = 0x534c4f54

// PostgresStore реализация Store поверх PostgreSQL
type PostgresStore struct {
	*RecurringSlotRepository
	*SlotExceptionRepository

	pool   *pgxpool.Pool // nil для хранилища, привязанного к транзакции
	logger *zap.Logger
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore создаёт хранилище на пуле соединений
func NewPostgresStore(pool *pgxpool.Pool, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{
		RecurringSlotRepository: NewRecurringSlotRepository(pool, logger),
		SlotExceptionRepository: NewSlotExceptionRepository(pool, logger),
		pool:                    pool,
		logger:                  logger,
	}
}

// WithinDayLock открывает транзакцию и берёт advisory-блокировку на день недели.
// Блокировка снимается при commit/rollback.
func (s *PostgresStore) WithinDayLock(ctx context.Context, dayOfWeek int, fn func(tx Store) error) error {
	if s.pool == nil {
		// уже внутри транзакции
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, dayLockNamespace, int32(dayOfWeek)); err != nil {
		return fmt.Errorf("acquire day lock: %w", err)
	}

	txStore := &PostgresStore{
		RecurringSlotRepository: NewRecurringSlotRepository(tx, s.logger),
		SlotExceptionRepository: NewSlotExceptionRepository(tx, s.logger),
		logger:                  s.logger,
	}

	if err := fn(txStore); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Ping проверяет доступность базы
func (s *PostgresStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Ping(ctx)
}
