// Package sqlite реализует хранилище календаря поверх встроенной SQLite (modernc.org/sqlite).
// Предназначено для локального запуска без PostgreSQL и для тестов.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/slot_calendar/internal/model"
	"github.com/Freeeeeet/slot_calendar/internal/repository"
	"go.uber.org/zap"
)

// querier общий интерфейс *sql.DB и *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store реализация repository.Store.
// Даты хранятся как TEXT YYYY-MM-DD, время суток как TEXT HH:MM.
type Store struct {
	db     *sql.DB // nil для хранилища, привязанного к транзакции
	q      querier
	locks  *[model.DaysInWeek]sync.Mutex
	logger *zap.Logger
}

var _ repository.Store = (*Store)(nil)

// New создаёт хранилище. db должен быть открыт через app.OpenSQLite
func New(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{
		db:     db,
		q:      db,
		locks:  new([model.DaysInWeek]sync.Mutex),
		logger: logger,
	}
}

// ListRecurringSlots получает все слоты в порядке создания
func (s *Store) ListRecurringSlots(ctx context.Context) ([]*model.RecurringSlot, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT id, day_of_week, start_time, end_time, created_at FROM slots ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list recurring slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.RecurringSlot
	for rows.Next() {
		slot := &model.RecurringSlot{}
		var createdAt string
		if err := rows.Scan(&slot.ID, &slot.DayOfWeek, &slot.StartTime, &slot.EndTime, &createdAt); err != nil {
			return nil, fmt.Errorf("scan recurring slot: %w", err)
		}
		slot.CreatedAt = parseTimestamp(createdAt)
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recurring slots: %w", err)
	}

	return slots, nil
}

// CountRecurringSlots считает слоты на день недели
func (s *Store) CountRecurringSlots(ctx context.Context, dayOfWeek int) (int, error) {
	var count int
	err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM slots WHERE day_of_week = ?`, dayOfWeek).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count recurring slots: %w", err)
	}
	return count, nil
}

// InsertRecurringSlot создаёт новый слот
func (s *Store) InsertRecurringSlot(ctx context.Context, slot *model.RecurringSlot) error {
	now := time.Now().UTC()

	res, err := s.q.ExecContext(ctx,
		`INSERT INTO slots (day_of_week, start_time, end_time, created_at) VALUES (?, ?, ?, ?)`,
		slot.DayOfWeek, slot.StartTime, slot.EndTime, formatTimestamp(now),
	)
	if err != nil {
		return fmt.Errorf("insert recurring slot: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert recurring slot: last insert id: %w", err)
	}

	slot.ID = id
	slot.CreatedAt = now

	s.logger.Debug("Recurring slot inserted",
		zap.Int64("slot_id", slot.ID),
		zap.Int("day_of_week", slot.DayOfWeek))

	return nil
}

// ListExceptions получает исключения за период включительно, упорядоченные по (date, id)
func (s *Store) ListExceptions(ctx context.Context, from, to time.Time) ([]*model.SlotException, error) {
	query := `
		SELECT id, slot_id, date, status, new_start_time, new_end_time, created_at, updated_at
		FROM slot_exceptions
		WHERE date BETWEEN ? AND ?
		ORDER BY date, id
	`

	rows, err := s.q.QueryContext(ctx, query, model.FormatDate(from), model.FormatDate(to))
	if err != nil {
		return nil, fmt.Errorf("list slot exceptions: %w", err)
	}
	defer rows.Close()

	var exceptions []*model.SlotException
	for rows.Next() {
		var (
			exception            = &model.SlotException{}
			date, status         string
			newStart, newEnd     sql.NullString
			createdAt, updatedAt string
		)
		err := rows.Scan(&exception.ID, &exception.SlotID, &date, &status, &newStart, &newEnd, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan slot exception: %w", err)
		}

		exception.Date, err = model.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("scan slot exception: %w", err)
		}
		exception.Status = model.ExceptionStatus(status)
		exception.NewStartTime = nullStringPtr(newStart)
		exception.NewEndTime = nullStringPtr(newEnd)
		exception.CreatedAt = parseTimestamp(createdAt)
		exception.UpdatedAt = parseTimestamp(updatedAt)

		exceptions = append(exceptions, exception)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slot exceptions: %w", err)
	}

	return exceptions, nil
}

// CountExceptions считает исключения на дату для других слотов, исключая указанный статус
func (s *Store) CountExceptions(ctx context.Context, date time.Time, excludeSlotID int64, excludeStatus model.ExceptionStatus) (int, error) {
	var count int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM slot_exceptions WHERE date = ? AND slot_id <> ? AND status <> ?`,
		model.FormatDate(date), excludeSlotID, string(excludeStatus),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count slot exceptions: %w", err)
	}
	return count, nil
}

// InsertException создаёт исключение или заменяет существующее для той же пары (slot_id, date)
func (s *Store) InsertException(ctx context.Context, exception *model.SlotException) error {
	now := formatTimestamp(time.Now().UTC())
	date := model.FormatDate(exception.Date)

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO slot_exceptions (slot_id, date, status, new_start_time, new_end_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (slot_id, date) DO UPDATE
		SET status = excluded.status,
		    new_start_time = excluded.new_start_time,
		    new_end_time = excluded.new_end_time,
		    updated_at = excluded.updated_at
	`, exception.SlotID, date, string(exception.Status), ptrNullString(exception.NewStartTime), ptrNullString(exception.NewEndTime), now, now)
	if err != nil {
		return fmt.Errorf("insert slot exception: %w", err)
	}

	var createdAt, updatedAt string
	err = s.q.QueryRowContext(ctx,
		`SELECT id, created_at, updated_at FROM slot_exceptions WHERE slot_id = ? AND date = ?`,
		exception.SlotID, date,
	).Scan(&exception.ID, &createdAt, &updatedAt)
	if err != nil {
		return fmt.Errorf("insert slot exception: reload: %w", err)
	}
	exception.CreatedAt = parseTimestamp(createdAt)
	exception.UpdatedAt = parseTimestamp(updatedAt)

	s.logger.Debug("Slot exception stored",
		zap.Int64("exception_id", exception.ID),
		zap.Int64("slot_id", exception.SlotID),
		zap.String("date", date),
		zap.String("status", string(exception.Status)))

	return nil
}

// WithinDayLock сериализует fn по дню недели внутри процесса и выполняет его в одной транзакции
func (s *Store) WithinDayLock(ctx context.Context, dayOfWeek int, fn func(tx repository.Store) error) error {
	if s.db == nil {
		// уже внутри транзакции
		return fn(s)
	}
	if !model.ValidDayOfWeek(dayOfWeek) {
		return fmt.Errorf("day lock: day_of_week %d out of range", dayOfWeek)
	}

	lock := &s.locks[dayOfWeek]
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	txStore := &Store{
		q:      tx,
		locks:  s.locks,
		logger: s.logger,
	}

	if err := fn(txStore); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Ping проверяет доступность базы
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}

func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func ptrNullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
