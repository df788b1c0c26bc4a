package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/slot_calendar/internal/model"
	"github.com/Freeeeeet/slot_calendar/internal/repository/base"
	"go.uber.org/zap"
)

const slotExceptionColumns = `id, slot_id, date, status,
	to_char(new_start_time, 'HH24:MI'), to_char(new_end_time, 'HH24:MI'), created_at, updated_at`

// SlotExceptionRepository управляет исключениями на конкретные даты
type SlotExceptionRepository struct {
	*base.Repository
	logger *zap.Logger
}

// NewSlotExceptionRepository создаёт новый репозиторий
func NewSlotExceptionRepository(db base.Querier, logger *zap.Logger) *SlotExceptionRepository {
	return &SlotExceptionRepository{
		Repository: base.NewRepository(db),
		logger:     logger,
	}
}

// ListExceptions получает исключения за период включительно
func (r *SlotExceptionRepository) ListExceptions(ctx context.Context, from, to time.Time) ([]*model.SlotException, error) {
	query := `
		SELECT ` + slotExceptionColumns + `
		FROM slot_exceptions
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, id
	`

	rows, err := r.Query(ctx, query, model.NormalizeDate(from), model.NormalizeDate(to))
	if err != nil {
		return nil, fmt.Errorf("list slot exceptions: %w", err)
	}
	defer rows.Close()

	var exceptions []*model.SlotException
	for rows.Next() {
		exception := &model.SlotException{}
		var status string
		err := rows.Scan(
			&exception.ID,
			&exception.SlotID,
			&exception.Date,
			&status,
			&exception.NewStartTime,
			&exception.NewEndTime,
			&exception.CreatedAt,
			&exception.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan slot exception: %w", err)
		}
		exception.Status = model.ExceptionStatus(status)
		exception.Date = model.NormalizeDate(exception.Date)
		exceptions = append(exceptions, exception)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slot exceptions: %w", err)
	}

	return exceptions, nil
}

// CountExceptions считает исключения на дату для других слотов, исключая указанный статус
func (r *SlotExceptionRepository) CountExceptions(ctx context.Context, date time.Time, excludeSlotID int64, excludeStatus model.ExceptionStatus) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM slot_exceptions
		WHERE date = $1 AND slot_id <> $2 AND status <> $3
	`

	count, err := r.Count(ctx, query, model.NormalizeDate(date), excludeSlotID, string(excludeStatus))
	if err != nil {
		return 0, fmt.Errorf("count slot exceptions: %w", err)
	}
	return count, nil
}

// InsertException создаёт исключение или заменяет существующее для той же пары (slot_id, date)
func (r *SlotExceptionRepository) InsertException(ctx context.Context, exception *model.SlotException) error {
	query := `
		INSERT INTO slot_exceptions (slot_id, date, status, new_start_time, new_end_time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slot_id, date) DO UPDATE
		SET status = EXCLUDED.status,
		    new_start_time = EXCLUDED.new_start_time,
		    new_end_time = EXCLUDED.new_end_time,
		    updated_at = now()
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx,
		query,
		exception.SlotID,
		model.NormalizeDate(exception.Date),
		string(exception.Status),
		exception.NewStartTime,
		exception.NewEndTime,
	).Scan(&exception.ID, &exception.CreatedAt, &exception.UpdatedAt)

	if err != nil {
		return fmt.Errorf("insert slot exception: %w", err)
	}

	r.logger.Debug("Slot exception stored",
		zap.Int64("exception_id", exception.ID),
		zap.Int64("slot_id", exception.SlotID),
		zap.String("date", model.FormatDate(exception.Date)),
		zap.String("status", string(exception.Status)))

	return nil
}
