package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_calendar/internal/model"
	"github.com/Freeeeeet/slot_calendar/internal/repository/base"
	"go.uber.org/zap"
)

// Колонки TIME отдаются как HH:MM, без секунд
const recurringSlotColumns = `id, day_of_week, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), created_at`

// RecurringSlotRepository управляет еженедельными слотами в базе данных
type RecurringSlotRepository struct {
	*base.Repository
	logger *zap.Logger
}

// NewRecurringSlotRepository создаёт новый репозиторий
func NewRecurringSlotRepository(db base.Querier, logger *zap.Logger) *RecurringSlotRepository {
	return &RecurringSlotRepository{
		Repository: base.NewRepository(db),
		logger:     logger,
	}
}

// ListRecurringSlots получает все слоты в порядке создания
func (r *RecurringSlotRepository) ListRecurringSlots(ctx context.Context) ([]*model.RecurringSlot, error) {
	query := `SELECT ` + recurringSlotColumns + ` FROM slots ORDER BY id`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list recurring slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.RecurringSlot
	for rows.Next() {
		slot := &model.RecurringSlot{}
		err := rows.Scan(
			&slot.ID,
			&slot.DayOfWeek,
			&slot.StartTime,
			&slot.EndTime,
			&slot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan recurring slot: %w", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recurring slots: %w", err)
	}

	return slots, nil
}

// CountRecurringSlots считает слоты на день недели
func (r *RecurringSlotRepository) CountRecurringSlots(ctx context.Context, dayOfWeek int) (int, error) {
	count, err := r.Count(ctx, `SELECT COUNT(*) FROM slots WHERE day_of_week = $1`, dayOfWeek)
	if err != nil {
		return 0, fmt.Errorf("count recurring slots: %w", err)
	}
	return count, nil
}

// InsertRecurringSlot создаёт новый слот
func (r *RecurringSlotRepository) InsertRecurringSlot(ctx context.Context, slot *model.RecurringSlot) error {
	query := `
		INSERT INTO slots (day_of_week, start_time, end_time)
		VALUES ($1, $2, $3)
		RETURNING ` + recurringSlotColumns

	err := r.QueryRow(ctx, query, slot.DayOfWeek, slot.StartTime, slot.EndTime).Scan(
		&slot.ID,
		&slot.DayOfWeek,
		&slot.StartTime,
		&slot.EndTime,
		&slot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert recurring slot: %w", err)
	}

	r.logger.Debug("Recurring slot inserted",
		zap.Int64("slot_id", slot.ID),
		zap.Int("day_of_week", slot.DayOfWeek))

	return nil
}
