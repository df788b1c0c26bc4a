package service

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/slot_calendar/internal/model"
	"github.com/Freeeeeet/slot_calendar/internal/repository"
)

// fakeStore хранилище в памяти. Уникальность (slot_id, date) не соблюдает,
// чтобы можно было проверить разбор дублей.
type fakeStore struct {
	mu         *sync.Mutex
	dayLock    *sync.Mutex
	slots      []*model.RecurringSlot
	exceptions []*model.SlotException
	nextID     int64

	listSlotsErr      error
	listExceptionsErr error
	insertErr         error
	lockCalls         int
}

var _ repository.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{mu: &sync.Mutex{}, dayLock: &sync.Mutex{}}
}

func (f *fakeStore) addSlot(id int64, day int, start, end string) {
	f.slots = append(f.slots, &model.RecurringSlot{ID: id, DayOfWeek: day, StartTime: start, EndTime: end})
	if id > f.nextID {
		f.nextID = id
	}
}

func (f *fakeStore) addException(e *model.SlotException) {
	f.nextID++
	e.ID = f.nextID
	f.exceptions = append(f.exceptions, e)
}

func (f *fakeStore) ListRecurringSlots(_ context.Context) ([]*model.RecurringSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listSlotsErr != nil {
		return nil, f.listSlotsErr
	}
	out := make([]*model.RecurringSlot, 0, len(f.slots))
	for _, s := range f.slots {
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeStore) CountRecurringSlots(_ context.Context, dayOfWeek int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, s := range f.slots {
		if s.DayOfWeek == dayOfWeek {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) InsertRecurringSlot(_ context.Context, slot *model.RecurringSlot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	slot.ID = f.nextID
	slot.CreatedAt = time.Now()
	copied := *slot
	f.slots = append(f.slots, &copied)
	return nil
}

func (f *fakeStore) ListExceptions(_ context.Context, from, to time.Time) ([]*model.SlotException, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listExceptionsErr != nil {
		return nil, f.listExceptionsErr
	}
	var out []*model.SlotException
	for _, e := range f.exceptions {
		if e.Date.Before(model.NormalizeDate(from)) || e.Date.After(model.NormalizeDate(to)) {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeStore) CountExceptions(_ context.Context, date time.Time, excludeSlotID int64, excludeStatus model.ExceptionStatus) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, e := range f.exceptions {
		if e.Date.Equal(model.NormalizeDate(date)) && e.SlotID != excludeSlotID && e.Status != excludeStatus {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) InsertException(_ context.Context, exception *model.SlotException) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	exception.ID = f.nextID
	copied := *exception
	f.exceptions = append(f.exceptions, &copied)
	return nil
}

func (f *fakeStore) WithinDayLock(_ context.Context, _ int, fn func(tx repository.Store) error) error {
	f.dayLock.Lock()
	defer f.dayLock.Unlock()
	f.mu.Lock()
	f.lockCalls++
	f.mu.Unlock()
	return fn(f)
}

func (f *fakeStore) Ping(_ context.Context) error {
	return nil
}

func (f *fakeStore) exceptionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.exceptions)
}

func strPtr(s string) *string {
	return &s
}
