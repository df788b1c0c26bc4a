package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_calendar/internal/controller/render"
	"github.com/Freeeeeet/slot_calendar/internal/model"
	"github.com/Freeeeeet/slot_calendar/internal/service"
)

const (
	msgEditCreated   = "Slot exception (edit) created"
	msgDeleteCreated = "Slot exception (delete) created"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.calendar.Ping(r.Context()); err != nil {
		s.logger.Warn("Health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

// GET /slots?week=YYYY-MM-DD
func (s *Server) handleGetWeek(w http.ResponseWriter, r *http.Request) {
	week := r.URL.Query().Get("week")
	if week == "" {
		s.handleError(w, r, fmt.Errorf("%w: week query param required", service.ErrInvalidInput))
		return
	}

	resolved, err := s.calendar.ResolveWeek(r.Context(), week)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resolved, s.logger)
}

// GET /slots/recurring
func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	slots, err := s.calendar.ListRecurringSlots(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, slots, s.logger)
}

// POST /slots
func (s *Server) handleCreateSlot(w http.ResponseWriter, r *http.Request) {
	var req CreateSlotRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	slot, err := s.calendar.CreateRecurringSlot(r.Context(), *req.DayOfWeek, req.StartTime, req.EndTime)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, slot, s.logger)
}

// PATCH /slots/{id}
func (s *Server) handleEditOccurrence(w http.ResponseWriter, r *http.Request) {
	slotID, err := slotIDParam(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var req EditOccurrenceRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	if err := s.calendar.EditOccurrence(r.Context(), slotID, req.Date, req.NewStartTime, req.NewEndTime); err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: msgEditCreated}, s.logger)
}

// DELETE /slots/{id}?date=YYYY-MM-DD
func (s *Server) handleDeleteOccurrence(w http.ResponseWriter, r *http.Request) {
	slotID, err := slotIDParam(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	req := DeleteOccurrenceRequest{Date: r.URL.Query().Get("date")}
	if err := s.validator.Validate(req); err != nil {
		s.handleError(w, r, err)
		return
	}

	if err := s.calendar.DeleteOccurrence(r.Context(), slotID, req.Date); err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: msgDeleteCreated}, s.logger)
}

// GET /slots/week.ics?week=YYYY-MM-DD, без week берётся текущая неделя
func (s *Server) handleWeekICS(w http.ResponseWriter, r *http.Request) {
	resolved, err := s.resolveRequestedWeek(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	body, err := render.WeekICS(resolved, s.now())
	if err != nil {
		s.handleError(w, r, fmt.Errorf("render ics: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="week-%s.ics"`, resolved.WeekStart))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		s.logger.Warn("Failed to write ics response", zap.Error(err))
	}
}

// GET /slots/week.png?week=YYYY-MM-DD, без week берётся текущая неделя
func (s *Server) handleWeekImage(w http.ResponseWriter, r *http.Request) {
	resolved, err := s.resolveRequestedWeek(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	img, err := render.WeekImage(resolved, s.now())
	if err != nil {
		s.handleError(w, r, fmt.Errorf("render week image: %w", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img); err != nil {
		s.logger.Warn("Failed to write image response", zap.Error(err))
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Not Found"}, s.logger)
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method Not Allowed"}, s.logger)
}

func (s *Server) resolveRequestedWeek(r *http.Request) (*model.ResolvedWeek, error) {
	week := r.URL.Query().Get("week")
	if week == "" {
		return s.calendar.ResolveWeekOf(r.Context(), model.NormalizeDate(s.now()))
	}
	return s.calendar.ResolveWeek(r.Context(), week)
}

func slotIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: slot id must be a positive integer", service.ErrInvalidInput)
	}
	return id, nil
}
