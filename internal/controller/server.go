package controller

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_calendar/internal/config"
	"github.com/Freeeeeet/slot_calendar/internal/service"
)

// Server HTTP граница календаря: маршруты, валидация запросов и отображение ошибок
type Server struct {
	calendar  *service.CalendarService
	validator *Validator
	limiter   *KeyedRateLimiter
	router    *chi.Mux
	cfg       config.HTTPConfig
	logger    *zap.Logger

	// now подменяется в тестах
	now func() time.Time
}

func NewServer(calendar *service.CalendarService, cfg config.HTTPConfig, logger *zap.Logger) *Server {
	s := &Server{
		calendar:  calendar,
		validator: NewValidator(),
		limiter:   NewKeyedRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		router:    chi.NewRouter(),
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP реализует http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close останавливает фоновые части сервера
func (s *Server) Close() {
	s.limiter.Stop()
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RealIP)
	s.router.Use(RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.NotFound(s.handleNotFound)
	s.router.MethodNotAllowed(s.handleMethodNotAllowed)

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/slots", func(r chi.Router) {
		r.Get("/", s.handleGetWeek)
		r.Get("/recurring", s.handleListRecurring)
		r.Get("/week.ics", s.handleWeekICS)
		r.Get("/week.png", s.handleWeekImage)

		// Изменения ограничены по клиенту
		r.Group(func(r chi.Router) {
			r.Use(RateLimit(s.limiter, s.logger))
			r.Post("/", s.handleCreateSlot)
			r.Patch("/{id}", s.handleEditOccurrence)
			r.Delete("/{id}", s.handleDeleteOccurrence)
		})
	})
}
