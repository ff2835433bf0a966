package handler

import (
	"log/slog"
	"net/http"

	"github.com/employee-registry-api/internal/metrics"
	"github.com/employee-registry-api/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// BasePath - префикс ресурса сотрудников
const BasePath = "/rest/api/employee"

// Router настраивает маршруты API
type Router struct {
	mux            chi.Router
	logger         *slog.Logger
	empHandler     *EmployeeHandler
	allowedOrigins []string
}

// NewRouter создаёт новый роутер
func NewRouter(empHandler *EmployeeHandler, logger *slog.Logger, allowedOrigins []string) *Router {
	return &Router{
		mux:            chi.NewRouter(),
		logger:         logger,
		empHandler:     empHandler,
		allowedOrigins: allowedOrigins,
	}
}

// Setup настраивает все маршруты
func (r *Router) Setup() http.Handler {
	// Применяем middleware
	r.mux.Use(middleware.RequestID)
	r.mux.Use(middleware.Recoverer(r.logger))
	r.mux.Use(middleware.Logger(r.logger))
	r.mux.Use(metrics.Instrument)
	r.mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: r.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "If-Match", middleware.RequestIDHeader},
		ExposedHeaders: []string{"ETag", middleware.RequestIDHeader},
		MaxAge:         3600,
	}))
	r.mux.Use(middleware.ContentType)

	// Регистрируем обработчики
	r.mux.Get(BasePath, r.empHandler.Get)
	r.mux.Put(BasePath, r.empHandler.Update)
	r.mux.Post(BasePath, r.empHandler.Create)
	r.mux.Delete(BasePath, r.empHandler.Delete)
	r.mux.Get(BasePath+"/list", r.empHandler.List)
	r.mux.Get(BasePath+"/page", r.empHandler.Page)
	r.mux.Get(BasePath+"/total", r.empHandler.Total)
	r.mux.Get(BasePath+"/supervisors", r.empHandler.Supervisors)
	r.mux.Get(BasePath+"/subordinates", r.empHandler.Subordinates)

	// Health check и метрики
	r.mux.Get("/health", r.empHandler.Health)
	r.mux.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.mux.NotFound(func(w http.ResponseWriter, req *http.Request) {
		r.empHandler.respondErrors(w, http.StatusNotFound, []string{"NOT_FOUND: route not found"})
	})
	r.mux.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		r.empHandler.respondErrors(w, http.StatusMethodNotAllowed, []string{"METHOD_NOT_ALLOWED: method not allowed"})
	})

	return r.mux
}
