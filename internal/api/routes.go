// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"log/slog"

	"github.com/fault-logbook/backend/internal/cascade"
	"github.com/fault-logbook/backend/internal/recordlog"
	"github.com/fault-logbook/backend/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Index      *cascade.Index
	Forms      *session.Manager
	Log        *recordlog.Log
	Exporter   recordlog.Exporter
	ExportPath string
	Version    string
	Logger     *slog.Logger
}

// Handlers holds all handler instances
type Handlers struct {
	Health  HealthHandler
	Cascade CascadeHandler
	Form    FormHandler
	Record  RecordHandler
	Socket  FormSocketHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(deps.Version, deps.Index, deps.Log),
		Cascade: NewCascadeHandler(deps.Index),
		Form:    NewFormHandler(deps.Forms, deps.Log),
		Record:  NewRecordHandler(deps.Log, deps.Exporter, deps.ExportPath, deps.Logger),
		Socket:  NewFormSocketHandler(deps.Forms, deps.Logger),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// Cascade lookups
	cascadeGroup := apiGroup.Group("/cascade")
	cascadeGroup.GET("/lines", handlers.Cascade.HandleLines)
	cascadeGroup.GET("/areas", handlers.Cascade.HandleAreas)
	cascadeGroup.GET("/types", handlers.Cascade.HandleEquipmentTypes)
	cascadeGroup.GET("/equipment", handlers.Cascade.HandleEquipment)

	// Form sessions
	formGroup := apiGroup.Group("/forms")
	formGroup.POST("", handlers.Form.HandleCreateForm)
	formGroup.GET("/:id", handlers.Form.HandleGetForm)
	formGroup.DELETE("/:id", handlers.Form.HandleDeleteForm)
	formGroup.POST("/:id/select", handlers.Form.HandleSelect)
	formGroup.POST("/:id/query", handlers.Form.HandleQuery)
	formGroup.POST("/:id/reset", handlers.Form.HandleReset)
	formGroup.POST("/:id/save", handlers.Form.HandleSave)
	formGroup.GET("/:id/ws", handlers.Socket.HandleFormSocket)

	// Saved records
	recordGroup := apiGroup.Group("/records")
	recordGroup.GET("", handlers.Record.HandleListRecords)
	recordGroup.GET("/msgpack", handlers.Record.HandleListRecordsMsgpack)
	recordGroup.POST("/export", handlers.Record.HandleExport)
	recordGroup.DELETE("", handlers.Record.HandleClear)
}

// RegisterMetrics exposes the prometheus registry at /metrics
func RegisterMetrics(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo) {
	// Use custom error handler
	e.HTTPErrorHandler = ErrorHandler
}
