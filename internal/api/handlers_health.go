// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/fault-logbook/backend/internal/cascade"
	"github.com/fault-logbook/backend/internal/recordlog"
	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	index   *cascade.Index
	log     *recordlog.Log
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, index *cascade.Index, log *recordlog.Log) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		index:   index,
		log:     log,
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"lines":   h.index.Len(),
		"records": h.log.Len(),
	})
}
