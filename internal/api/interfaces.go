// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
)

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// CascadeHandler answers direct Line/Area/Type/Equipment lookups
type CascadeHandler interface {
	HandleLines(c echo.Context) error
	HandleAreas(c echo.Context) error
	HandleEquipmentTypes(c echo.Context) error
	HandleEquipment(c echo.Context) error
}

// FormHandler drives the selection state of open forms
type FormHandler interface {
	HandleCreateForm(c echo.Context) error
	HandleGetForm(c echo.Context) error
	HandleDeleteForm(c echo.Context) error
	HandleSelect(c echo.Context) error
	HandleQuery(c echo.Context) error
	HandleReset(c echo.Context) error
	HandleSave(c echo.Context) error
}

// RecordHandler handles the saved record log
type RecordHandler interface {
	HandleListRecords(c echo.Context) error
	HandleListRecordsMsgpack(c echo.Context) error
	HandleExport(c echo.Context) error
	HandleClear(c echo.Context) error
}

// FormSocketHandler streams form changes over a WebSocket
type FormSocketHandler interface {
	HandleFormSocket(c echo.Context) error
}
