// handlers_cascade.go - Direct Cascade Index lookups
package api

import (
	"net/http"

	"github.com/fault-logbook/backend/internal/cascade"
	"github.com/fault-logbook/backend/internal/filter"
	"github.com/labstack/echo/v4"
)

// CascadeHandlerImpl implements the CascadeHandler interface
type CascadeHandlerImpl struct {
	index *cascade.Index
}

// NewCascadeHandler creates a new cascade handler
func NewCascadeHandler(index *cascade.Index) CascadeHandler {
	return &CascadeHandlerImpl{index: index}
}

type optionsResponse struct {
	Options []string `json:"options"`
	Total   int      `json:"total"`
}

// respondOptions applies the optional ?q filter. Total is the unfiltered count.
func respondOptions(c echo.Context, options []string) error {
	return c.JSON(http.StatusOK, optionsResponse{
		Options: filter.Filter(options, c.QueryParam("q")),
		Total:   len(options),
	})
}

// HandleLines returns all lines
func (h *CascadeHandlerImpl) HandleLines(c echo.Context) error {
	return respondOptions(c, h.index.Lines())
}

// HandleAreas returns the areas of ?line=
func (h *CascadeHandlerImpl) HandleAreas(c echo.Context) error {
	return respondOptions(c, h.index.Areas(c.QueryParam("line")))
}

// HandleEquipmentTypes returns the equipment types of ?line=&area=
func (h *CascadeHandlerImpl) HandleEquipmentTypes(c echo.Context) error {
	return respondOptions(c, h.index.EquipmentTypes(c.QueryParam("line"), c.QueryParam("area")))
}

// HandleEquipment returns the equipment of ?line=&area=&type=
func (h *CascadeHandlerImpl) HandleEquipment(c echo.Context) error {
	return respondOptions(c, h.index.Equipment(c.QueryParam("line"), c.QueryParam("area"), c.QueryParam("type")))
}
