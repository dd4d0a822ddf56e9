// handlers_records.go - Saved record preview, export and clear handlers
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fault-logbook/backend/internal/metrics"
	"github.com/fault-logbook/backend/internal/models"
	"github.com/fault-logbook/backend/internal/recordlog"
	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// RecordHandlerImpl implements the RecordHandler interface
type RecordHandlerImpl struct {
	log        *recordlog.Log
	exporter   recordlog.Exporter
	exportPath string
	logger     *slog.Logger
}

// NewRecordHandler creates a new record handler. exportPath is used when an
// export request does not name a destination.
func NewRecordHandler(log *recordlog.Log, exporter recordlog.Exporter, exportPath string, logger *slog.Logger) RecordHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordHandlerImpl{
		log:        log,
		exporter:   exporter,
		exportPath: exportPath,
		logger:     logger,
	}
}

type recordsResponse struct {
	Columns []string           `json:"columns" msgpack:"columns"`
	Records []models.LogRecord `json:"records" msgpack:"records"`
	Total   int                `json:"total" msgpack:"total"`
	Status  string             `json:"status" msgpack:"status"`
}

type exportRequest struct {
	Path string `json:"path"`
}

type statusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Rows   int    `json:"rows"`
}

func (h *RecordHandlerImpl) preview() recordsResponse {
	records := h.log.All()
	columns := make([]string, len(models.LogHeader))
	for i, name := range models.LogHeader {
		columns[i] = strings.ReplaceAll(name, "_", " ")
	}
	status := fmt.Sprintf("Preview (%d rows)", len(records))
	if len(records) == 0 {
		status = "No entries to preview"
	}
	return recordsResponse{
		Columns: columns,
		Records: records,
		Total:   len(records),
		Status:  status,
	}
}

// HandleListRecords returns all saved records in save order
func (h *RecordHandlerImpl) HandleListRecords(c echo.Context) error {
	return c.JSON(http.StatusOK, h.preview())
}

// HandleListRecordsMsgpack returns saved records encoded as msgpack
func (h *RecordHandlerImpl) HandleListRecordsMsgpack(c echo.Context) error {
	data, err := msgpack.Marshal(h.preview())
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleExport writes all records to a spreadsheet and clears the log only
// when the write succeeded
func (h *RecordHandlerImpl) HandleExport(c echo.Context) error {
	var req exportRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return NewBadRequestError("invalid JSON body", err)
		}
	}
	dest := strings.TrimSpace(req.Path)
	if dest == "" {
		dest = h.exportPath
	}

	result, err := h.log.ExportAndClear(h.exporter, dest)
	switch {
	case errors.Is(err, recordlog.ErrNoRecords):
		metrics.Exports.WithLabelValues(metrics.ExportEmpty).Inc()
		return NewConflictError("No entries to export")
	case err != nil && result.Rows > 0:
		metrics.Exports.WithLabelValues(metrics.ExportOK).Inc()
		h.logger.Error("export written but daily log not cleared", "dest", dest, "error", err)
		return NewInternalError(result.Status()+", but saved entries could not be cleared", err)
	case err != nil:
		metrics.Exports.WithLabelValues(metrics.ExportFailed).Inc()
		return NewExportFailedError(err)
	}

	metrics.Exports.WithLabelValues(metrics.ExportOK).Inc()
	return c.JSON(http.StatusOK, statusResponse{
		Status: result.Status(),
		Path:   result.Path,
		Rows:   result.Rows,
	})
}

// HandleClear discards every saved record
func (h *RecordHandlerImpl) HandleClear(c echo.Context) error {
	if err := h.log.Clear(); err != nil {
		return NewInternalError("failed to clear saved entries", err)
	}
	metrics.LogClears.Inc()
	return c.JSON(http.StatusOK, statusResponse{Status: "Cleared"})
}
