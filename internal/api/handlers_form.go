// handlers_form.go - Form session and selection handlers
package api

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/fault-logbook/backend/internal/metrics"
	"github.com/fault-logbook/backend/internal/models"
	"github.com/fault-logbook/backend/internal/recordlog"
	"github.com/fault-logbook/backend/internal/selection"
	"github.com/fault-logbook/backend/internal/session"
	"github.com/labstack/echo/v4"
)

// FormHandlerImpl implements the FormHandler interface
type FormHandlerImpl struct {
	forms *session.Manager
	log   *recordlog.Log
}

// NewFormHandler creates a new form handler
func NewFormHandler(forms *session.Manager, log *recordlog.Log) FormHandler {
	return &FormHandlerImpl{forms: forms, log: log}
}

type selectRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type queryRequest struct {
	Field string `json:"field"`
	Text  string `json:"text"`
}

type saveResponse struct {
	Record models.LogRecord `json:"record"`
	Rows   int              `json:"rows"`
	Form   models.FormView  `json:"form"`
}

func (h *FormHandlerImpl) form(c echo.Context) (*session.Form, error) {
	id := c.Param("id")
	form, err := h.forms.Get(id)
	if err != nil {
		return nil, NewNotFoundError("form", id)
	}
	return form, nil
}

// HandleCreateForm opens a new form with every field unset
func (h *FormHandlerImpl) HandleCreateForm(c echo.Context) error {
	form := h.forms.Create()
	metrics.OpenForms.Set(float64(h.forms.Len()))
	return c.JSON(http.StatusCreated, form.View())
}

// HandleGetForm returns the current view of a form
func (h *FormHandlerImpl) HandleGetForm(c echo.Context) error {
	form, err := h.form(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, form.View())
}

// HandleDeleteForm closes a form
func (h *FormHandlerImpl) HandleDeleteForm(c echo.Context) error {
	id := c.Param("id")
	if err := h.forms.Delete(id); err != nil {
		return NewNotFoundError("form", id)
	}
	metrics.OpenForms.Set(float64(h.forms.Len()))
	return c.NoContent(http.StatusNoContent)
}

// HandleSelect sets one selection field and returns the updated view
func (h *FormHandlerImpl) HandleSelect(c echo.Context) error {
	var req selectRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	return h.apply(c, func(m *selection.Machine) error {
		return m.Select(models.Field(req.Field), req.Value)
	})
}

// HandleQuery updates the live filter text of a searchable field
func (h *FormHandlerImpl) HandleQuery(c echo.Context) error {
	var req queryRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	return h.apply(c, func(m *selection.Machine) error {
		return m.SetQuery(models.Field(req.Field), req.Text)
	})
}

// HandleReset returns every field of the form to unset
func (h *FormHandlerImpl) HandleReset(c echo.Context) error {
	return h.apply(c, func(m *selection.Machine) error {
		m.Reset()
		return nil
	})
}

func (h *FormHandlerImpl) apply(c echo.Context, fn func(m *selection.Machine) error) error {
	form, err := h.form(c)
	if err != nil {
		return err
	}
	if err := form.Do(fn); err != nil {
		if errors.Is(err, models.ErrUnknownField) {
			return NewBadRequestError("unknown field", err)
		}
		return NewInternalError("failed to update form", err)
	}
	return c.JSON(http.StatusOK, form.View())
}

// HandleSave validates the form, appends the record and resets the form
func (h *FormHandlerImpl) HandleSave(c echo.Context) error {
	form, err := h.form(c)
	if err != nil {
		return err
	}

	var text models.FreeText
	if err := c.Bind(&text); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	rec, err := form.Save(text, h.log)
	if err != nil {
		var verr *selection.ValidationError
		if errors.As(err, &verr) {
			metrics.ValidationRejections.WithLabelValues(verr.Key).Inc()
			return NewValidationError(verr)
		}
		return NewInternalError("failed to save record", err)
	}
	metrics.RecordsSaved.Inc()

	return c.JSON(http.StatusCreated, saveResponse{
		Record: rec,
		Rows:   h.log.Len(),
		Form:   form.View(),
	})
}
