package extraction

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/extract", h.Extract)
}

// ExtractRequest is the adapter-facing request shape.
type ExtractRequest struct {
	NoteText      string   `json:"note_text"`
	PatientAge    *int     `json:"patient_age,omitempty"`
	PatientGender string   `json:"patient_gender,omitempty"`
	Categories    []string `json:"categories,omitempty"`
}

func (h *Handler) Extract(c echo.Context) error {
	var req ExtractRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	entities, err := h.svc.Extract(req.NoteText, req.PatientAge, req.PatientGender, Options{Categories: req.Categories})
	if err != nil {
		if errors.Is(err, ErrEmptyNote) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entities)
}
