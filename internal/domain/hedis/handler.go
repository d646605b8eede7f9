package hedis

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cdi/cdi/internal/domain/extraction"
)

type Handler struct {
	svc       *Service
	extractor *extraction.Service
}

func NewHandler(svc *Service, extractor *extraction.Service) *Handler {
	return &Handler{svc: svc, extractor: extractor}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/hedis/evaluate", h.Evaluate)
}

// EvaluateRequest accepts either raw note text (extracted server-side) or a
// pre-extracted entity bundle.
type EvaluateRequest struct {
	NoteText      string                       `json:"note_text,omitempty"`
	Entities      *extraction.ClinicalEntities `json:"entities,omitempty"`
	PatientAge    *int                         `json:"patient_age,omitempty"`
	PatientGender string                       `json:"patient_gender,omitempty"`
	EncounterType string                       `json:"encounter_type,omitempty"`
	Measures      []string                     `json:"measures,omitempty"`
}

func (h *Handler) Evaluate(c echo.Context) error {
	var req EvaluateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entities := req.Entities
	if entities == nil {
		var err error
		entities, err = h.extractor.Extract(req.NoteText, req.PatientAge, req.PatientGender, extraction.Options{})
		if err != nil {
			if errors.Is(err, extraction.ErrEmptyNote) {
				return echo.NewHTTPError(http.StatusBadRequest, "note_text or entities is required")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	eval := h.svc.Evaluate(entities, req.NoteText, req.PatientAge, req.PatientGender, req.EncounterType, req.Measures)
	return c.JSON(http.StatusOK, eval)
}
