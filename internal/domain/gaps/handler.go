package gaps

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cdi/cdi/internal/domain/extraction"
	"github.com/cdi/cdi/internal/domain/hedis"
)

type Handler struct {
	svc       *Service
	extractor *extraction.Service
	evaluator *hedis.Service
}

func NewHandler(svc *Service, extractor *extraction.Service, evaluator *hedis.Service) *Handler {
	return &Handler{svc: svc, extractor: extractor, evaluator: evaluator}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/gaps/analyze", h.Analyze)
}

type AnalyzeRequest struct {
	NoteText      string                       `json:"note_text,omitempty"`
	Entities      *extraction.ClinicalEntities `json:"entities,omitempty"`
	PatientAge    *int                         `json:"patient_age,omitempty"`
	PatientGender string                       `json:"patient_gender,omitempty"`
}

func (h *Handler) Analyze(c echo.Context) error {
	var req AnalyzeRequest
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

	eval := h.evaluator.Evaluate(entities, req.NoteText, req.PatientAge, req.PatientGender, "", nil)
	result := h.svc.Analyze(entities, eval)
	return c.JSON(http.StatusOK, result)
}
