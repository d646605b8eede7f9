package cdiquery

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cdi/cdi/internal/domain/extraction"
	"github.com/cdi/cdi/internal/domain/gaps"
	"github.com/cdi/cdi/internal/domain/hedis"
	"github.com/cdi/cdi/pkg/pagination"
)

type Handler struct {
	svc        *Service
	extractor  *extraction.Service
	evaluator  *hedis.Service
	analyzer   *gaps.Service
	repo       QueryRepository
	logger     zerolog.Logger
	maxQueries int
}

func NewHandler(svc *Service, extractor *extraction.Service, evaluator *hedis.Service, analyzer *gaps.Service, repo QueryRepository, logger zerolog.Logger, maxQueries int) *Handler {
	return &Handler{
		svc:        svc,
		extractor:  extractor,
		evaluator:  evaluator,
		analyzer:   analyzer,
		repo:       repo,
		logger:     logger,
		maxQueries: maxQueries,
	}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/queries/generate", h.Generate)
	api.POST("/queries/condition", h.ConditionQuery)
	api.GET("/queries", h.ListStored)
	api.GET("/queries/:id", h.GetStored)
}

// GenerateRequest runs the full pipeline over a note, or generates directly
// from a caller-provided gap bundle.
type GenerateRequest struct {
	NoteText      string       `json:"note_text,omitempty"`
	Gaps          *gaps.Result `json:"gaps,omitempty"`
	PatientAge    *int         `json:"patient_age,omitempty"`
	PatientGender string       `json:"patient_gender,omitempty"`
	MaxQueries    *int         `json:"max_queries,omitempty"`
}

func (h *Handler) Generate(c echo.Context) error {
	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	maxQueries := h.maxQueries
	if req.MaxQueries != nil {
		maxQueries = *req.MaxQueries
	}

	gapResult := req.Gaps
	if gapResult == nil {
		entities, err := h.extractor.Extract(req.NoteText, req.PatientAge, req.PatientGender, extraction.Options{})
		if err != nil {
			if errors.Is(err, extraction.ErrEmptyNote) {
				return echo.NewHTTPError(http.StatusBadRequest, "note_text or gaps is required")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		eval := h.evaluator.Evaluate(entities, req.NoteText, req.PatientAge, req.PatientGender, "", nil)
		gapResult = h.analyzer.Analyze(entities, eval)
	}

	result := h.svc.GenerateFromGaps(gapResult, maxQueries)
	h.persist(c, result.Queries)
	return c.JSON(http.StatusOK, result)
}

// ConditionQueryRequest builds one query for an explicit condition.
type ConditionQueryRequest struct {
	Condition          string   `json:"condition"`
	ClinicalIndicators []string `json:"clinical_indicators,omitempty"`
	QueryType          string   `json:"query_type,omitempty"`
}

func (h *Handler) ConditionQuery(c echo.Context) error {
	var req ConditionQueryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Condition == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "condition is required")
	}
	q := h.svc.GenerateConditionQuery(req.Condition, req.ClinicalIndicators, QueryType(req.QueryType))
	h.persist(c, []CDIQuery{q})
	return c.JSON(http.StatusOK, q)
}

// persist writes queries to the audit trail. Audit failures are logged and
// swallowed; the pipeline result is still returned to the caller.
func (h *Handler) persist(c echo.Context, queries []CDIQuery) {
	if h.repo == nil {
		return
	}
	ctx := c.Request().Context()
	for _, q := range queries {
		id, err := uuid.Parse(q.QueryID)
		if err != nil {
			id = uuid.New()
		}
		stored := &StoredQuery{
			ID:                id,
			QueryType:         string(q.QueryType),
			Priority:          string(q.Priority),
			QueryText:         q.QueryText,
			ClinicalIndicator: q.ClinicalIndicator,
			Confidence:        q.Confidence,
		}
		if err := h.repo.Create(ctx, stored); err != nil {
			h.logger.Warn().Err(err).Str("query_id", q.QueryID).Msg("failed to persist query audit record")
		}
	}
}

func (h *Handler) ListStored(c echo.Context) error {
	if h.repo == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "query audit trail not configured")
	}
	p := pagination.FromContext(c)
	queries, total, err := h.repo.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(queries, total, p.Limit, p.Offset))
}

func (h *Handler) GetStored(c echo.Context) error {
	if h.repo == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "query audit trail not configured")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	q, err := h.repo.GetByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "query not found")
	}
	return c.JSON(http.StatusOK, q)
}
