package extraction

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestExtractHandler(t *testing.T) {
	h := NewHandler(NewService())

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{
			name:     "valid note",
			body:     `{"note_text": "Type 2 diabetes on metformin. A1C 8.5%."}`,
			wantCode: http.StatusOK,
		},
		{
			name:     "empty note",
			body:     `{"note_text": ""}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed json",
			body:     `{"note_text": `,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()

			err := h.Extract(e.NewContext(req, rec))
			if tt.wantCode == http.StatusOK {
				if err != nil {
					t.Fatalf("handler error: %v", err)
				}
				var entities ClinicalEntities
				if err := json.Unmarshal(rec.Body.Bytes(), &entities); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if !entities.HasDiagnosis("type 2 diabetes") {
					t.Error("expected type 2 diabetes in extracted entities")
				}
				return
			}
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != tt.wantCode {
				t.Errorf("expected %d, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestExtractHandler_CategoryFilter(t *testing.T) {
	h := NewHandler(NewService())
	e := echo.New()

	body := `{"note_text": "Type 2 diabetes on metformin. A1C 8.5%.", "categories": ["labs"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Extract(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var entities ClinicalEntities
	if err := json.Unmarshal(rec.Body.Bytes(), &entities); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(entities.Diagnoses) != 0 {
		t.Errorf("diagnoses should be filtered out, got %d", len(entities.Diagnoses))
	}
	if entities.Labs.HbA1c == nil {
		t.Error("labs should survive the category filter")
	}
}
