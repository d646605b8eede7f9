package cdiquery

import (
	"strings"
	"testing"

	"github.com/cdi/cdi/internal/domain/gaps"
)

func sampleGaps() *gaps.Result {
	list := []gaps.DocumentationGap{
		{
			Category:          gaps.CategoryMissingLab,
			Priority:          gaps.PriorityMedium,
			Title:             "HbA1c result",
			Description:       "Expected HbA1c result is not documented for diabetes mellitus.",
			ClinicalIndicator: "HbA1c result",
			Confidence:        0.95,
		},
		{
			Category:          gaps.CategorySpecificity,
			Priority:          gaps.PriorityCritical,
			Title:             "stage specificity",
			Description:       "The documented chronic kidney disease lacks its stage qualifier.",
			ClinicalIndicator: "chronic kidney disease",
			RevenueImpact:     "CKD stage drives N18.x specificity and HCC weight",
			Confidence:        0.95,
		},
		{
			Category:          gaps.CategoryLinkage,
			Priority:          gaps.PriorityHigh,
			Title:             "diabetic neuropathy status",
			Description:       "diabetic neuropathy status is neither documented nor ruled out for diabetes mellitus.",
			ClinicalIndicator: "diabetic neuropathy status",
			Confidence:        0.95,
		},
		{
			Category:          gaps.CategoryQualityMeasure,
			Priority:          gaps.PriorityMedium,
			Title:             "Controlling High Blood Pressure",
			Description:       "Controlling High Blood Pressure is not met (target: < 130/80 mmHg).",
			ClinicalIndicator: "above_target:blood_pressure=148/92",
			HEDISImpact:       "CBP",
			Confidence:        0.9,
		},
	}
	return &gaps.Result{Gaps: list}
}

func TestGenerateFromGaps_PriorityOrdering(t *testing.T) {
	svc := NewService()

	result := svc.GenerateFromGaps(sampleGaps(), 10)

	if len(result.Queries) != 4 {
		t.Fatalf("expected 4 queries, got %d", len(result.Queries))
	}
	if result.Queries[0].Priority != PriorityUrgent {
		t.Errorf("first query priority = %q, want urgent", result.Queries[0].Priority)
	}
	if result.Queries[1].Priority != PriorityHigh {
		t.Errorf("second query priority = %q, want high", result.Queries[1].Priority)
	}
	for _, q := range result.Queries[2:] {
		if q.Priority != PriorityRoutine {
			t.Errorf("trailing query priority = %q, want routine", q.Priority)
		}
	}
}

func TestGenerateFromGaps_Truncation(t *testing.T) {
	svc := NewService()

	result := svc.GenerateFromGaps(sampleGaps(), 2)

	if len(result.Queries) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(result.Queries))
	}
	// Truncation keeps the urgent and high entries.
	if result.Queries[0].Priority != PriorityUrgent || result.Queries[1].Priority != PriorityHigh {
		t.Errorf("truncation kept %q/%q, want urgent/high",
			result.Queries[0].Priority, result.Queries[1].Priority)
	}
}

func TestGenerateFromGaps_ZeroMaxQueries(t *testing.T) {
	svc := NewService()

	for _, max := range []int{0, -3} {
		result := svc.GenerateFromGaps(sampleGaps(), max)
		if len(result.Queries) != 0 {
			t.Errorf("maxQueries=%d should yield no queries, got %d", max, len(result.Queries))
		}
		if result.Summary.TotalQueries != 0 {
			t.Errorf("summary total = %d, want 0", result.Summary.TotalQueries)
		}
	}
}

func TestGenerateFromGaps_NilAndEmpty(t *testing.T) {
	svc := NewService()

	if result := svc.GenerateFromGaps(nil, 5); len(result.Queries) != 0 {
		t.Error("nil gap bundle should yield no queries")
	}
	if result := svc.GenerateFromGaps(&gaps.Result{}, 5); len(result.Queries) != 0 {
		t.Error("empty gap bundle should yield no queries")
	}
}

func TestGenerateFromGaps_Deterministic(t *testing.T) {
	svc := NewService()

	first := svc.GenerateFromGaps(sampleGaps(), 10)
	second := svc.GenerateFromGaps(sampleGaps(), 10)

	for i := range first.Queries {
		if first.Queries[i].QueryID != second.Queries[i].QueryID {
			t.Errorf("query %d ID changed between runs", i)
		}
		if first.Queries[i].QueryText != second.Queries[i].QueryText {
			t.Errorf("query %d text changed between runs", i)
		}
	}
}

func TestGenerateFromGaps_NonLeading(t *testing.T) {
	svc := NewService()

	result := svc.GenerateFromGaps(sampleGaps(), 10)

	for _, q := range result.Queries {
		for _, dx := range []string{"chronic kidney disease", "diabetic neuropathy", "diabetes"} {
			if AssertsDiagnosis(q.QueryText, dx) {
				t.Errorf("query text asserts %q as fact: %s", dx, q.QueryText)
			}
		}
		if len(q.PotentialDiagnoses) != 0 {
			t.Errorf("gap-derived query must not name potential diagnoses, got %v", q.PotentialDiagnoses)
		}
	}
}

func TestGenerateFromGaps_MachineIndicatorUsesTitle(t *testing.T) {
	svc := NewService()

	result := svc.GenerateFromGaps(sampleGaps(), 10)

	var measureQuery *CDIQuery
	for i := range result.Queries {
		if result.Queries[i].ClinicalIndicator == "above_target:blood_pressure=148/92" {
			measureQuery = &result.Queries[i]
		}
	}
	if measureQuery == nil {
		t.Fatal("expected the quality measure query")
	}
	if strings.Contains(measureQuery.QueryText, "above_target") {
		t.Errorf("query text leaks machine indicator: %s", measureQuery.QueryText)
	}
	if !strings.Contains(measureQuery.QueryText, "Controlling High Blood Pressure") {
		t.Errorf("query text should use the measure name: %s", measureQuery.QueryText)
	}
}

func TestGenerateFromGaps_TypeMapping(t *testing.T) {
	svc := NewService()

	result := svc.GenerateFromGaps(sampleGaps(), 10)

	byIndicator := make(map[string]CDIQuery)
	for _, q := range result.Queries {
		byIndicator[q.ClinicalIndicator] = q
	}

	if q := byIndicator["chronic kidney disease"]; q.QueryType != TypeMultipleChoice {
		t.Errorf("specificity gap type = %q, want multiple_choice", q.QueryType)
	}
	if q := byIndicator["HbA1c result"]; q.QueryType != TypeVerification {
		t.Errorf("missing lab gap type = %q, want verification", q.QueryType)
	}
	if q := byIndicator["diabetic neuropathy status"]; q.QueryType != TypeOpenEnded {
		t.Errorf("linkage gap type = %q, want open_ended", q.QueryType)
	}
}

func TestGenerateFromGaps_Evidence(t *testing.T) {
	svc := NewService()

	result := svc.GenerateFromGaps(sampleGaps(), 10)

	for _, q := range result.Queries {
		if q.ClinicalIndicator != "chronic kidney disease" {
			continue
		}
		joined := strings.Join(q.SupportingEvidence, " | ")
		if !strings.Contains(joined, "lacks its stage qualifier") {
			t.Errorf("evidence missing gap description: %v", q.SupportingEvidence)
		}
		if !strings.Contains(joined, "HCC weight") {
			t.Errorf("evidence missing revenue impact: %v", q.SupportingEvidence)
		}
	}
}

func TestGenerateConditionQuery(t *testing.T) {
	svc := NewService()

	indicators := []string{"BMI 32", "HbA1c 8.5%", "polyuria"}
	q := svc.GenerateConditionQuery("metabolic syndrome", indicators, TypeMultipleChoice)

	if q.QueryType != TypeMultipleChoice {
		t.Errorf("type = %q, want multiple_choice", q.QueryType)
	}
	if AssertsDiagnosis(q.QueryText, "metabolic syndrome") {
		t.Errorf("condition query asserts the diagnosis: %s", q.QueryText)
	}
	if !strings.Contains(q.QueryText, "ruled out") {
		t.Error("multiple choice query must offer a ruled-out option")
	}
	if !strings.Contains(q.QueryText, "unable to determine") {
		t.Error("multiple choice query must offer an unable-to-determine option")
	}
	for _, ind := range indicators {
		if !strings.Contains(q.QueryText, ind) {
			t.Errorf("query text missing indicator %q", ind)
		}
	}
	if len(q.PotentialDiagnoses) != 1 || q.PotentialDiagnoses[0] != "metabolic syndrome" {
		t.Errorf("potential diagnoses = %v", q.PotentialDiagnoses)
	}
}

func TestGenerateConditionQuery_DefaultsAndDeterminism(t *testing.T) {
	svc := NewService()

	q := svc.GenerateConditionQuery("sepsis", nil, "")
	if q.QueryType != TypeOpenEnded {
		t.Errorf("empty type should default to open_ended, got %q", q.QueryType)
	}
	if !strings.Contains(q.QueryText, "the findings documented in this note") {
		t.Errorf("no indicators should fall back to generic phrasing: %s", q.QueryText)
	}

	again := svc.GenerateConditionQuery("sepsis", nil, "")
	if q.QueryID != again.QueryID {
		t.Error("condition query ID must be deterministic")
	}

	other := svc.GenerateConditionQuery("pneumonia", nil, "")
	if q.QueryID == other.QueryID {
		t.Error("different conditions must get different IDs")
	}
}

func TestAssertsDiagnosis(t *testing.T) {
	tests := []struct {
		text string
		dx   string
		want bool
	}{
		{"The patient has sepsis and requires treatment", "sepsis", true},
		{"Patient was diagnosed with sepsis on admission", "sepsis", true},
		{"We confirmed sepsis yesterday", "sepsis", true},
		{"Is an associated condition such as sepsis present, ruled out, or unable to be determined?", "sepsis", false},
		{"(a) sepsis — present, (b) sepsis — ruled out", "sepsis", false},
		{"Please clarify the condition these findings represent", "sepsis", false},
	}

	for _, tt := range tests {
		if got := AssertsDiagnosis(tt.text, tt.dx); got != tt.want {
			t.Errorf("AssertsDiagnosis(%q, %q) = %v, want %v", tt.text, tt.dx, got, tt.want)
		}
	}
}

func TestSummary(t *testing.T) {
	svc := NewService()

	result := svc.GenerateFromGaps(sampleGaps(), 10)

	if result.Summary.TotalQueries != len(result.Queries) {
		t.Errorf("summary total = %d, want %d", result.Summary.TotalQueries, len(result.Queries))
	}
	if result.Summary.UrgentCount != 1 {
		t.Errorf("urgent count = %d, want 1", result.Summary.UrgentCount)
	}
	typeTotal := 0
	for _, n := range result.Summary.ByType {
		typeTotal += n
	}
	if typeTotal != len(result.Queries) {
		t.Errorf("by_type sums to %d, want %d", typeTotal, len(result.Queries))
	}
}
