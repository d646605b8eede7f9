package gaps

import (
	"strings"

	"github.com/cdi/cdi/internal/domain/extraction"
	"github.com/cdi/cdi/internal/domain/hedis"
)

// A diagnosis below this confidence cannot produce a critical gap; the
// priority is capped one level down.
const criticalConfidenceFloor = 0.8

// Service compares an entity bundle against the per-condition documentation
// expectation table. Stateless.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Analyze walks every extracted diagnosis through the expectation table and
// folds in gaps synthesized from not-met measures when an evaluation is
// supplied. Duplicate (category, clinical_indicator) pairs are dropped,
// first occurrence wins.
func (s *Service) Analyze(entities *extraction.ClinicalEntities, eval *hedis.Evaluation) *Result {
	var gaps []DocumentationGap

	for _, dx := range entities.Diagnoses {
		for _, exp := range expectationTable {
			if !matchesCondition(dx.Name, exp.Match) {
				continue
			}
			gaps = append(gaps, expectationGaps(exp, dx, entities)...)
		}
	}

	if eval != nil {
		gaps = append(gaps, measureGaps(eval)...)
	}

	gaps = dedupe(gaps)
	return &Result{Gaps: gaps, Summary: summarize(gaps)}
}

func matchesCondition(name string, terms []string) bool {
	lower := strings.ToLower(name)
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func expectationGaps(exp expectation, dx extraction.Diagnosis, entities *extraction.ClinicalEntities) []DocumentationGap {
	var out []DocumentationGap
	add := func(category string, prio Priority, title, indicator, description, revenue string) {
		out = append(out, DocumentationGap{
			Category:          category,
			Priority:          capPriority(prio, dx.Confidence),
			Title:             title,
			Description:       description,
			ClinicalIndicator: indicator,
			SuggestedQuery:    "Please document " + title + " for the noted " + exp.Condition + ".",
			RevenueImpact:     revenue,
			Confidence:        dx.Confidence,
		})
	}

	if sp := exp.Specificity; sp != nil && !containsAny(dx.Name, sp.Satisfied) {
		add(CategorySpecificity, sp.Priority,
			sp.Axis+" specificity", exp.Condition,
			"The documented "+exp.Condition+" lacks its "+sp.Axis+" qualifier.",
			sp.RevenueImpact)
	}

	if ac := exp.Acuity; ac != nil && !containsAny(dx.Severity+" "+dx.Name, acuityTerms) {
		add(CategoryAcuity, ac.Priority,
			"acuity qualifier", exp.Condition,
			"The documented "+exp.Condition+" lacks an acute/chronic qualifier.",
			"")
	}

	// Element gaps use the missing element as their indicator, so two
	// conditions expecting the same element yield one gap after dedupe.
	for _, rule := range exp.Labs {
		if !rule.Present(&entities.Labs) {
			add(CategoryMissingLab, rule.Priority, rule.Title, rule.Title,
				"Expected "+rule.Title+" is not documented for "+exp.Condition+".", "")
		}
	}
	for _, rule := range exp.Vitals {
		if !rule.Present(&entities.Vitals) {
			add(CategoryMissingVital, rule.Priority, rule.Title, rule.Title,
				"Expected "+rule.Title+" is not documented for "+exp.Condition+".", "")
		}
	}
	for _, rule := range exp.Screenings {
		if !rule.Present(&entities.Screenings) {
			add(CategoryMissingScreening, rule.Priority, rule.Title, rule.Title,
				"Expected "+rule.Title+" is not documented for "+exp.Condition+".", "")
		}
	}
	for _, rule := range exp.Linkages {
		if !linkagePresent(entities, rule.Terms) {
			add(CategoryLinkage, rule.Priority, rule.Title, rule.Title,
				rule.Title+" is neither documented nor ruled out for "+exp.Condition+".",
				rule.RevenueImpact)
		}
	}
	return out
}

func linkagePresent(entities *extraction.ClinicalEntities, terms []string) bool {
	return entities.HasDiagnosis(terms...) || entities.HasMedication(terms...)
}

// measureGaps converts every not-met measure into a quality gap tagged with
// the measure code.
func measureGaps(eval *hedis.Evaluation) []DocumentationGap {
	var out []DocumentationGap
	for _, r := range eval.Results {
		if r.Status != hedis.StatusNotMet {
			continue
		}
		prio := PriorityMedium
		if !r.Documented {
			prio = PriorityHigh
		}
		out = append(out, DocumentationGap{
			Category:          CategoryQualityMeasure,
			Priority:          prio,
			Title:             r.MeasureName,
			Description:       r.MeasureName + " is not met (target: " + r.Target + ").",
			ClinicalIndicator: r.GapDescription,
			SuggestedQuery:    "Please address or document: " + r.Target + ".",
			HEDISImpact:       r.MeasureID,
			Confidence:        clamp01(r.Confidence),
		})
	}
	return out
}

func capPriority(p Priority, confidence float64) Priority {
	if p == PriorityCritical && confidence < criticalConfidenceFloor {
		return PriorityHigh
	}
	return p
}

func dedupe(in []DocumentationGap) []DocumentationGap {
	seen := make(map[string]bool, len(in))
	out := make([]DocumentationGap, 0, len(in))
	for _, g := range in {
		key := g.Category + "|" + g.ClinicalIndicator
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, g)
	}
	return out
}

func summarize(gaps []DocumentationGap) Summary {
	s := Summary{
		ByPriority: map[string]int{},
		ByCategory: map[string]int{},
	}
	for _, g := range gaps {
		s.ByPriority[string(g.Priority)]++
		s.ByCategory[g.Category]++
		switch g.Priority {
		case PriorityCritical:
			s.CriticalCount++
		case PriorityHigh:
			s.HighCount++
		}
	}
	return s
}

func containsAny(s string, terms []string) bool {
	lower := strings.ToLower(s)
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
