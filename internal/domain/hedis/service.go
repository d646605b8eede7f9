package hedis

import (
	"github.com/cdi/cdi/internal/domain/extraction"
)

// Service evaluates the measure catalogue against an extracted entity
// bundle. Stateless; the catalogue and exclusion table are package data.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Evaluate runs every catalogued measure (or the requested subset) through
// the shared dispatcher. Per measure the order is fixed: applicability,
// then exclusion, then value — exclusion always overrides a value verdict.
func (s *Service) Evaluate(entities *extraction.ClinicalEntities, noteText string, age *int, gender, encounterType string, measureCodes []string) *Evaluation {
	ctx := newEvalContext(entities, noteText, age, gender, encounterType)

	names := make([]string, 0, len(entities.Diagnoses))
	for _, d := range entities.Diagnoses {
		names = append(names, d.Name)
	}
	exclusions := BuildExclusions(names, noteText)

	want := map[string]bool{}
	for _, code := range measureCodes {
		want[code] = true
	}

	results := make([]Result, 0, len(measureCatalog))
	met, notMet := 0, 0
	for _, m := range measureCatalog {
		if len(want) > 0 && !want[m.ID] {
			continue
		}
		r := evaluateMeasure(m, ctx, exclusions)
		switch r.Status {
		case StatusMet:
			met++
		case StatusNotMet:
			notMet++
		}
		results = append(results, r)
	}

	rate := 0.0
	if met+notMet > 0 {
		rate = float64(met) / float64(met+notMet)
	}

	return &Evaluation{
		Results:               results,
		Exclusions:            exclusions,
		OverallComplianceRate: rate,
	}
}

// evaluateMeasure is the single dispatcher for both measure kinds.
func evaluateMeasure(m Measure, ctx *EvalContext, exclusions []Exclusion) Result {
	r := Result{
		MeasureID:   m.ID,
		MeasureName: m.Name,
		Target:      m.Target,
		Confidence:  ctx.Entities.Confidence,
	}

	if !m.Applicable(ctx) {
		r.Status = StatusNotApplicable
		return r
	}
	r.Applicable = true

	if exType, ok := excludedFrom(exclusions, m.ID); ok {
		r.Status = StatusExcluded
		r.GapDescription = ""
		r.Value = "excluded: " + exType
		return r
	}

	switch {
	case m.Threshold != nil:
		outcome := m.Threshold.Evaluate(ctx)
		if outcome == nil {
			r.Status = StatusNotMet
			r.Documented = false
			r.GapDescription = "missing_value:" + m.Threshold.Field
			return r
		}
		r.Documented = true
		r.RawValue = floatPtr(outcome.Raw)
		r.Value = outcome.Display + " (" + outcome.Label + ")"
		r.MeetsTarget = boolPtr(outcome.Met)
		if outcome.Met {
			r.Status = StatusMet
			r.IsCompliant = true
		} else {
			r.Status = StatusNotMet
			r.GapDescription = "above_target:" + m.Threshold.Field + "=" + outcome.Display
		}
	case m.Event != nil:
		documented := m.Event.Documented(ctx)
		r.Documented = documented
		r.MeetsTarget = boolPtr(documented)
		if documented {
			r.Status = StatusMet
			r.IsCompliant = true
			r.Value = "documented"
		} else {
			r.Status = StatusNotMet
			r.GapDescription = "missing_event:" + m.Event.Field
		}
	default:
		// Catalogue rows always carry one variant; an empty row is a
		// programming error surfaced as not applicable.
		r.Applicable = false
		r.Status = StatusNotApplicable
	}
	return r
}

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }
