package hedis

import (
	"testing"

	"github.com/cdi/cdi/internal/domain/extraction"
)

func extract(t *testing.T, note string) *extraction.ClinicalEntities {
	t.Helper()
	entities, err := extraction.NewService().Extract(note, nil, "", extraction.Options{})
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	return entities
}

func TestEvaluate_UncontrolledDiabetesAndHypertension(t *testing.T) {
	note := "65-year-old male with type 2 diabetes and hypertension. A1C 8.5%. BP 148/92."
	entities := extract(t, note)

	eval := NewService().Evaluate(entities, note, nil, "", "", nil)

	cbp := eval.ResultFor(MeasureCBP)
	if cbp == nil {
		t.Fatal("expected CBP result")
	}
	if cbp.Status != StatusNotMet {
		t.Errorf("CBP status = %q, want not_met", cbp.Status)
	}
	if !cbp.Applicable || !cbp.Documented {
		t.Error("CBP should be applicable and documented")
	}
	if cbp.Value != "148/92 (stage 2 hypertension)" {
		t.Errorf("CBP value = %q", cbp.Value)
	}
	if cbp.GapDescription != "above_target:blood_pressure=148/92" {
		t.Errorf("CBP gap = %q", cbp.GapDescription)
	}

	hba1c := eval.ResultFor(MeasureCDCHbA1c)
	if hba1c == nil {
		t.Fatal("expected CDC-H result")
	}
	if hba1c.Status != StatusNotMet {
		t.Errorf("CDC-H status = %q, want not_met", hba1c.Status)
	}
	if hba1c.RawValue == nil || *hba1c.RawValue != 8.5 {
		t.Errorf("CDC-H raw value = %v, want 8.5", hba1c.RawValue)
	}

	// No eye exam or kidney labs in the note.
	if r := eval.ResultFor(MeasureCDCEye); r == nil || r.Status != StatusNotMet {
		t.Errorf("CDC-E should be not_met, got %+v", r)
	}
	if r := eval.ResultFor(MeasureCDCNephro); r == nil || r.GapDescription != "missing_event:kidney_evaluation" {
		t.Errorf("CDC-N gap description wrong, got %+v", r)
	}

	// Male patient: BCS and CCS not applicable.
	if r := eval.ResultFor(MeasureBCS); r == nil || r.Status != StatusNotApplicable {
		t.Errorf("BCS should be not_applicable for a male patient, got %+v", r)
	}
	if r := eval.ResultFor(MeasureCCS); r == nil || r.Status != StatusNotApplicable {
		t.Errorf("CCS should be not_applicable for a male patient, got %+v", r)
	}
}

func TestEvaluate_BPReadingWithoutHypertensionDiagnosis(t *testing.T) {
	// CBP qualifies on the documented reading alone; the note never names
	// hypertension.
	note := "65-year-old male with Type 2 diabetes. A1C 8.5%. BP 148/92."
	entities := extract(t, note)
	age := 65

	eval := NewService().Evaluate(entities, note, &age, "male", "", nil)

	cbp := eval.ResultFor(MeasureCBP)
	if cbp == nil {
		t.Fatal("expected CBP result")
	}
	if !cbp.Applicable {
		t.Fatal("CBP should be applicable with a documented BP reading")
	}
	if cbp.Status != StatusNotMet {
		t.Errorf("CBP status = %q, want not_met", cbp.Status)
	}
	if cbp.Value != "148/92 (stage 2 hypertension)" {
		t.Errorf("CBP value = %q", cbp.Value)
	}
	if cbp.GapDescription != "above_target:blood_pressure=148/92" {
		t.Errorf("CBP gap = %q", cbp.GapDescription)
	}

	if r := eval.ResultFor(MeasureCDCHbA1c); r == nil || r.Status != StatusNotMet {
		t.Errorf("CDC-H should be not_met at 8.5, got %+v", r)
	}
}

func TestEvaluate_ControlledValuesMeet(t *testing.T) {
	note := "58-year-old female with type 2 diabetes and hypertension. HbA1c 6.8%. BP 124/76. " +
		"Mammogram completed. Diabetic eye exam done. eGFR 72."
	entities := extract(t, note)

	eval := NewService().Evaluate(entities, note, nil, "", "", nil)

	for _, code := range []string{MeasureCBP, MeasureCDCHbA1c, MeasureCDCEye, MeasureCDCNephro, MeasureBCS} {
		r := eval.ResultFor(code)
		if r == nil {
			t.Fatalf("expected result for %s", code)
		}
		if r.Status != StatusMet {
			t.Errorf("%s status = %q, want met", code, r.Status)
		}
		if !r.IsCompliant {
			t.Errorf("%s should be compliant", code)
		}
	}
}

func TestEvaluate_ExclusionOverridesValue(t *testing.T) {
	// Controlled values, but hospice excludes everything.
	note := "67-year-old female with hypertension, BP 118/70. Enrolled in hospice."
	entities := extract(t, note)

	eval := NewService().Evaluate(entities, note, nil, "", "", nil)

	cbp := eval.ResultFor(MeasureCBP)
	if cbp == nil {
		t.Fatal("expected CBP result")
	}
	if cbp.Status != StatusExcluded {
		t.Errorf("CBP status = %q, want excluded", cbp.Status)
	}
	if cbp.Value != "excluded: hospice" {
		t.Errorf("CBP value = %q", cbp.Value)
	}
	if cbp.GapDescription != "" {
		t.Error("excluded measures must not carry a gap description")
	}
}

func TestEvaluate_MultipleExclusionsReported(t *testing.T) {
	note := "70-year-old female with metastatic cancer, enrolled in hospice."
	entities := extract(t, note)

	eval := NewService().Evaluate(entities, note, nil, "", "", nil)

	hospice := findExclusion(eval.Exclusions, "hospice")
	adv := findExclusion(eval.Exclusions, "advanced_illness")
	if hospice == nil || !hospice.Present {
		t.Error("expected hospice exclusion present")
	}
	if adv == nil || !adv.Present {
		t.Error("expected advanced_illness exclusion present")
	}

	if r := eval.ResultFor(MeasureBCS); r == nil || r.Status != StatusExcluded {
		t.Errorf("BCS should be excluded, got %+v", r)
	}
}

func TestEvaluate_ComplianceRateIgnoresExcludedAndNA(t *testing.T) {
	// Hypertension controlled, diabetes uncontrolled; everything else either
	// not applicable or not relevant to the rate beyond its own verdict.
	note := "50-year-old male with hypertension and type 2 diabetes. BP 118/72. A1C 9.5%. " +
		"Colonoscopy completed. BMI 27.5. eGFR 80. Diabetic eye exam done. On atorvastatin."
	entities := extract(t, note)

	eval := NewService().Evaluate(entities, note, nil, "", "", nil)

	met, notMet := 0, 0
	for _, r := range eval.Results {
		switch r.Status {
		case StatusMet:
			met++
		case StatusNotMet:
			notMet++
		}
	}
	if met == 0 || notMet == 0 {
		t.Fatalf("test note should produce both met and not_met results (met=%d notMet=%d)", met, notMet)
	}

	want := float64(met) / float64(met+notMet)
	if eval.OverallComplianceRate != want {
		t.Errorf("compliance rate = %v, want %v", eval.OverallComplianceRate, want)
	}
}

func TestEvaluate_MeasureCodeSubset(t *testing.T) {
	note := "65-year-old male with hypertension. BP 150/95."
	entities := extract(t, note)

	eval := NewService().Evaluate(entities, note, nil, "", "", []string{MeasureCBP})

	if len(eval.Results) != 1 {
		t.Fatalf("expected 1 result for restricted evaluation, got %d", len(eval.Results))
	}
	if eval.Results[0].MeasureID != MeasureCBP {
		t.Errorf("result measure = %q, want CBP", eval.Results[0].MeasureID)
	}
}

func TestEvaluate_MissingValueGap(t *testing.T) {
	note := "60-year-old male with hypertension, poorly adherent to medications."
	entities := extract(t, note)

	eval := NewService().Evaluate(entities, note, nil, "", "", []string{MeasureCBP})

	cbp := eval.ResultFor(MeasureCBP)
	if cbp == nil {
		t.Fatal("expected CBP result")
	}
	if cbp.Status != StatusNotMet {
		t.Errorf("status = %q, want not_met when value is undocumented", cbp.Status)
	}
	if cbp.Documented {
		t.Error("undocumented value must report documented=false")
	}
	if cbp.GapDescription != "missing_value:blood_pressure" {
		t.Errorf("gap = %q", cbp.GapDescription)
	}
}

func TestEvaluate_CallerAgeOverridesNote(t *testing.T) {
	// Note says 80, caller says 45: COL applies at 45.
	note := "80-year-old male, routine visit."
	entities := extract(t, note)
	age := 45

	eval := NewService().Evaluate(entities, note, &age, "male", "", []string{MeasureCOL})

	col := eval.ResultFor(MeasureCOL)
	if col == nil {
		t.Fatal("expected COL result")
	}
	if !col.Applicable {
		t.Error("caller-supplied age should make COL applicable")
	}
}

func TestEvaluate_StatinMeasures(t *testing.T) {
	note := "62-year-old male with coronary artery disease and type 2 diabetes, on atorvastatin 40 mg."
	entities := extract(t, note)

	eval := NewService().Evaluate(entities, note, nil, "", "", []string{MeasureSPC, MeasureSPD})

	for _, code := range []string{MeasureSPC, MeasureSPD} {
		r := eval.ResultFor(code)
		if r == nil {
			t.Fatalf("expected result for %s", code)
		}
		if r.Status != StatusMet {
			t.Errorf("%s status = %q, want met", code, r.Status)
		}
	}
}

func TestEvaluate_PediatricMeasures(t *testing.T) {
	note := "4-year-old male here for well-child visit. Growth on track."
	entities := extract(t, note)

	eval := NewService().Evaluate(entities, note, nil, "", "", nil)

	if r := eval.ResultFor(MeasureW34); r == nil || r.Status != StatusMet {
		t.Errorf("W34 should be met, got %+v", r)
	}
	if r := eval.ResultFor(MeasureW15); r == nil || r.Status != StatusNotApplicable {
		t.Errorf("W15 should be not_applicable at age 4, got %+v", r)
	}
	if r := eval.ResultFor(MeasureCOL); r == nil || r.Status != StatusNotApplicable {
		t.Errorf("COL should be not_applicable at age 4, got %+v", r)
	}
}

func TestMeasureByID(t *testing.T) {
	m, ok := MeasureByID(MeasureCBP)
	if !ok || m.ID != MeasureCBP {
		t.Errorf("MeasureByID(CBP) = (%+v, %v)", m, ok)
	}
	if _, ok := MeasureByID("NOPE"); ok {
		t.Error("unknown code should not resolve")
	}
}

func TestMeasureCatalog_ExactlyOneVariant(t *testing.T) {
	for _, m := range measureCatalog {
		hasThreshold := m.Threshold != nil
		hasEvent := m.Event != nil
		if hasThreshold == hasEvent {
			t.Errorf("measure %s must carry exactly one of threshold/event", m.ID)
		}
		if m.Applicable == nil {
			t.Errorf("measure %s missing applicability predicate", m.ID)
		}
	}
}
