package hedis

import "testing"

func findExclusion(exclusions []Exclusion, exType string) *Exclusion {
	for i := range exclusions {
		if exclusions[i].Type == exType {
			return &exclusions[i]
		}
	}
	return nil
}

func TestBuildExclusions_AllCategoriesAlwaysReported(t *testing.T) {
	exclusions := BuildExclusions(nil, "routine visit, no concerns")

	if len(exclusions) != 10 {
		t.Fatalf("expected all 10 exclusion categories in output, got %d", len(exclusions))
	}
	for _, ex := range exclusions {
		if ex.Present {
			t.Errorf("exclusion %q should not be present for a routine note", ex.Type)
		}
	}
}

func TestBuildExclusions_FromNoteText(t *testing.T) {
	exclusions := BuildExclusions(nil, "Patient enrolled in hospice last month.")

	hospice := findExclusion(exclusions, "hospice")
	if hospice == nil || !hospice.Present {
		t.Fatal("expected hospice exclusion to be present")
	}
	if hospice.Reason != "documented: hospice" {
		t.Errorf("reason = %q, want documented: hospice", hospice.Reason)
	}
	if len(hospice.Affects) != len(allMeasureCodes) {
		t.Errorf("hospice should affect all %d measures, got %d", len(allMeasureCodes), len(hospice.Affects))
	}
}

func TestBuildExclusions_FromDiagnosisNames(t *testing.T) {
	exclusions := BuildExclusions([]string{"Pregnancy"}, "no other findings")

	preg := findExclusion(exclusions, "pregnancy")
	if preg == nil || !preg.Present {
		t.Fatal("expected pregnancy exclusion from diagnosis name")
	}
}

func TestBuildExclusions_FirstKeywordWins(t *testing.T) {
	exclusions := BuildExclusions(nil, "metastatic cancer, stage iv cancer")

	adv := findExclusion(exclusions, "advanced_illness")
	if adv == nil || !adv.Present {
		t.Fatal("expected advanced_illness exclusion")
	}
	if adv.Reason != "documented: metastatic cancer" {
		t.Errorf("reason = %q, want the first matching keyword", adv.Reason)
	}
}

func TestBuildExclusions_CaseInsensitive(t *testing.T) {
	exclusions := BuildExclusions(nil, "ESRD on Dialysis three times weekly")

	esrd := findExclusion(exclusions, "esrd")
	if esrd == nil || !esrd.Present {
		t.Fatal("expected esrd exclusion regardless of case")
	}
}

func TestExcludedFrom(t *testing.T) {
	exclusions := BuildExclusions(nil, "bilateral mastectomy in 2015")

	if exType, ok := excludedFrom(exclusions, MeasureBCS); !ok || exType != "bilateral_mastectomy" {
		t.Errorf("excludedFrom(BCS) = (%q, %v), want (bilateral_mastectomy, true)", exType, ok)
	}
	if _, ok := excludedFrom(exclusions, MeasureCOL); ok {
		t.Error("bilateral mastectomy should not exclude COL")
	}
	if _, ok := excludedFrom(nil, MeasureBCS); ok {
		t.Error("no exclusions means no exclusion hit")
	}
}
