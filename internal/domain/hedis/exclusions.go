package hedis

import "strings"

// exclusionCategory is one row of the static exclusion table: a keyword list
// and the set of measures the category removes a patient from.
type exclusionCategory struct {
	Type        string
	Description string
	Keywords    []string
	Affects     []string
}

var allMeasureCodes = []string{
	MeasureCBP, MeasureCDCHbA1c, MeasureCDCEye, MeasureCDCNephro,
	MeasureBCS, MeasureCOL, MeasureCCS, MeasureABA, MeasureSPC, MeasureSPD,
	MeasureFUH, MeasureFUM, MeasureFUA, MeasureADD, MeasureCIS,
	MeasureW15, MeasureW34, MeasurePPC, MeasurePCE,
}

var exclusionTable = []exclusionCategory{
	{
		Type:        "hospice",
		Description: "Hospice enrollment or palliative-only care",
		Keywords:    []string{"hospice", "palliative care only", "comfort care", "comfort measures only"},
		Affects:     allMeasureCodes,
	},
	{
		Type:        "esrd",
		Description: "End-stage renal disease or chronic dialysis",
		Keywords:    []string{"esrd", "end stage renal", "end-stage renal", "dialysis", "renal transplant", "kidney transplant"},
		Affects:     []string{MeasureCBP, MeasureCDCHbA1c, MeasureCDCEye, MeasureCDCNephro, MeasureSPD},
	},
	{
		Type:        "advanced_illness",
		Description: "Advanced illness with limited life expectancy",
		Keywords:    []string{"metastatic cancer", "metastatic", "stage iv cancer", "terminal illness", "life expectancy less than"},
		Affects:     []string{MeasureBCS, MeasureCOL, MeasureCCS, MeasureCBP, MeasureCDCHbA1c, MeasureCDCEye, MeasureCDCNephro, MeasureSPC, MeasureSPD},
	},
	{
		Type:        "frailty",
		Description: "Frailty in an older adult",
		Keywords:    []string{"frailty", "frail", "bedbound", "bed-bound", "failure to thrive"},
		Affects:     []string{MeasureBCS, MeasureCOL, MeasureCBP, MeasureCDCHbA1c, MeasureCDCEye, MeasureCDCNephro},
	},
	{
		Type:        "pregnancy",
		Description: "Current pregnancy",
		Keywords:    []string{"pregnant", "pregnancy", "gravid", "gestation"},
		Affects:     []string{MeasureCBP, MeasureCDCHbA1c, MeasureSPC, MeasureSPD},
	},
	{
		Type:        "dementia",
		Description: "Advanced dementia",
		Keywords:    []string{"advanced dementia", "severe dementia", "end stage dementia", "end-stage dementia"},
		Affects:     []string{MeasureBCS, MeasureCOL, MeasureCCS},
	},
	{
		Type:        "bilateral_mastectomy",
		Description: "Bilateral mastectomy",
		Keywords:    []string{"bilateral mastectomy", "double mastectomy"},
		Affects:     []string{MeasureBCS},
	},
	{
		Type:        "prior_colorectal_cancer",
		Description: "Colorectal cancer history or total colectomy",
		Keywords:    []string{"colorectal cancer", "colon cancer", "total colectomy"},
		Affects:     []string{MeasureCOL},
	},
	{
		Type:        "institutional_care",
		Description: "Long-term institutional care",
		Keywords:    []string{"nursing home resident", "long-term care facility", "long term care facility", "institutionalized", "snf resident"},
		Affects:     []string{MeasureBCS, MeasureCOL, MeasureCCS, MeasureCBP, MeasureCDCHbA1c},
	},
	{
		Type:        "blindness",
		Description: "Bilateral blindness or absence of eyes",
		Keywords:    []string{"bilateral blindness", "legally blind", "enucleation"},
		Affects:     []string{MeasureCDCEye},
	},
}

// BuildExclusions scans diagnosis names plus raw note text, case-insensitive,
// against the table. First keyword hit wins per category; additional hits do
// not change the record.
func BuildExclusions(diagnosisNames []string, noteText string) []Exclusion {
	haystack := strings.ToLower(strings.Join(diagnosisNames, " ") + " " + noteText)

	out := make([]Exclusion, 0, len(exclusionTable))
	for _, cat := range exclusionTable {
		rec := Exclusion{
			Type:        cat.Type,
			Description: cat.Description,
			Affects:     cat.Affects,
		}
		for _, kw := range cat.Keywords {
			if strings.Contains(haystack, kw) {
				rec.Present = true
				rec.Reason = "documented: " + kw
				break
			}
		}
		out = append(out, rec)
	}
	return out
}

// excludedFrom reports whether a measure code is affected by any present
// exclusion, and by which.
func excludedFrom(exclusions []Exclusion, measureID string) (string, bool) {
	for _, ex := range exclusions {
		if !ex.Present {
			continue
		}
		for _, code := range ex.Affects {
			if code == measureID {
				return ex.Type, true
			}
		}
	}
	return "", false
}
