package gaps

import "github.com/cdi/cdi/internal/domain/extraction"

// specificityRule flags a diagnosis whose name lacks a required specificity
// axis (type, stage, laterality, severity).
type specificityRule struct {
	Axis          string
	Satisfied     []string // any of these in the diagnosis name satisfies the axis
	Priority      Priority
	RevenueImpact string
}

// labRule expects a named lab to be present for the condition.
type labRule struct {
	Title    string
	Present  func(*extraction.LabResults) bool
	Priority Priority
}

// vitalRule expects a vital measurement for the condition.
type vitalRule struct {
	Title    string
	Present  func(*extraction.VitalSigns) bool
	Priority Priority
}

// screeningRule expects a documented screening for the condition.
type screeningRule struct {
	Title    string
	Present  func(*extraction.Screenings) bool
	Priority Priority
}

// linkageRule expects a commonly linked complication to be either documented
// or explicitly ruled out when its trigger terms appear in the note.
type linkageRule struct {
	Title         string
	Terms         []string // complication terms to look for among diagnoses
	Priority      Priority
	RevenueImpact string
}

// acuityRule flags a diagnosis whose severity/acuity qualifier is absent.
type acuityRule struct {
	Priority Priority
}

// expectation is one row of the per-condition documentation table.
type expectation struct {
	Condition   string   // gap indicator label
	Match       []string // diagnosis-name terms selecting this row
	Specificity *specificityRule
	Acuity      *acuityRule
	Labs        []labRule
	Vitals      []vitalRule
	Screenings  []screeningRule
	Linkages    []linkageRule
}

var expectationTable = []expectation{
	{
		Condition: "diabetes mellitus",
		Match:     []string{"diabetes"},
		Specificity: &specificityRule{
			Axis:          "type",
			Satisfied:     []string{"type 1", "type 2"},
			Priority:      PriorityHigh,
			RevenueImpact: "unspecified diabetes defaults to lower-weight HCC mapping",
		},
		Labs: []labRule{
			{"HbA1c result", func(l *extraction.LabResults) bool { return l.HbA1c != nil }, PriorityHigh},
			{"renal function (creatinine or eGFR)", func(l *extraction.LabResults) bool { return l.Creatinine != nil || l.EGFR != nil }, PriorityMedium},
		},
		Screenings: []screeningRule{
			{"diabetic eye exam", func(s *extraction.Screenings) bool { return s.DiabeticEye }, PriorityMedium},
			{"diabetic foot exam", func(s *extraction.Screenings) bool { return s.DiabeticFoot }, PriorityMedium},
		},
		Linkages: []linkageRule{
			{"diabetic neuropathy status", []string{"neuropathy"}, PriorityHigh, "complication linkage supports E11.4x coding"},
			{"diabetic nephropathy status", []string{"nephropathy", "kidney disease"}, PriorityHigh, "complication linkage supports E11.2x coding"},
			{"diabetic retinopathy status", []string{"retinopathy"}, PriorityMedium, "complication linkage supports E11.3x coding"},
		},
	},
	{
		Condition: "hypertension",
		Match:     []string{"hypertension"},
		Vitals: []vitalRule{
			{"blood pressure reading", func(v *extraction.VitalSigns) bool { return v.Systolic != nil && v.Diastolic != nil }, PriorityHigh},
		},
		Linkages: []linkageRule{
			{"hypertensive kidney involvement", []string{"kidney disease", "nephropathy"}, PriorityMedium, "combined I12.x coding when linked"},
			{"hypertensive heart involvement", []string{"heart failure"}, PriorityMedium, "combined I11.x coding when linked"},
		},
	},
	{
		Condition: "chronic kidney disease",
		Match:     []string{"kidney disease", "renal insufficiency"},
		Specificity: &specificityRule{
			Axis:          "stage",
			Satisfied:     []string{"stage", "g1", "g2", "g3", "g4", "g5"},
			Priority:      PriorityCritical,
			RevenueImpact: "CKD stage drives N18.x specificity and HCC weight",
		},
		Labs: []labRule{
			{"eGFR result", func(l *extraction.LabResults) bool { return l.EGFR != nil }, PriorityHigh},
			{"creatinine result", func(l *extraction.LabResults) bool { return l.Creatinine != nil }, PriorityMedium},
		},
	},
	{
		Condition: "heart failure",
		Match:     []string{"heart failure", "cardiomyopathy"},
		Specificity: &specificityRule{
			Axis:          "type",
			Satisfied:     []string{"systolic", "diastolic", "hfref", "hfpef", "reduced ejection", "preserved ejection"},
			Priority:      PriorityCritical,
			RevenueImpact: "systolic/diastolic specificity drives I50.2x-I50.3x coding",
		},
		Acuity: &acuityRule{Priority: PriorityHigh},
		Vitals: []vitalRule{
			{"blood pressure reading", func(v *extraction.VitalSigns) bool { return v.Systolic != nil }, PriorityMedium},
			{"weight", func(v *extraction.VitalSigns) bool { return v.Weight != nil }, PriorityMedium},
		},
		Labs: []labRule{
			{"potassium result", func(l *extraction.LabResults) bool { return l.Potassium != nil }, PriorityMedium},
			{"renal function (creatinine or eGFR)", func(l *extraction.LabResults) bool { return l.Creatinine != nil || l.EGFR != nil }, PriorityMedium},
		},
	},
	{
		Condition: "chronic obstructive pulmonary disease",
		Match:     []string{"obstructive pulmonary"},
		Acuity:    &acuityRule{Priority: PriorityHigh},
		Vitals: []vitalRule{
			{"oxygen saturation", func(v *extraction.VitalSigns) bool { return v.SpO2 != nil }, PriorityHigh},
		},
	},
	{
		Condition: "asthma",
		Match:     []string{"asthma"},
		Specificity: &specificityRule{
			Axis:      "severity classification",
			Satisfied: []string{"intermittent", "persistent", "mild", "moderate", "severe"},
			Priority:  PriorityMedium,
		},
	},
	{
		Condition: "anemia",
		Match:     []string{"anemia"},
		Specificity: &specificityRule{
			Axis:          "etiology",
			Satisfied:     []string{"iron deficiency", "chronic disease", "b12", "folate", "hemolytic", "aplastic"},
			Priority:      PriorityHigh,
			RevenueImpact: "etiology moves coding from D64.9 to a specific D5x series",
		},
		Labs: []labRule{
			{"hemoglobin result", func(l *extraction.LabResults) bool { return l.Hemoglobin != nil }, PriorityHigh},
		},
	},
	{
		Condition: "depression",
		Match:     []string{"depress"},
		Specificity: &specificityRule{
			Axis:      "episode and severity",
			Satisfied: []string{"mild", "moderate", "severe", "recurrent", "single episode"},
			Priority:  PriorityMedium,
		},
		Screenings: []screeningRule{
			{"PHQ-9 depression screening", func(s *extraction.Screenings) bool { return s.DepressionScreening }, PriorityMedium},
		},
	},
	{
		Condition: "obesity",
		Match:     []string{"obesity", "obese"},
		Vitals: []vitalRule{
			{"BMI", func(v *extraction.VitalSigns) bool { return v.BMI != nil }, PriorityHigh},
		},
	},
	{
		Condition: "atrial fibrillation",
		Match:     []string{"atrial"},
		Linkages: []linkageRule{
			{"anticoagulation status", []string{"warfarin", "apixaban", "anticoagulation"}, PriorityCritical, "documented anticoagulation decision supports MDM complexity"},
		},
	},
}

// severityTerms satisfy an acuity rule when present in the diagnosis
// severity qualifier or name.
var acuityTerms = []string{"acute", "chronic", "acute on chronic"}
