package hedis

import (
	"strings"

	"github.com/cdi/cdi/internal/domain/extraction"
)

// Measure codes of the catalogue.
const (
	MeasureCBP       = "CBP"
	MeasureCDCHbA1c  = "CDC-H"
	MeasureCDCEye    = "CDC-E"
	MeasureCDCNephro = "CDC-N"
	MeasureBCS       = "BCS"
	MeasureCOL       = "COL"
	MeasureCCS       = "CCS"
	MeasureABA       = "ABA"
	MeasureSPC       = "SPC"
	MeasureSPD       = "SPD"
	MeasureFUH       = "FUH"
	MeasureFUM       = "FUM"
	MeasureFUA       = "FUA"
	MeasureADD       = "ADD"
	MeasureCIS       = "CIS"
	MeasureW15       = "W15"
	MeasureW34       = "W34"
	MeasurePPC       = "PPC"
	MeasurePCE       = "PCE"
)

// EvalContext carries everything a measure predicate may read. Built once
// per evaluation call; read-only afterward.
type EvalContext struct {
	Entities      *extraction.ClinicalEntities
	Age           *int
	Gender        string
	EncounterType string

	note string // lowercased note text
}

func newEvalContext(e *extraction.ClinicalEntities, noteText string, age *int, gender, encounterType string) *EvalContext {
	if age == nil {
		age = e.Demographics.Age
	}
	if gender == "" {
		gender = e.Demographics.Gender
	}
	return &EvalContext{
		Entities:      e,
		Age:           age,
		Gender:        strings.ToLower(gender),
		EncounterType: encounterType,
		note:          strings.ToLower(noteText),
	}
}

func (c *EvalContext) ageBetween(min, max int) bool {
	return c.Age != nil && *c.Age >= min && *c.Age <= max
}

func (c *EvalContext) isFemale() bool { return c.Gender == "female" || c.Gender == "f" }
func (c *EvalContext) isMale() bool   { return c.Gender == "male" || c.Gender == "m" }

func (c *EvalContext) noteHas(terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(c.note, t) {
			return true
		}
	}
	return false
}

func (c *EvalContext) hasDiabetes() bool {
	return c.Entities.HasDiagnosis("diabetes")
}

func (c *EvalContext) hasHypertension() bool {
	return c.Entities.HasDiagnosis("hypertension")
}

func (c *EvalContext) hasBPReading() bool {
	v := c.Entities.Vitals
	return v.Systolic != nil && v.Diastolic != nil
}

func (c *EvalContext) hasASCVD() bool {
	return c.Entities.HasDiagnosis("coronary", "ischemic", "cerebrovascular") ||
		c.noteHas("myocardial infarction", "peripheral artery disease")
}

func (c *EvalContext) hasCOPD() bool {
	return c.Entities.HasDiagnosis("obstructive pulmonary")
}

func (c *EvalContext) hasPregnancy() bool {
	return c.Entities.HasDiagnosis("pregnancy") || c.noteHas("pregnant", "gravid", "weeks gestation")
}

func (c *EvalContext) onStatin() bool {
	return c.Entities.HasMedication("statin", "atorvastatin", "rosuvastatin", "simvastatin", "pravastatin")
}

// ThresholdOutcome is what a numeric-target measure extracted from the
// entity bundle: the raw value, its display form, band label, and verdict.
type ThresholdOutcome struct {
	Raw     float64
	Display string
	Label   string
	Met     bool
}

// ThresholdSpec is the numeric-target variant: Evaluate returns nil when the
// underlying value is undocumented.
type ThresholdSpec struct {
	Field    string
	Evaluate func(c *EvalContext) *ThresholdOutcome
}

// EventSpec is the binary-event variant: Documented reports whether the
// qualifying screening/medication/visit appears in the bundle or note.
type EventSpec struct {
	Field      string
	Documented func(c *EvalContext) bool
}

// Measure is one catalogue entry. Exactly one of Threshold and Event is set;
// the dispatcher in service.go is the only place that interprets them, so
// the applicability → exclusion → value ordering lives in one spot.
type Measure struct {
	ID         string
	Name       string
	Target     string
	Applicable func(c *EvalContext) bool
	Threshold  *ThresholdSpec
	Event      *EventSpec
}

var measureCatalog = []Measure{
	{
		ID: MeasureCBP, Name: "Controlling High Blood Pressure",
		Target: "< 130/80 mmHg",
		Applicable: func(c *EvalContext) bool {
			// A documented reading qualifies the patient even without a
			// coded hypertension diagnosis.
			return (c.hasHypertension() || c.hasBPReading()) && c.ageBetween(18, 85)
		},
		Threshold: &ThresholdSpec{
			Field: "blood_pressure",
			Evaluate: func(c *EvalContext) *ThresholdOutcome {
				v := c.Entities.Vitals
				if v.Systolic == nil || v.Diastolic == nil {
					return nil
				}
				label, met := ClassifyBP(*v.Systolic, *v.Diastolic)
				raw := float64(*v.Systolic)
				return &ThresholdOutcome{
					Raw:     raw,
					Display: formatValue(float64(*v.Systolic)) + "/" + formatValue(float64(*v.Diastolic)),
					Label:   label,
					Met:     met,
				}
			},
		},
	},
	{
		ID: MeasureCDCHbA1c, Name: "Diabetes Care: HbA1c Control",
		Target: "< 7.0%",
		Applicable: func(c *EvalContext) bool {
			return c.hasDiabetes() && c.ageBetween(18, 75)
		},
		Threshold: &ThresholdSpec{
			Field: "hba1c",
			Evaluate: func(c *EvalContext) *ThresholdOutcome {
				if c.Entities.Labs.HbA1c == nil {
					return nil
				}
				v := *c.Entities.Labs.HbA1c
				label, met := ClassifyHbA1c(v)
				return &ThresholdOutcome{Raw: v, Display: formatValue(v) + "%", Label: label, Met: met}
			},
		},
	},
	{
		ID: MeasureCDCEye, Name: "Diabetes Care: Eye Exam",
		Target: "retinal exam documented",
		Applicable: func(c *EvalContext) bool {
			return c.hasDiabetes() && c.ageBetween(18, 75)
		},
		Event: &EventSpec{
			Field:      "diabetic_eye",
			Documented: func(c *EvalContext) bool { return c.Entities.Screenings.DiabeticEye },
		},
	},
	{
		ID: MeasureCDCNephro, Name: "Diabetes Care: Kidney Health Evaluation",
		Target: "eGFR or creatinine documented",
		Applicable: func(c *EvalContext) bool {
			return c.hasDiabetes() && c.ageBetween(18, 85)
		},
		Event: &EventSpec{
			Field: "kidney_evaluation",
			Documented: func(c *EvalContext) bool {
				return c.Entities.Labs.EGFR != nil || c.Entities.Labs.Creatinine != nil
			},
		},
	},
	{
		ID: MeasureBCS, Name: "Breast Cancer Screening",
		Target: "mammogram documented",
		Applicable: func(c *EvalContext) bool {
			return c.isFemale() && c.ageBetween(50, 74)
		},
		Event: &EventSpec{
			Field:      "mammogram",
			Documented: func(c *EvalContext) bool { return c.Entities.Screenings.Mammogram },
		},
	},
	{
		ID: MeasureCOL, Name: "Colorectal Cancer Screening",
		Target: "colonoscopy or FIT documented",
		Applicable: func(c *EvalContext) bool {
			return c.ageBetween(45, 75)
		},
		Event: &EventSpec{
			Field: "colonoscopy",
			Documented: func(c *EvalContext) bool {
				return c.Entities.Screenings.Colonoscopy || c.Entities.Screenings.FITTest
			},
		},
	},
	{
		ID: MeasureCCS, Name: "Cervical Cancer Screening",
		Target: "cervical cytology documented",
		Applicable: func(c *EvalContext) bool {
			return c.isFemale() && c.ageBetween(21, 64)
		},
		Event: &EventSpec{
			Field:      "cervical_cancer",
			Documented: func(c *EvalContext) bool { return c.Entities.Screenings.CervicalCancer },
		},
	},
	{
		ID: MeasureABA, Name: "Adult BMI Assessment",
		Target: "BMI documented",
		Applicable: func(c *EvalContext) bool {
			return c.ageBetween(18, 74)
		},
		Threshold: &ThresholdSpec{
			Field: "bmi",
			Evaluate: func(c *EvalContext) *ThresholdOutcome {
				if c.Entities.Vitals.BMI == nil {
					return nil
				}
				v := *c.Entities.Vitals.BMI
				// Documentation is the target; the band label rides along
				// for gap and risk annotation.
				return &ThresholdOutcome{Raw: v, Display: formatValue(v), Label: ClassifyBMI(v), Met: true}
			},
		},
	},
	{
		ID: MeasureSPC, Name: "Statin Therapy for Cardiovascular Disease",
		Target: "statin prescribed",
		Applicable: func(c *EvalContext) bool {
			if !c.hasASCVD() {
				return false
			}
			return (c.isMale() && c.ageBetween(21, 75)) || (c.isFemale() && c.ageBetween(40, 75))
		},
		Event: &EventSpec{
			Field:      "statin",
			Documented: func(c *EvalContext) bool { return c.onStatin() },
		},
	},
	{
		ID: MeasureSPD, Name: "Statin Therapy for Diabetes",
		Target: "statin prescribed",
		Applicable: func(c *EvalContext) bool {
			return c.hasDiabetes() && c.ageBetween(40, 75)
		},
		Event: &EventSpec{
			Field:      "statin",
			Documented: func(c *EvalContext) bool { return c.onStatin() },
		},
	},
	{
		ID: MeasureFUH, Name: "Follow-Up After Hospitalization for Mental Illness",
		Target: "follow-up visit documented",
		Applicable: func(c *EvalContext) bool {
			return c.ageBetween(6, 130) &&
				c.noteHas("psychiatric hospitalization", "psychiatric admission", "inpatient psychiatric")
		},
		Event: &EventSpec{
			Field:      "mental_health_followup",
			Documented: func(c *EvalContext) bool { return c.noteHas("follow-up", "follow up") },
		},
	},
	{
		ID: MeasureFUM, Name: "Follow-Up After ED Visit for Mental Illness",
		Target: "follow-up visit documented",
		Applicable: func(c *EvalContext) bool {
			return c.ageBetween(6, 130) &&
				c.noteHas("ed visit", "emergency department", "emergency room") &&
				c.noteHas("mental health", "psychiatric", "self-harm", "suicidal")
		},
		Event: &EventSpec{
			Field:      "mental_health_followup",
			Documented: func(c *EvalContext) bool { return c.noteHas("follow-up", "follow up") },
		},
	},
	{
		ID: MeasureFUA, Name: "Follow-Up After ED Visit for Substance Use",
		Target: "follow-up visit documented",
		Applicable: func(c *EvalContext) bool {
			return c.ageBetween(13, 130) &&
				c.noteHas("ed visit", "emergency department", "emergency room") &&
				c.noteHas("substance use", "substance abuse", "overdose", "alcohol withdrawal", "opioid")
		},
		Event: &EventSpec{
			Field:      "substance_use_followup",
			Documented: func(c *EvalContext) bool { return c.noteHas("follow-up", "follow up") },
		},
	},
	{
		ID: MeasureADD, Name: "Follow-Up Care for Children Prescribed ADHD Medication",
		Target: "follow-up visit documented",
		Applicable: func(c *EvalContext) bool {
			return c.ageBetween(6, 12) &&
				c.Entities.HasMedication("methylphenidate", "amphetamine", "adderall")
		},
		Event: &EventSpec{
			Field:      "adhd_followup",
			Documented: func(c *EvalContext) bool { return c.noteHas("follow-up", "follow up") },
		},
	},
	{
		ID: MeasureCIS, Name: "Childhood Immunization Status",
		Target: "immunizations up to date",
		Applicable: func(c *EvalContext) bool {
			return c.ageBetween(0, 2)
		},
		Event: &EventSpec{
			Field: "immunizations",
			Documented: func(c *EvalContext) bool {
				return c.noteHas("immunizations up to date", "vaccines up to date", "vaccinations up to date", "utd on vaccines")
			},
		},
	},
	{
		ID: MeasureW15, Name: "Well-Child Visits in the First 15 Months",
		Target: "well-child visit documented",
		Applicable: func(c *EvalContext) bool {
			return c.ageBetween(0, 1)
		},
		Event: &EventSpec{
			Field:      "well_child_visit",
			Documented: func(c *EvalContext) bool { return c.noteHas("well-child", "well child") },
		},
	},
	{
		ID: MeasureW34, Name: "Well-Child Visits Ages 3-6",
		Target: "well-child visit documented",
		Applicable: func(c *EvalContext) bool {
			return c.ageBetween(3, 6)
		},
		Event: &EventSpec{
			Field:      "well_child_visit",
			Documented: func(c *EvalContext) bool { return c.noteHas("well-child", "well child") },
		},
	},
	{
		ID: MeasurePPC, Name: "Prenatal and Postpartum Care",
		Target: "prenatal care documented",
		Applicable: func(c *EvalContext) bool {
			return c.isFemale() && c.hasPregnancy()
		},
		Event: &EventSpec{
			Field:      "prenatal_care",
			Documented: func(c *EvalContext) bool { return c.noteHas("prenatal visit", "prenatal care", "obstetric visit") },
		},
	},
	{
		ID: MeasurePCE, Name: "Pharmacotherapy Management of COPD Exacerbation",
		Target: "bronchodilator and spirometry documented",
		Applicable: func(c *EvalContext) bool {
			return c.hasCOPD() && c.ageBetween(40, 130)
		},
		Event: &EventSpec{
			Field: "copd_management",
			Documented: func(c *EvalContext) bool {
				return c.Entities.HasMedication("albuterol", "tiotropium") || c.noteHas("spirometry", "bronchodilator")
			},
		},
	},
}

// MeasureByID returns the catalogue entry for a code.
func MeasureByID(id string) (Measure, bool) {
	for _, m := range measureCatalog {
		if m.ID == id {
			return m, true
		}
	}
	return Measure{}, false
}
