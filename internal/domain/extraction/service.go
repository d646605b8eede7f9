package extraction

import (
	"errors"
	"strings"
)

// ErrEmptyNote is the only hard failure of the extractor: no note text means
// no partial result is possible.
var ErrEmptyNote = errors.New("note text is required")

// Entity categories selectable through Options.Categories.
const (
	CategoryDiagnoses   = "diagnoses"
	CategoryMedications = "medications"
	CategoryVitals      = "vitals"
	CategoryLabs        = "labs"
	CategoryScreenings  = "screenings"
	CategoryProcedures  = "procedures"
	CategorySymptoms    = "symptoms"
)

var allCategories = []string{
	CategoryDiagnoses, CategoryMedications, CategoryVitals, CategoryLabs,
	CategoryScreenings, CategoryProcedures, CategorySymptoms,
}

// Options selects which entity categories to extract. Empty means all.
type Options struct {
	Categories []string
}

func (o Options) wants(category string) bool {
	if len(o.Categories) == 0 {
		return true
	}
	for _, c := range o.Categories {
		if c == category {
			return true
		}
	}
	return false
}

func (o Options) requested() []string {
	if len(o.Categories) == 0 {
		return allCategories
	}
	out := make([]string, 0, len(o.Categories))
	for _, c := range allCategories {
		if o.wants(c) {
			out = append(out, c)
		}
	}
	return out
}

// Service is the entity extractor. It holds no state; every call is a pure
// function of its inputs.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Extract runs every requested parser and matcher over the note and
// assembles the entity bundle. Caller-supplied age and gender win over
// anything recovered from the note text.
func (s *Service) Extract(noteText string, age *int, gender string, opts Options) (*ClinicalEntities, error) {
	if strings.TrimSpace(noteText) == "" {
		return nil, ErrEmptyNote
	}

	e := &ClinicalEntities{
		Diagnoses:   []Diagnosis{},
		Medications: []Medication{},
		Procedures:  []Procedure{},
	}

	var perCategory []float64
	for _, cat := range opts.requested() {
		switch cat {
		case CategoryDiagnoses:
			e.Diagnoses = matchDiagnoses(noteText)
			perCategory = append(perCategory, diagnosisConfidence(e.Diagnoses))
		case CategoryMedications:
			e.Medications = matchMedications(noteText)
			perCategory = append(perCategory, listConfidence(len(e.Medications), 0.9))
		case CategoryVitals:
			conf := extractVitals(noteText, &e.Vitals)
			perCategory = append(perCategory, conf)
		case CategoryLabs:
			conf := extractLabs(noteText, &e.Labs)
			perCategory = append(perCategory, conf)
		case CategoryScreenings:
			e.Screenings = matchScreenings(noteText)
			perCategory = append(perCategory, listConfidence(countScreenings(e.Screenings), 0.9))
		case CategoryProcedures:
			e.Procedures = matchProcedures(noteText)
			perCategory = append(perCategory, listConfidence(len(e.Procedures), 0.9))
		case CategorySymptoms:
			e.Symptoms = matchSymptoms(noteText)
			e.SocialHistory = matchSocialHistory(noteText)
			perCategory = append(perCategory, listConfidence(len(e.Symptoms)+len(e.SocialHistory), 0.8))
		}
	}

	e.Demographics = matchDemographics(noteText)
	if age != nil {
		e.Demographics.Age = age
	}
	if gender != "" {
		e.Demographics.Gender = strings.ToLower(gender)
	}

	e.Confidence = overallConfidence(perCategory)
	return e, nil
}

func diagnosisConfidence(dx []Diagnosis) float64 {
	confs := make([]float64, 0, len(dx))
	for _, d := range dx {
		confs = append(confs, d.Confidence)
	}
	return categoryConfidence(confs)
}

// listConfidence scores a presence-only category: flat confidence when
// anything matched, zero otherwise.
func listConfidence(n int, conf float64) float64 {
	if n == 0 {
		return 0
	}
	return conf
}

func countScreenings(s Screenings) int {
	n := 0
	for _, b := range []bool{
		s.Mammogram, s.Colonoscopy, s.CervicalCancer, s.DiabeticEye,
		s.DiabeticFoot, s.DepressionScreening, s.FITTest, s.LungCancer,
	} {
		if b {
			n++
		}
	}
	return n
}

// extractVitals runs every vital parser independently; a miss leaves the
// field nil and contributes nothing to category confidence.
func extractVitals(note string, v *VitalSigns) float64 {
	var confs []float64

	if bp := ParseBloodPressure(note); bp != nil {
		v.Systolic = intPtr(bp.Systolic)
		v.Diastolic = intPtr(bp.Diastolic)
		confs = append(confs, bp.Confidence)
	}
	if p := ParseVital(note, "heart_rate"); p != nil {
		v.HeartRate = intPtr(int(p.Value))
		confs = append(confs, p.Confidence)
	}
	if p := ParseVital(note, "temperature"); p != nil {
		v.Temperature = floatPtr(p.Value)
		confs = append(confs, p.Confidence)
	}
	if p := ParseVital(note, "respiratory_rate"); p != nil {
		v.RespiratoryRate = intPtr(int(p.Value))
		confs = append(confs, p.Confidence)
	}
	if p := ParseVital(note, "spo2"); p != nil {
		v.SpO2 = intPtr(int(p.Value))
		confs = append(confs, p.Confidence)
	}
	if p := ParseVital(note, "bmi"); p != nil {
		v.BMI = floatPtr(p.Value)
		confs = append(confs, p.Confidence)
	}
	if p := ParseWeight(note); p != nil {
		v.Weight = floatPtr(p.Value)
		v.WeightUnit = p.Unit
		confs = append(confs, p.Confidence)
	}
	if p := ParseHeight(note); p != nil {
		v.Height = floatPtr(p.Value)
		confs = append(confs, p.Confidence)
	}
	return categoryConfidence(confs)
}

var labFields = []struct {
	name string
	set  func(*LabResults, float64)
}{
	{"hba1c", func(l *LabResults, v float64) { l.HbA1c = floatPtr(v) }},
	{"ldl", func(l *LabResults, v float64) { l.LDL = floatPtr(v) }},
	{"glucose", func(l *LabResults, v float64) { l.Glucose = floatPtr(v) }},
	{"creatinine", func(l *LabResults, v float64) { l.Creatinine = floatPtr(v) }},
	{"egfr", func(l *LabResults, v float64) { l.EGFR = floatPtr(v) }},
	{"potassium", func(l *LabResults, v float64) { l.Potassium = floatPtr(v) }},
	{"sodium", func(l *LabResults, v float64) { l.Sodium = floatPtr(v) }},
	{"hemoglobin", func(l *LabResults, v float64) { l.Hemoglobin = floatPtr(v) }},
	{"wbc", func(l *LabResults, v float64) { l.WBC = floatPtr(v) }},
	{"platelets", func(l *LabResults, v float64) { l.Platelets = floatPtr(v) }},
}

func extractLabs(note string, l *LabResults) float64 {
	var confs []float64
	for _, f := range labFields {
		if p := ParseLab(note, f.name); p != nil {
			f.set(l, p.Value)
			confs = append(confs, p.Confidence)
		}
	}
	return categoryConfidence(confs)
}

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }
