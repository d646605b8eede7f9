package extraction

// Diagnosis is a single condition mentioned in the note. InferredCode is the
// ICD-10 code implied by the matched terminology, not an assertion of coding.
type Diagnosis struct {
	Name         string  `json:"name"`
	InferredCode string  `json:"inferred_code,omitempty"`
	Status       string  `json:"status"`
	Severity     string  `json:"severity,omitempty"`
	Confidence   float64 `json:"confidence"`
}

// Medication is a drug mention with whatever dose/frequency/route detail the
// note carried. Missing detail stays empty rather than guessed.
type Medication struct {
	Name      string `json:"name"`
	Dose      string `json:"dose,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	Route     string `json:"route,omitempty"`
}

// VitalSigns holds parsed vital measurements. Every field is either nil or a
// value that passed the physiological bound check for that field.
type VitalSigns struct {
	Systolic        *int     `json:"systolic,omitempty"`
	Diastolic       *int     `json:"diastolic,omitempty"`
	HeartRate       *int     `json:"heart_rate,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
	RespiratoryRate *int     `json:"respiratory_rate,omitempty"`
	SpO2            *int     `json:"spo2,omitempty"`
	Weight          *float64 `json:"weight,omitempty"`
	WeightUnit      string   `json:"weight_unit,omitempty"`
	Height          *float64 `json:"height,omitempty"`
	BMI             *float64 `json:"bmi,omitempty"`
}

// LabResults holds parsed laboratory values, same nil-or-validated contract
// as VitalSigns.
type LabResults struct {
	HbA1c      *float64 `json:"hba1c,omitempty"`
	LDL        *float64 `json:"ldl,omitempty"`
	Glucose    *float64 `json:"glucose,omitempty"`
	Creatinine *float64 `json:"creatinine,omitempty"`
	EGFR       *float64 `json:"egfr,omitempty"`
	Potassium  *float64 `json:"potassium,omitempty"`
	Sodium     *float64 `json:"sodium,omitempty"`
	Hemoglobin *float64 `json:"hemoglobin,omitempty"`
	WBC        *float64 `json:"wbc,omitempty"`
	Platelets  *float64 `json:"platelets,omitempty"`
}

// Screenings records which preventive screenings the note documents.
type Screenings struct {
	Mammogram           bool `json:"mammogram"`
	Colonoscopy         bool `json:"colonoscopy"`
	CervicalCancer      bool `json:"cervical_cancer"`
	DiabeticEye         bool `json:"diabetic_eye"`
	DiabeticFoot        bool `json:"diabetic_foot"`
	DepressionScreening bool `json:"depression_screening"`
	FITTest             bool `json:"fit_test"`
	LungCancer          bool `json:"lung_cancer"`
}

// Procedure is a procedure mention with its inferred CPT code when the
// terminology match implies one.
type Procedure struct {
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// Demographics carries patient attributes passed by the caller or recovered
// from the note text itself.
type Demographics struct {
	Age    *int   `json:"age,omitempty"`
	Gender string `json:"gender,omitempty"`
}

// ClinicalEntities is the structured bundle extracted from one note. It is a
// value object: the extractor builds it, downstream stages only read it.
type ClinicalEntities struct {
	Diagnoses     []Diagnosis  `json:"diagnoses"`
	Medications   []Medication `json:"medications"`
	Vitals        VitalSigns   `json:"vitals"`
	Labs          LabResults   `json:"labs"`
	Screenings    Screenings   `json:"screenings"`
	Procedures    []Procedure  `json:"procedures"`
	Demographics  Demographics `json:"demographics"`
	Symptoms      []string     `json:"symptoms,omitempty"`
	SocialHistory []string     `json:"social_history,omitempty"`
	Confidence    float64      `json:"confidence"`
}

// HasDiagnosis reports whether any extracted diagnosis name contains one of
// the given terms (case-insensitive). Used by the evaluator and gap analyzer
// to establish diagnosis context without re-scanning the note.
func (e *ClinicalEntities) HasDiagnosis(terms ...string) bool {
	for _, d := range e.Diagnoses {
		if containsAnyFold(d.Name, terms) {
			return true
		}
	}
	return false
}

// HasMedication reports whether any extracted medication name contains one of
// the given terms (case-insensitive).
func (e *ClinicalEntities) HasMedication(terms ...string) bool {
	for _, m := range e.Medications {
		if containsAnyFold(m.Name, terms) {
			return true
		}
	}
	return false
}
