package hedis

// Status is the terminal state of one measure for one patient.
type Status string

const (
	StatusMet           Status = "met"
	StatusNotMet        Status = "not_met"
	StatusExcluded      Status = "excluded"
	StatusNotApplicable Status = "not_applicable"
)

// Result is the evaluation outcome for one measure. Built once per call,
// never mutated afterward.
type Result struct {
	MeasureID      string   `json:"measure_id"`
	MeasureName    string   `json:"measure_name"`
	Status         Status   `json:"status"`
	Applicable     bool     `json:"applicable"`
	MeetsTarget    *bool    `json:"meets_target,omitempty"`
	Value          string   `json:"value,omitempty"`
	Target         string   `json:"target,omitempty"`
	RawValue       *float64 `json:"raw_value,omitempty"`
	Documented     bool     `json:"documented"`
	IsCompliant    bool     `json:"is_compliant"`
	GapDescription string   `json:"gap_description,omitempty"`
	Confidence     float64  `json:"confidence"`
}

// Exclusion records one exclusion category's outcome for this evaluation.
type Exclusion struct {
	Type        string   `json:"exclusion_type"`
	Present     bool     `json:"present"`
	Reason      string   `json:"reason,omitempty"`
	Description string   `json:"description"`
	Affects     []string `json:"affects"`
}

// Evaluation is the full measure bundle handed to adapters and to the gap
// analyzer.
type Evaluation struct {
	Results               []Result    `json:"results"`
	Exclusions            []Exclusion `json:"exclusions"`
	OverallComplianceRate float64     `json:"overall_compliance_rate"`
}

// ResultFor returns the result for a measure code, or nil when the measure
// was not part of the evaluation.
func (e *Evaluation) ResultFor(measureID string) *Result {
	for i := range e.Results {
		if e.Results[i].MeasureID == measureID {
			return &e.Results[i]
		}
	}
	return nil
}
