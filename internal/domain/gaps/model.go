package gaps

// Priority orders gaps for downstream query generation.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

var priorityRank = map[Priority]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
}

// Rank returns the sort rank of a priority; unknown priorities sort last.
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// Gap categories.
const (
	CategorySpecificity      = "specificity"
	CategoryAcuity           = "acuity"
	CategoryLinkage          = "linkage"
	CategoryMissingLab       = "missing_lab"
	CategoryMissingVital     = "missing_vital"
	CategoryMissingScreening = "missing_screening"
	CategoryQualityMeasure   = "quality_measure"
)

// DocumentationGap is one detected documentation deficiency. Immutable once
// produced; the query generator only reads it.
type DocumentationGap struct {
	Category          string   `json:"category"`
	Priority          Priority `json:"priority"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	ClinicalIndicator string   `json:"clinical_indicator"`
	SuggestedQuery    string   `json:"suggested_query,omitempty"`
	RevenueImpact     string   `json:"revenue_impact,omitempty"`
	HEDISImpact       string   `json:"hedis_impact,omitempty"`
	Confidence        float64  `json:"confidence"`
}

// Summary aggregates the gap list for the adapter boundary.
type Summary struct {
	ByPriority    map[string]int `json:"by_priority"`
	ByCategory    map[string]int `json:"by_category"`
	CriticalCount int            `json:"critical_count"`
	HighCount     int            `json:"high_count"`
}

// Result is the gap bundle.
type Result struct {
	Gaps    []DocumentationGap `json:"gaps"`
	Summary Summary            `json:"summary"`
}
