package cdiquery

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/cdi/cdi/internal/domain/gaps"
)

// queryNamespace seeds deterministic query IDs: the same gap yields the same
// UUID on every run, which keeps the whole pipeline byte-reproducible.
var queryNamespace = uuid.MustParse("8c7e1a52-3f64-4e0d-9b6a-2f8f5d0c91e4")

// Service generates physician queries from documentation gaps. Stateless.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// priorityFor maps gap priority onto the physician worklist scale.
func priorityFor(p gaps.Priority) Priority {
	switch p {
	case gaps.PriorityCritical:
		return PriorityUrgent
	case gaps.PriorityHigh:
		return PriorityHigh
	default:
		return PriorityRoutine
	}
}

// GenerateFromGaps converts a gap bundle into at most maxQueries physician
// queries, ordered urgent > high > routine. The sort is stable, so ties keep
// the analyzer's original gap ordering and truncation drops the
// lowest-priority, latest-seen gaps first. maxQueries <= 0 yields an empty
// batch.
func (s *Service) GenerateFromGaps(result *gaps.Result, maxQueries int) *QueryResult {
	if result == nil || maxQueries <= 0 {
		return &QueryResult{Queries: []CDIQuery{}, Summary: newSummary(nil)}
	}

	ordered := make([]gaps.DocumentationGap, len(result.Gaps))
	copy(ordered, result.Gaps)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi := priorityFor(ordered[i].Priority)
		pj := priorityFor(ordered[j].Priority)
		if pi.Rank() != pj.Rank() {
			return pi.Rank() < pj.Rank()
		}
		return ordered[i].Priority.Rank() < ordered[j].Priority.Rank()
	})
	if len(ordered) > maxQueries {
		ordered = ordered[:maxQueries]
	}

	queries := make([]CDIQuery, 0, len(ordered))
	for _, g := range ordered {
		queries = append(queries, s.queryFromGap(g))
	}
	return &QueryResult{Queries: queries, Summary: newSummary(queries)}
}

func (s *Service) queryFromGap(g gaps.DocumentationGap) CDIQuery {
	qt, ok := typeForCategory[g.Category]
	if !ok {
		qt = TypeOpenEnded
	}

	var evidence []string
	if g.Description != "" {
		evidence = append(evidence, g.Description)
	}
	if g.RevenueImpact != "" {
		evidence = append(evidence, g.RevenueImpact)
	}
	if g.HEDISImpact != "" {
		evidence = append(evidence, "quality measure: "+g.HEDISImpact)
	}

	return CDIQuery{
		QueryID:             deterministicID(string(qt), g.Category, g.ClinicalIndicator, g.Title),
		QueryType:           qt,
		Priority:            priorityFor(g.Priority),
		QueryText:           renderTemplate(qt, g.Category, indicatorText(g)),
		ClinicalIndicator:   g.ClinicalIndicator,
		SupportingEvidence:  evidence,
		DocumentationNeeded: g.Title,
		Confidence:          g.Confidence,
	}
}

// indicatorText prefers the human-readable title for machine-shaped
// indicators produced by the measure evaluator.
func indicatorText(g gaps.DocumentationGap) string {
	if strings.ContainsAny(g.ClinicalIndicator, ":=") || g.ClinicalIndicator == "" {
		return g.Title
	}
	return g.ClinicalIndicator
}

// GenerateConditionQuery builds one query for an explicitly named condition
// plus its supporting indicators. The condition appears in query text only
// inside a qualified option list, never as an assertion.
func (s *Service) GenerateConditionQuery(condition string, clinicalIndicators []string, queryType QueryType) CDIQuery {
	if queryType == "" {
		queryType = TypeOpenEnded
	}
	indicators := strings.Join(clinicalIndicators, "; ")
	if indicators == "" {
		indicators = "the findings documented in this note"
	}

	var text string
	switch queryType {
	case TypeMultipleChoice:
		text = "Based on the following clinical indicators: " + indicators +
			". Please indicate which of the following best reflects your clinical judgment: " +
			"(a) " + condition + " — present, (b) " + condition + " — ruled out, " +
			"(c) other condition (please specify), (d) unable to determine."
	case TypeVerification:
		text = "Based on the following clinical indicators: " + indicators +
			". Please verify whether an associated condition such as " + condition +
			" is present, ruled out, or unable to be determined, and document accordingly."
	default:
		text = "Based on the following clinical indicators: " + indicators +
			". Please clarify the condition these findings represent, if it can be determined, " +
			"and document it to the highest clinically supported specificity."
	}

	return CDIQuery{
		QueryID:             deterministicID(string(queryType), "condition", condition, indicators),
		QueryType:           queryType,
		Priority:            PriorityHigh,
		QueryText:           text,
		ClinicalIndicator:   indicators,
		SupportingEvidence:  clinicalIndicators,
		PotentialDiagnoses:  []string{condition},
		DocumentationNeeded: "clarification of " + condition,
		Confidence:          0.9,
	}
}

func deterministicID(parts ...string) string {
	return uuid.NewSHA1(queryNamespace, []byte(strings.Join(parts, "|"))).String()
}

func newSummary(queries []CDIQuery) Summary {
	s := Summary{
		TotalQueries: len(queries),
		ByType:       map[string]int{},
		ByPriority:   map[string]int{},
	}
	for _, q := range queries {
		s.ByType[string(q.QueryType)]++
		s.ByPriority[string(q.Priority)]++
		if q.Priority == PriorityUrgent {
			s.UrgentCount++
		}
	}
	return s
}

// AssertsDiagnosis reports whether text states a diagnosis as fact rather
// than as a qualified option. Used to enforce the non-leading invariant.
func AssertsDiagnosis(text, diagnosis string) bool {
	lower := strings.ToLower(text)
	dx := strings.ToLower(diagnosis)
	for _, pattern := range []string{
		"patient has " + dx,
		"diagnosed with " + dx,
		"confirmed " + dx,
		"the patient's " + dx,
		"suffers from " + dx,
	} {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
