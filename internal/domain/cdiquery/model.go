package cdiquery

import (
	"time"

	"github.com/google/uuid"
)

// QueryType is the phrasing family of a physician query.
type QueryType string

const (
	TypeOpenEnded      QueryType = "open_ended"
	TypeMultipleChoice QueryType = "multiple_choice"
	TypeVerification   QueryType = "verification"
)

// Priority orders queries for the physician worklist.
type Priority string

const (
	PriorityUrgent  Priority = "urgent"
	PriorityHigh    Priority = "high"
	PriorityRoutine Priority = "routine"
)

var priorityRank = map[Priority]int{
	PriorityUrgent:  0,
	PriorityHigh:    1,
	PriorityRoutine: 2,
}

// Rank returns the sort rank of a priority; unknown priorities sort last.
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// CDIQuery is the terminal artifact of the pipeline: a non-leading
// clarification request for the physician.
type CDIQuery struct {
	QueryID             string    `json:"query_id"`
	QueryType           QueryType `json:"query_type"`
	Priority            Priority  `json:"priority"`
	QueryText           string    `json:"query_text"`
	ClinicalIndicator   string    `json:"clinical_indicator"`
	SupportingEvidence  []string  `json:"supporting_evidence,omitempty"`
	PotentialDiagnoses  []string  `json:"potential_diagnoses,omitempty"`
	DocumentationNeeded string    `json:"documentation_needed,omitempty"`
	Confidence          float64   `json:"confidence"`
}

// Summary aggregates a generated query batch.
type Summary struct {
	TotalQueries int            `json:"total_queries"`
	ByType       map[string]int `json:"by_type"`
	ByPriority   map[string]int `json:"by_priority"`
	UrgentCount  int            `json:"urgent_count"`
}

// QueryResult is the query bundle handed to adapters.
type QueryResult struct {
	Queries []CDIQuery `json:"queries"`
	Summary Summary    `json:"summary"`
}

// StoredQuery maps to the cdi_query audit table.
type StoredQuery struct {
	ID                uuid.UUID `db:"id" json:"id"`
	QueryType         string    `db:"query_type" json:"query_type"`
	Priority          string    `db:"priority" json:"priority"`
	QueryText         string    `db:"query_text" json:"query_text"`
	ClinicalIndicator string    `db:"clinical_indicator" json:"clinical_indicator"`
	Confidence        float64   `db:"confidence" json:"confidence"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
