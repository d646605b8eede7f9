package cdiquery

import (
	"strings"

	"github.com/cdi/cdi/internal/domain/gaps"
)

// Query phrasing is template-driven: each (query type, gap category) pair
// maps to one phrasing that references only the clinical indicator text
// already present in the note. Templates never assert a diagnosis as fact;
// condition names appear only inside a qualified option list.
//
// Placeholder: {indicator}.
var templateTable = map[QueryType]map[string]string{
	TypeOpenEnded: {
		gaps.CategorySpecificity: "The documentation references {indicator}. Please clarify the specificity of this condition (for example its type, stage, or laterality) if it can be determined.",
		gaps.CategoryAcuity:      "The documentation references {indicator}. Please clarify whether this condition is acute, chronic, or acute on chronic, if it can be determined.",
		gaps.CategoryLinkage:     "Clinical indicators in this note reference {indicator}. Please document its status, including whether an associated condition is present, ruled out, or unable to be determined.",
		"default":                "Clinical indicators in this note reference {indicator}. Please provide additional documentation if clinically appropriate.",
	},
	TypeMultipleChoice: {
		gaps.CategorySpecificity: "Regarding the documented {indicator}: please indicate the most specific characterization supported by your clinical judgment, or state that it cannot be determined.",
		"default":                "Regarding {indicator}: please select the characterization best supported by the clinical evidence, or state that it cannot be determined.",
	},
	TypeVerification: {
		gaps.CategoryMissingLab:       "The note references {indicator} without an associated result. Please document the result if one was obtained, or indicate that it was not performed.",
		gaps.CategoryMissingVital:     "The note does not record {indicator}. Please document the measurement if it was obtained, or indicate that it was not performed.",
		gaps.CategoryMissingScreening: "The record does not show {indicator}. Please document whether it was performed, is planned, or was declined.",
		gaps.CategoryQualityMeasure:   "A quality measure relevant to this visit is unaddressed ({indicator}). Please document the relevant finding or intervention if clinically appropriate.",
		"default":                     "Please verify whether documentation exists for {indicator}, and record it if so.",
	},
}

// typeForCategory picks the phrasing family each gap category defaults to.
var typeForCategory = map[string]QueryType{
	gaps.CategorySpecificity:      TypeMultipleChoice,
	gaps.CategoryAcuity:           TypeOpenEnded,
	gaps.CategoryLinkage:          TypeOpenEnded,
	gaps.CategoryMissingLab:       TypeVerification,
	gaps.CategoryMissingVital:     TypeVerification,
	gaps.CategoryMissingScreening: TypeVerification,
	gaps.CategoryQualityMeasure:   TypeVerification,
}

func renderTemplate(qt QueryType, category, indicator string) string {
	byCategory, ok := templateTable[qt]
	if !ok {
		byCategory = templateTable[TypeOpenEnded]
	}
	tmpl, ok := byCategory[category]
	if !ok {
		tmpl = byCategory["default"]
	}
	return strings.ReplaceAll(tmpl, "{indicator}", indicator)
}
