package hedis

import (
	"fmt"
	"math"
)

// Band is one half-open interval [previous upper, Upper) of a clinical value
// scale. Bands are ordered ascending; the first band whose Upper exceeds the
// value wins, and the final catch-all is unbounded.
type Band struct {
	Upper float64
	Label string
	Met   bool
}

var bandMax = math.Inf(1)

func classify(bands []Band, v float64) Band {
	for _, b := range bands {
		if v < b.Upper {
			return b
		}
	}
	return bands[len(bands)-1]
}

// HbA1c control bands. The measure target is met strictly below 7.0; the
// normal/prediabetes labels below that feed gap logic, not the verdict.
var hba1cBands = []Band{
	{5.7, "normal", true},
	{6.5, "prediabetes range", true},
	{7.0, "well controlled", true},
	{8.0, "moderate control", false},
	{9.0, "poor control", false},
	{bandMax, "very poor control", false},
}

// Fasting glucose bands, descriptive only (no catalogued glucose target).
var glucoseBands = []Band{
	{100, "normal", true},
	{126, "prediabetes range", false},
	{bandMax, "diabetes range", false},
}

// BMI bands, descriptive; the ABA measure scores documentation, not value.
var bmiBands = []Band{
	{18.5, "underweight", false},
	{25, "normal", true},
	{30, "overweight", false},
	{35, "obesity class I", false},
	{40, "obesity class II", false},
	{bandMax, "obesity class III", false},
}

// LDL bands. Used by gap and revenue logic; the stricter <70 optimal band
// applies to patients with established cardiovascular disease.
var ldlBands = []Band{
	{70, "optimal", true},
	{100, "near optimal", true},
	{130, "borderline high", false},
	{160, "high", false},
	{bandMax, "very high", false},
}

// ClassifyHbA1c returns the band label and whether the control target is met.
func ClassifyHbA1c(v float64) (string, bool) {
	b := classify(hba1cBands, v)
	return b.Label, b.Met
}

// ClassifyGlucose returns the fasting-glucose band label.
func ClassifyGlucose(v float64) string {
	return classify(glucoseBands, v).Label
}

// ClassifyBMI returns the BMI band label.
func ClassifyBMI(v float64) string {
	return classify(bmiBands, v).Label
}

// EvaluateLDLTarget returns the LDL band label and whether the value meets
// target. With cardiovascular disease context the threshold tightens to the
// optimal band (<70); otherwise anything below 100 meets target.
func EvaluateLDLTarget(v float64, ascvd bool) (string, bool) {
	b := classify(ldlBands, v)
	if ascvd {
		return b.Label, v < 70
	}
	return b.Label, b.Met
}

// BP categories per the staging table. Stage assignment is evaluated from
// the lowest category up: both readings must sit under the normal cutoffs
// for "normal", and stage 2 is reached when either reading crosses 140/90.
const (
	BPNormal   = "normal"
	BPElevated = "elevated"
	BPStage1   = "stage 1 hypertension"
	BPStage2   = "stage 2 hypertension"
)

// ClassifyBP returns the category and whether the blood-pressure control
// target is met. Control requires staying below the stage-1 threshold, i.e.
// category normal or elevated.
func ClassifyBP(systolic, diastolic int) (string, bool) {
	switch {
	case systolic < 120 && diastolic < 80:
		return BPNormal, true
	case systolic < 130 && diastolic < 80:
		return BPElevated, true
	case systolic < 140 && diastolic < 90:
		return BPStage1, false
	default:
		return BPStage2, false
	}
}

// CKD G-stages by eGFR, half-open at each cutpoint. Not a catalogued
// measure target; consumed by gap and revenue logic.
var egfrStages = []struct {
	min   float64
	stage string
}{
	{90, "G1"},
	{60, "G2"},
	{45, "G3a"},
	{30, "G3b"},
	{15, "G4"},
	{0, "G5"},
}

// ClassifyEGFR returns the CKD G-stage for an eGFR value.
func ClassifyEGFR(v float64) string {
	for _, s := range egfrStages {
		if v >= s.min {
			return s.stage
		}
	}
	return "G5"
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
