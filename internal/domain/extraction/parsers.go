package extraction

import (
	"regexp"
	"strconv"
)

// ParsedValue is the result of a single value parser: a unit-normalized
// number plus the confidence implied by how specific the matched phrasing was.
type ParsedValue struct {
	Value      float64
	Unit       string
	Confidence float64
}

// valueBounds is the physiologically plausible range for a field. Matches
// outside the range are discarded, not stored.
type valueBounds struct {
	min, max float64
}

var fieldBounds = map[string]valueBounds{
	"systolic":         {40, 300},
	"diastolic":        {20, 200},
	"heart_rate":       {20, 300},
	"temperature":      {90, 110}, // Fahrenheit after normalization
	"respiratory_rate": {4, 60},
	"spo2":             {50, 100},
	"bmi":              {10, 100},
	"weight_kg":        {2, 500},
	"weight_lb":        {5, 1100},
	"height_cm":        {30, 260},
	"hba1c":            {3, 20},
	"ldl":              {10, 400},
	"glucose":          {20, 1000},
	"creatinine":       {0.1, 25},
	"egfr":             {1, 200},
	"potassium":        {1, 10},
	"sodium":           {100, 200},
	"hemoglobin":       {3, 25},
	"wbc":              {0.5, 200},
	"platelets":        {1, 2000},
}

func inBounds(field string, v float64) bool {
	b, ok := fieldBounds[field]
	if !ok {
		return false
	}
	return v >= b.min && v <= b.max
}

// numericPattern binds a field to one clinical phrasing of its value. The
// first capture group must be the number. Patterns are tried in order; more
// specific phrasings come first and carry higher confidence.
type numericPattern struct {
	re         *regexp.Regexp
	unit       string
	confidence float64
}

const numRe = `(\d{1,4}(?:\.\d+)?)`

var labPatterns = map[string][]numericPattern{
	"hba1c": {
		{regexp.MustCompile(`(?i)\b(?:hba1c|hgba1c|hb\s?a1c|glycated\s+hemoglobin)\s*(?:of|is|was|at|[:=])?\s*` + numRe + `\s*%?`), "%", 0.95},
		{regexp.MustCompile(`(?i)\ba1c\s*(?:of|is|was|at|[:=])?\s*` + numRe + `\s*%?`), "%", 0.9},
	},
	"ldl": {
		{regexp.MustCompile(`(?i)\bldl(?:-c|\s+cholesterol)?\s*(?:of|is|was|at|[:=])?\s*` + numRe), "mg/dL", 0.95},
	},
	"glucose": {
		{regexp.MustCompile(`(?i)\b(?:fasting\s+)?(?:blood\s+)?glucose\s*(?:of|is|was|at|[:=])?\s*` + numRe), "mg/dL", 0.95},
		{regexp.MustCompile(`(?i)\b(?:fbs|fbg|bg)\s*(?:of|is|was|at|[:=])?\s*` + numRe), "mg/dL", 0.8},
	},
	"creatinine": {
		{regexp.MustCompile(`(?i)\b(?:serum\s+)?creatinine\s*(?:of|is|was|at|[:=])?\s*` + numRe), "mg/dL", 0.95},
		{regexp.MustCompile(`(?i)\bcr\s*[:=]?\s*` + numRe), "mg/dL", 0.7},
	},
	"egfr": {
		{regexp.MustCompile(`(?i)\be?gfr\s*(?:of|is|was|at|[:=])?\s*` + numRe), "mL/min/1.73m2", 0.95},
	},
	"potassium": {
		{regexp.MustCompile(`(?i)\bpotassium\s*(?:of|is|was|at|[:=])?\s*` + numRe), "mEq/L", 0.95},
		{regexp.MustCompile(`(?i)\bk\+?\s*[:=]\s*` + numRe), "mEq/L", 0.7},
	},
	"sodium": {
		{regexp.MustCompile(`(?i)\bsodium\s*(?:of|is|was|at|[:=])?\s*` + numRe), "mEq/L", 0.95},
		{regexp.MustCompile(`(?i)\bna\+?\s*[:=]\s*` + numRe), "mEq/L", 0.7},
	},
	"hemoglobin": {
		{regexp.MustCompile(`(?i)\bhemoglobin\s*(?:of|is|was|at|[:=])?\s*` + numRe), "g/dL", 0.95},
		{regexp.MustCompile(`(?i)\bhgb\s*[:=]?\s*` + numRe), "g/dL", 0.8},
	},
	"wbc": {
		{regexp.MustCompile(`(?i)\b(?:wbc|white\s+blood\s+cell\s+count)\s*(?:of|is|was|at|[:=])?\s*` + numRe), "K/uL", 0.9},
	},
	"platelets": {
		{regexp.MustCompile(`(?i)\b(?:platelets?|plt)\s*(?:of|is|was|at|count)?\s*[:=]?\s*` + numRe), "K/uL", 0.9},
	},
}

var vitalPatterns = map[string][]numericPattern{
	"heart_rate": {
		{regexp.MustCompile(`(?i)\b(?:heart\s+rate|pulse)\s*(?:of|is|was|at|[:=])?\s*` + numRe), "bpm", 0.95},
		{regexp.MustCompile(`(?i)\bhr\s*[:=]?\s*` + numRe), "bpm", 0.8},
	},
	"temperature": {
		{regexp.MustCompile(`(?i)\b(?:temperature|temp)\s*(?:of|is|was|at|[:=])?\s*` + numRe + `\s*(?:°\s*)?f?\b`), "F", 0.9},
	},
	"respiratory_rate": {
		{regexp.MustCompile(`(?i)\b(?:respiratory\s+rate|resp\s+rate)\s*(?:of|is|was|at|[:=])?\s*` + numRe), "breaths/min", 0.95},
		{regexp.MustCompile(`(?i)\brr\s*[:=]?\s*` + numRe), "breaths/min", 0.7},
	},
	"spo2": {
		{regexp.MustCompile(`(?i)\b(?:spo2|sp02|o2\s+sat(?:uration)?|oxygen\s+saturation)\s*(?:of|is|was|at|[:=])?\s*` + numRe + `\s*%?`), "%", 0.95},
	},
	"bmi": {
		{regexp.MustCompile(`(?i)\bbmi\s*(?:of|is|was|at|[:=])?\s*` + numRe), "kg/m2", 0.95},
		{regexp.MustCompile(`(?i)\bbody\s+mass\s+index\s*(?:of|is|was|at|[:=])?\s*` + numRe), "kg/m2", 0.95},
	},
}

var (
	bpLabeledRe = regexp.MustCompile(`(?i)\b(?:bp|blood\s+pressure)\s*(?:of|is|was|at|[:=])?\s*(\d{2,3})\s*/\s*(\d{2,3})`)
	bpBareRe    = regexp.MustCompile(`(?i)\b(\d{2,3})\s*/\s*(\d{2,3})\s*(?:mm\s?hg)`)

	tempCelsiusRe = regexp.MustCompile(`(?i)\b(?:temperature|temp)\s*(?:of|is|was|at|[:=])?\s*(\d{2}(?:\.\d+)?)\s*(?:°\s*)?c\b`)

	weightKgRe = regexp.MustCompile(`(?i)\b(?:weight|wt)\s*(?:of|is|was|at|[:=])?\s*` + numRe + `\s*(?:kg|kilograms?)\b`)
	weightLbRe = regexp.MustCompile(`(?i)\b(?:weight|wt)\s*(?:of|is|was|at|[:=])?\s*` + numRe + `\s*(?:lbs?|pounds?)\b`)

	heightCmRe = regexp.MustCompile(`(?i)\b(?:height|ht)\s*(?:of|is|was|at|[:=])?\s*` + numRe + `\s*(?:cm|centimeters?)\b`)
	heightFtRe = regexp.MustCompile(`(?i)\b(?:height|ht)\s*(?:of|is|was|at|[:=])?\s*(\d)\s*'\s*(\d{1,2})\s*"?`)
)

func parseWith(text, field string, patterns []numericPattern) *ParsedValue {
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || !inBounds(field, v) {
			continue
		}
		return &ParsedValue{Value: v, Unit: p.unit, Confidence: p.confidence}
	}
	return nil
}

// ParseLab parses one named lab value out of the note. A miss or an
// implausible value returns nil.
func ParseLab(text, field string) *ParsedValue {
	return parseWith(text, field, labPatterns[field])
}

// ParseVital parses one named vital sign out of the note. Celsius
// temperatures are normalized to Fahrenheit before the bound check.
func ParseVital(text, field string) *ParsedValue {
	if field == "temperature" {
		if m := tempCelsiusRe.FindStringSubmatch(text); m != nil {
			if c, err := strconv.ParseFloat(m[1], 64); err == nil {
				f := c*9/5 + 32
				if inBounds("temperature", f) {
					return &ParsedValue{Value: f, Unit: "F", Confidence: 0.9}
				}
			}
		}
	}
	return parseWith(text, field, vitalPatterns[field])
}

// BloodPressure is a parsed systolic/diastolic pair.
type BloodPressure struct {
	Systolic   int
	Diastolic  int
	Confidence float64
}

// ParseBloodPressure matches labeled readings ("BP 148/92") and bare readings
// followed by a unit ("148/92 mmHg"). Both components must be in bounds.
func ParseBloodPressure(text string) *BloodPressure {
	for _, cand := range []struct {
		re   *regexp.Regexp
		conf float64
	}{{bpLabeledRe, 0.95}, {bpBareRe, 0.8}} {
		m := cand.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		sys, err1 := strconv.Atoi(m[1])
		dia, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			continue
		}
		if !inBounds("systolic", float64(sys)) || !inBounds("diastolic", float64(dia)) {
			continue
		}
		return &BloodPressure{Systolic: sys, Diastolic: dia, Confidence: cand.conf}
	}
	return nil
}

// ParseWeight returns the weight with its source unit tagged ("kg" or "lb");
// no silent conversion, downstream consumers decide.
func ParseWeight(text string) *ParsedValue {
	if m := weightKgRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && inBounds("weight_kg", v) {
			return &ParsedValue{Value: v, Unit: "kg", Confidence: 0.95}
		}
	}
	if m := weightLbRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && inBounds("weight_lb", v) {
			return &ParsedValue{Value: v, Unit: "lb", Confidence: 0.95}
		}
	}
	return nil
}

// ParseHeight normalizes feet/inches notation to centimeters.
func ParseHeight(text string) *ParsedValue {
	if m := heightCmRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && inBounds("height_cm", v) {
			return &ParsedValue{Value: v, Unit: "cm", Confidence: 0.95}
		}
	}
	if m := heightFtRe.FindStringSubmatch(text); m != nil {
		ft, err1 := strconv.Atoi(m[1])
		in, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil && in < 12 {
			cm := (float64(ft)*12 + float64(in)) * 2.54
			if inBounds("height_cm", cm) {
				return &ParsedValue{Value: cm, Unit: "cm", Confidence: 0.85}
			}
		}
	}
	return nil
}
