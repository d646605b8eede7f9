package extraction

import (
	"regexp"
	"strings"
)

// diagnosisEntry is one row of the diagnosis terminology table. Terms are
// exact clinical phrasings (high confidence); Fuzzy are looser mentions that
// still imply the condition (lower confidence).
type diagnosisEntry struct {
	Name  string
	Code  string
	Terms []string
	Fuzzy []string
}

const (
	exactMatchConfidence = 0.95
	fuzzyMatchConfidence = 0.7
)

var diagnosisCatalog = []diagnosisEntry{
	{"Type 2 diabetes mellitus", "E11.9",
		[]string{"type 2 diabetes", "type ii diabetes", "diabetes mellitus type 2", "t2dm", "dm2", "dm type 2"},
		[]string{"diabetes", "diabetic"}},
	{"Type 1 diabetes mellitus", "E10.9",
		[]string{"type 1 diabetes", "type i diabetes", "diabetes mellitus type 1", "t1dm", "dm1"},
		nil},
	{"Essential hypertension", "I10",
		[]string{"hypertension", "htn", "high blood pressure"},
		[]string{"elevated blood pressure"}},
	{"Chronic kidney disease", "N18.9",
		[]string{"chronic kidney disease", "ckd", "chronic renal insufficiency"},
		[]string{"renal insufficiency", "kidney disease"}},
	{"Heart failure", "I50.9",
		[]string{"heart failure", "chf", "congestive heart failure", "hfref", "hfpef"},
		[]string{"cardiomyopathy"}},
	{"Chronic obstructive pulmonary disease", "J44.9",
		[]string{"copd", "chronic obstructive pulmonary disease", "emphysema", "chronic bronchitis"},
		nil},
	{"Asthma", "J45.909",
		[]string{"asthma"},
		[]string{"reactive airway disease"}},
	{"Coronary artery disease", "I25.10",
		[]string{"coronary artery disease", "cad", "ischemic heart disease", "coronary heart disease"},
		[]string{"angina"}},
	{"Atrial fibrillation", "I48.91",
		[]string{"atrial fibrillation", "afib", "a-fib", "atrial flutter"},
		nil},
	{"Hyperlipidemia", "E78.5",
		[]string{"hyperlipidemia", "dyslipidemia", "hypercholesterolemia"},
		[]string{"high cholesterol", "elevated cholesterol"}},
	{"Major depressive disorder", "F32.9",
		[]string{"major depressive disorder", "major depression", "mdd"},
		[]string{"depression", "depressed mood"}},
	{"Anxiety disorder", "F41.9",
		[]string{"generalized anxiety disorder", "anxiety disorder", "gad"},
		[]string{"anxiety"}},
	{"Obesity", "E66.9",
		[]string{"obesity", "morbid obesity", "morbidly obese"},
		[]string{"obese"}},
	{"Hypothyroidism", "E03.9",
		[]string{"hypothyroidism", "hypothyroid"},
		nil},
	{"Anemia", "D64.9",
		[]string{"iron deficiency anemia", "anemia"},
		[]string{"anemic"}},
	{"Cerebrovascular disease", "I63.9",
		[]string{"stroke", "cva", "cerebrovascular accident", "tia", "transient ischemic attack"},
		nil},
	{"Attention-deficit hyperactivity disorder", "F90.9",
		[]string{"adhd", "attention deficit hyperactivity disorder", "attention-deficit"},
		nil},
	{"Pregnancy", "Z33.1",
		[]string{"pregnant", "pregnancy", "gravid"},
		nil},
	{"Gastroesophageal reflux disease", "K21.9",
		[]string{"gerd", "gastroesophageal reflux"},
		[]string{"acid reflux", "heartburn"}},
	{"Osteoarthritis", "M19.90",
		[]string{"osteoarthritis", "degenerative joint disease"},
		[]string{"arthritis"}},
}

// Status/severity qualifiers are looked for in a window around the matched
// term so that "history of stroke" does not read as an active stroke.
var (
	historicalRe = regexp.MustCompile(`(?i)\b(?:history\s+of|h/o|hx\s+of|prior|previous|resolved|s/p)\b`)
	severityRe   = regexp.MustCompile(`(?i)\b(severe|moderate|mild|acute|chronic|uncontrolled|poorly\s+controlled|well[\s-]controlled|end[\s-]stage)\b`)
)

const qualifierWindow = 40

// matchDiagnoses scans the lowercased note against the terminology table.
// Each catalogue row yields at most one diagnosis; exact terms beat fuzzy.
func matchDiagnoses(note string) []Diagnosis {
	lower := strings.ToLower(note)
	var out []Diagnosis
	for _, entry := range diagnosisCatalog {
		idx, conf := -1, 0.0
		for _, t := range entry.Terms {
			if i := indexWord(lower, t); i >= 0 {
				idx, conf = i, exactMatchConfidence
				break
			}
		}
		if idx < 0 {
			for _, t := range entry.Fuzzy {
				if i := indexWord(lower, t); i >= 0 {
					idx, conf = i, fuzzyMatchConfidence
					break
				}
			}
		}
		if idx < 0 {
			continue
		}
		window := windowBefore(lower, idx, qualifierWindow)
		status := "active"
		if historicalRe.MatchString(window) {
			status = "historical"
		}
		severity := ""
		if m := severityRe.FindString(window); m != "" {
			severity = strings.ToLower(m)
		}
		out = append(out, Diagnosis{
			Name:         entry.Name,
			InferredCode: entry.Code,
			Status:       status,
			Severity:     severity,
			Confidence:   conf,
		})
	}
	return out
}

// medicationEntry covers the drugs the rule catalogue cares about, grouped by
// class where the evaluator needs class context (statins, ADHD medication).
type medicationEntry struct {
	Name  string
	Terms []string
}

var medicationCatalog = []medicationEntry{
	{"metformin", []string{"metformin", "glucophage"}},
	{"insulin", []string{"insulin", "lantus", "glargine", "humalog", "lispro", "novolog"}},
	{"glipizide", []string{"glipizide"}},
	{"empagliflozin", []string{"empagliflozin", "jardiance"}},
	{"semaglutide", []string{"semaglutide", "ozempic"}},
	{"lisinopril", []string{"lisinopril"}},
	{"losartan", []string{"losartan"}},
	{"amlodipine", []string{"amlodipine", "norvasc"}},
	{"metoprolol", []string{"metoprolol"}},
	{"carvedilol", []string{"carvedilol"}},
	{"hydrochlorothiazide", []string{"hydrochlorothiazide", "hctz"}},
	{"furosemide", []string{"furosemide", "lasix"}},
	{"atorvastatin", []string{"atorvastatin", "lipitor"}},
	{"rosuvastatin", []string{"rosuvastatin", "crestor"}},
	{"simvastatin", []string{"simvastatin", "zocor"}},
	{"pravastatin", []string{"pravastatin"}},
	{"aspirin", []string{"aspirin", "asa"}},
	{"clopidogrel", []string{"clopidogrel", "plavix"}},
	{"warfarin", []string{"warfarin", "coumadin"}},
	{"apixaban", []string{"apixaban", "eliquis"}},
	{"levothyroxine", []string{"levothyroxine", "synthroid"}},
	{"sertraline", []string{"sertraline", "zoloft"}},
	{"fluoxetine", []string{"fluoxetine", "prozac"}},
	{"escitalopram", []string{"escitalopram", "lexapro"}},
	{"methylphenidate", []string{"methylphenidate", "ritalin", "concerta"}},
	{"amphetamine-dextroamphetamine", []string{"adderall", "dextroamphetamine"}},
	{"albuterol", []string{"albuterol", "ventolin"}},
	{"tiotropium", []string{"tiotropium", "spiriva"}},
	{"prednisone", []string{"prednisone"}},
	{"omeprazole", []string{"omeprazole", "prilosec"}},
	{"gabapentin", []string{"gabapentin", "neurontin"}},
}

var (
	doseRe      = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?\s*(?:mg|mcg|g|units?|ml))\b`)
	frequencyRe = regexp.MustCompile(`(?i)\b(once\s+daily|twice\s+daily|three\s+times\s+daily|daily|nightly|weekly|bid|tid|qid|qd|qhs|qam|prn|at\s+bedtime)\b`)
	routeRe     = regexp.MustCompile(`(?i)\b(po|oral(?:ly)?|subcutaneous(?:ly)?|subq|sq|im|iv|inhaled|topical|sublingual)\b`)
)

const doseWindow = 60

// matchMedications finds drug mentions and pulls dose/frequency/route out of
// the text immediately following each mention.
func matchMedications(note string) []Medication {
	lower := strings.ToLower(note)
	var out []Medication
	for _, entry := range medicationCatalog {
		idx := -1
		var term string
		for _, t := range entry.Terms {
			if i := indexWord(lower, t); i >= 0 {
				idx, term = i, t
				break
			}
		}
		if idx < 0 {
			continue
		}
		tail := windowAfter(lower, idx+len(term), doseWindow)
		med := Medication{Name: entry.Name}
		if m := doseRe.FindStringSubmatch(tail); m != nil {
			med.Dose = strings.Join(strings.Fields(m[1]), " ")
		}
		if m := frequencyRe.FindString(tail); m != "" {
			med.Frequency = strings.Join(strings.Fields(m), " ")
		}
		if m := routeRe.FindString(tail); m != "" {
			med.Route = m
		}
		out = append(out, med)
	}
	return out
}

type procedureEntry struct {
	Name  string
	Code  string
	Terms []string
}

var procedureCatalog = []procedureEntry{
	{"Electrocardiogram", "93000", []string{"ekg", "ecg", "electrocardiogram"}},
	{"Echocardiogram", "93306", []string{"echocardiogram", "echo performed", "tte"}},
	{"Chest X-ray", "71046", []string{"chest x-ray", "chest xray", "cxr"}},
	{"Spirometry", "94010", []string{"spirometry", "pulmonary function test", "pft"}},
	{"Stress test", "93015", []string{"stress test", "treadmill test"}},
	{"Cardiac catheterization", "93458", []string{"cardiac catheterization", "cardiac cath", "angiogram"}},
	{"Joint injection", "20610", []string{"joint injection", "corticosteroid injection"}},
	{"Skin biopsy", "11102", []string{"skin biopsy", "punch biopsy", "shave biopsy"}},
}

func matchProcedures(note string) []Procedure {
	lower := strings.ToLower(note)
	var out []Procedure
	for _, entry := range procedureCatalog {
		for _, t := range entry.Terms {
			if indexWord(lower, t) >= 0 {
				out = append(out, Procedure{Name: entry.Name, Code: entry.Code})
				break
			}
		}
	}
	return out
}

// screeningTerms maps each Screenings field to its documented phrasings.
// Matching is presence-only; dates are not modeled at this stage.
var screeningTerms = []struct {
	set   func(*Screenings)
	terms []string
}{
	{func(s *Screenings) { s.Mammogram = true }, []string{"mammogram", "mammography", "breast imaging"}},
	{func(s *Screenings) { s.Colonoscopy = true }, []string{"colonoscopy", "sigmoidoscopy"}},
	{func(s *Screenings) { s.CervicalCancer = true }, []string{"pap smear", "pap test", "cervical cytology", "hpv test"}},
	{func(s *Screenings) { s.DiabeticEye = true }, []string{"diabetic eye exam", "retinal exam", "dilated eye exam", "retinopathy screening", "ophthalmology exam"}},
	{func(s *Screenings) { s.DiabeticFoot = true }, []string{"diabetic foot exam", "foot exam", "monofilament"}},
	{func(s *Screenings) { s.DepressionScreening = true }, []string{"phq-9", "phq9", "depression screening", "depression screen"}},
	{func(s *Screenings) { s.FITTest = true }, []string{"fit test", "fecal immunochemical", "fobt", "cologuard", "stool dna"}},
	{func(s *Screenings) { s.LungCancer = true }, []string{"low-dose ct", "low dose ct", "ldct", "lung cancer screening"}},
}

func matchScreenings(note string) Screenings {
	lower := strings.ToLower(note)
	var s Screenings
	for _, entry := range screeningTerms {
		for _, t := range entry.terms {
			if indexWord(lower, t) >= 0 {
				entry.set(&s)
				break
			}
		}
	}
	return s
}

var symptomTerms = []string{
	"chest pain", "shortness of breath", "dyspnea", "palpitations", "dizziness",
	"fatigue", "headache", "nausea", "vomiting", "abdominal pain", "back pain",
	"cough", "fever", "chills", "weight loss", "night sweats", "edema",
	"polyuria", "polydipsia", "blurred vision", "numbness", "tingling",
}

func matchSymptoms(note string) []string {
	lower := strings.ToLower(note)
	var out []string
	for _, t := range symptomTerms {
		if indexWord(lower, t) >= 0 {
			out = append(out, t)
		}
	}
	return out
}

var socialHistoryTerms = []string{
	"current smoker", "former smoker", "never smoker", "tobacco use",
	"smokes", "alcohol use", "drinks alcohol", "alcohol abuse", "illicit drug use",
	"marijuana", "sedentary", "exercises regularly", "lives alone",
}

func matchSocialHistory(note string) []string {
	lower := strings.ToLower(note)
	var out []string
	for _, t := range socialHistoryTerms {
		if indexWord(lower, t) >= 0 {
			out = append(out, t)
		}
	}
	return out
}

// ageRe and genderRe recover demographics from the note itself when the
// caller did not supply them ("65-year-old male").
var (
	ageRe    = regexp.MustCompile(`(?i)\b(\d{1,3})[\s-]*(?:year|yr|y)[\s-]*(?:old|o)\b`)
	genderRe = regexp.MustCompile(`(?i)\b(male|female|man|woman|gentleman|lady)\b`)
)

func matchDemographics(note string) Demographics {
	var d Demographics
	if m := ageRe.FindStringSubmatch(note); m != nil {
		if age := atoiSafe(m[1]); age > 0 && age < 130 {
			d.Age = &age
		}
	}
	if m := genderRe.FindStringSubmatch(note); m != nil {
		switch strings.ToLower(m[1]) {
		case "male", "man", "gentleman":
			d.Gender = "male"
		default:
			d.Gender = "female"
		}
	}
	return d
}
