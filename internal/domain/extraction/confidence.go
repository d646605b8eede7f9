package extraction

import (
	"strconv"
	"strings"
	"unicode"
)

// clamp01 keeps every confidence score inside [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// categoryConfidence summarizes one entity category: the mean of its member
// confidences, or 0 when the category came back empty.
func categoryConfidence(confs []float64) float64 {
	if len(confs) == 0 {
		return 0
	}
	var sum float64
	for _, c := range confs {
		sum += c
	}
	return clamp01(sum / float64(len(confs)))
}

// overallConfidence is the mean of per-category confidences over every
// requested category. Empty categories contribute zero, so the score is
// implicitly weighted by how much of the note the extractor could cover.
func overallConfidence(perCategory []float64) float64 {
	if len(perCategory) == 0 {
		return 0
	}
	var sum float64
	for _, c := range perCategory {
		sum += c
	}
	return clamp01(sum / float64(len(perCategory)))
}

// indexWord returns the index of term inside s when the occurrence is
// delimited by non-alphanumeric runes on both sides, -1 otherwise.
func indexWord(s, term string) int {
	if term == "" {
		return -1
	}
	for from := 0; ; {
		i := strings.Index(s[from:], term)
		if i < 0 {
			return -1
		}
		i += from
		before := i == 0 || !isWordRune(rune(s[i-1]))
		end := i + len(term)
		after := end == len(s) || !isWordRune(rune(s[end]))
		if before && after {
			return i
		}
		from = i + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func containsAnyFold(s string, terms []string) bool {
	lower := strings.ToLower(s)
	for _, t := range terms {
		if strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

func windowBefore(s string, idx, n int) string {
	start := idx - n
	if start < 0 {
		start = 0
	}
	return s[start:idx]
}

func windowAfter(s string, idx, n int) string {
	if idx > len(s) {
		idx = len(s)
	}
	end := idx + n
	if end > len(s) {
		end = len(s)
	}
	return s[idx:end]
}

func atoiSafe(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
