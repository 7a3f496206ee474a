package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	salaryNumberRe = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*(lakhs|lakh|lacs|lac|lpa|crores|crore|cr|million|mn|k|l|m)?\b`)
	// What may sit between the two ends of a salary range, e.g. " - $" or " to rs. "
	salaryRangeSepRe = regexp.MustCompile(`^\s*(?:[₹$€£]|rs\.?|inr|usd|eur|gbp)?\s*(?:-|–|\x{2014}|to)\s*(?:[₹$€£]|rs\.?|inr|usd|eur|gbp)?\s*$`)

	experienceRangeRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:-|–|to)\s*(\d+(?:\.\d+)?)\s*\+?\s*(?:years?|yrs?)?`)
	experiencePlusRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\+`)
	experienceYearsRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:years?|yrs?)\b`)
)

var salaryMultipliers = map[string]float64{
	"k":       1e3,
	"l":       1e5,
	"lac":     1e5,
	"lacs":    1e5,
	"lakh":    1e5,
	"lakhs":   1e5,
	"lpa":     1e5,
	"m":       1e6,
	"mn":      1e6,
	"million": 1e6,
	"cr":      1e7,
	"crore":   1e7,
	"crores":  1e7,
}

var currencySymbols = []struct {
	symbol   string
	currency string
}{
	{"₹", "INR"}, {"$", "USD"}, {"€", "EUR"}, {"£", "GBP"},
}

var currencyWords = []struct {
	word     string
	currency string
}{
	{"inr", "INR"}, {"rs", "INR"}, {"lpa", "INR"}, {"lakh", "INR"}, {"lakhs", "INR"}, {"crore", "INR"},
	{"usd", "USD"}, {"eur", "EUR"}, {"gbp", "GBP"},
}

// ParseSalary extracts a numeric range from free text such as "₹80,000",
// "$50k - $70k", "1,00,000-1,50,000 INR" or "5-8 LPA". It returns nil when
// the text has no number. This is a heuristic over unstructured input.
func ParseSalary(text string) *SalaryRange {
	lower := strings.ToLower(text)
	matches := salaryNumberRe.FindAllStringSubmatchIndex(lower, 2)
	if len(matches) == 0 {
		return nil
	}
	// A second number is an upper bound only when a range separator joins it
	// to the first; "₹80,000 + 10% bonus" is a single figure.
	if len(matches) == 2 && !salaryRangeSepRe.MatchString(lower[matches[0][1]:matches[1][0]]) {
		matches = matches[:1]
	}

	values := make([]float64, 0, 2)
	units := make([]string, 0, 2)
	for _, m := range matches {
		v, err := strconv.ParseFloat(strings.ReplaceAll(lower[m[2]:m[3]], ",", ""), 64)
		if err != nil {
			return nil
		}
		unit := ""
		if m[4] >= 0 {
			unit = lower[m[4]:m[5]]
		}
		values = append(values, v)
		units = append(units, unit)
	}

	// "5-8 LPA" and "50-70k": the unit on the upper bound applies to both
	if len(values) == 2 && units[0] == "" && units[1] != "" {
		units[0] = units[1]
	}
	for i := range values {
		if mult, ok := salaryMultipliers[units[i]]; ok {
			values[i] *= mult
		}
	}

	r := &SalaryRange{Min: int64(values[0]), Currency: detectCurrency(lower)}
	if len(values) == 2 {
		lo, hi := int64(values[0]), int64(values[1])
		if hi < lo {
			lo, hi = hi, lo
		}
		r.Min, r.Max = lo, hi
	}
	return r
}

func detectCurrency(lower string) string {
	for _, c := range currencySymbols {
		if strings.Contains(lower, c.symbol) {
			return c.currency
		}
	}
	for _, c := range currencyWords {
		if containsWord(lower, c.word) {
			return c.currency
		}
	}
	return ""
}

// Experience synonyms, checked in order after numeric patterns. The most
// senior word in the text wins.
var experienceSynonyms = []struct {
	words []string
	rng   ExperienceRange
}{
	{[]string{"principal", "staff", "senior", "sr.", "lead", "expert", "architect"}, ExperienceRange{MinYears: 5, MaxYears: -1}},
	{[]string{"mid level", "mid-level", "mid", "intermediate", "experienced"}, ExperienceRange{MinYears: 3, MaxYears: 4}},
	{[]string{"entry level", "entry-level", "entry", "junior", "jr.", "fresher", "graduate", "intern", "internship", "trainee", "no experience"}, ExperienceRange{MinYears: 0, MaxYears: 2}},
}

// ParseExperience extracts a years range from free text such as
// "0-2 years", "3+ yrs", "5 years" or "Entry Level". It returns nil when
// nothing is recognised.
func ParseExperience(text string) *ExperienceRange {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return nil
	}

	if m := experienceRangeRe.FindStringSubmatch(lower); m != nil {
		lo, hi := atoiFloor(m[1]), atoiFloor(m[2])
		if hi < lo {
			lo, hi = hi, lo
		}
		return &ExperienceRange{MinYears: lo, MaxYears: hi}
	}
	if m := experiencePlusRe.FindStringSubmatch(lower); m != nil {
		return &ExperienceRange{MinYears: atoiFloor(m[1]), MaxYears: -1}
	}
	if m := experienceYearsRe.FindStringSubmatch(lower); m != nil {
		n := atoiFloor(m[1])
		return &ExperienceRange{MinYears: n, MaxYears: n}
	}

	for _, syn := range experienceSynonyms {
		for _, w := range syn.words {
			if containsWord(lower, w) {
				r := syn.rng
				return &r
			}
		}
	}
	return nil
}

func atoiFloor(s string) int {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f)
}

// containsWord reports whether w occurs in s bounded by non-letters.
func containsWord(s, w string) bool {
	for start := 0; ; {
		i := strings.Index(s[start:], w)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(w)
		beforeOK := i == 0 || !isLetter(s[i-1])
		afterOK := end == len(s) || !isLetter(s[end])
		if beforeOK && afterOK {
			return true
		}
		start = i + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
