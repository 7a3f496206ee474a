package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidFilter = errors.New("invalid filter")

type SalaryBand string

const (
	SalaryBandLow  SalaryBand = "0-50000"
	SalaryBandMid  SalaryBand = "50000-100000"
	SalaryBandHigh SalaryBand = "100000+"
)

type ExperienceBand string

const (
	ExperienceBandEntry  ExperienceBand = "entry"
	ExperienceBandMid    ExperienceBand = "mid"
	ExperienceBandSenior ExperienceBand = "senior"
)

func ParseSalaryBand(s string) (SalaryBand, error) {
	switch b := SalaryBand(strings.TrimSpace(s)); b {
	case "":
		return "", nil
	case SalaryBandLow, SalaryBandMid, SalaryBandHigh:
		return b, nil
	default:
		return "", fmt.Errorf("%w: salary must be one of %s, %s, %s", ErrInvalidFilter, SalaryBandLow, SalaryBandMid, SalaryBandHigh)
	}
}

func ParseExperienceBand(s string) (ExperienceBand, error) {
	switch b := ExperienceBand(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return "", nil
	case ExperienceBandEntry, ExperienceBandMid, ExperienceBandSenior:
		return b, nil
	default:
		return "", fmt.Errorf("%w: experience must be one of %s, %s, %s", ErrInvalidFilter, ExperienceBandEntry, ExperienceBandMid, ExperienceBandSenior)
	}
}

// contains reports whether a lower bound falls in the band.
func (b SalaryBand) contains(min int64) bool {
	switch b {
	case SalaryBandLow:
		return min >= 0 && min < 50000
	case SalaryBandMid:
		return min >= 50000 && min < 100000
	case SalaryBandHigh:
		return min >= 100000
	}
	return false
}

func (b ExperienceBand) contains(minYears int) bool {
	switch b {
	case ExperienceBandEntry:
		return minYears >= 0 && minYears <= 2
	case ExperienceBandMid:
		return minYears >= 3 && minYears <= 4
	case ExperienceBandSenior:
		return minYears >= 5
	}
	return false
}

var jobTypeTokens = map[string]string{
	"full-time":  JobTypeFullTime,
	"fulltime":   JobTypeFullTime,
	"part-time":  JobTypePartTime,
	"parttime":   JobTypePartTime,
	"contract":   JobTypeContract,
	"internship": JobTypeInternship,
	"intern":     JobTypeInternship,
}

// CanonicalJobType maps a query token like "full_time" or "Full Time" to
// the stored display value. ok is false for unmapped tokens.
func CanonicalJobType(token string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	t = strings.NewReplacer("_", "-", " ", "-").Replace(t)
	v, ok := jobTypeTokens[t]
	return v, ok
}

// JobFilter holds the listing filters. Empty fields do not constrain.
type JobFilter struct {
	JobID          string
	AppliedOnly    bool
	Location       string
	Type           string
	SalaryBand     SalaryBand
	ExperienceBand ExperienceBand
}

// HasPredicates reports whether any content predicate is set.
func (f JobFilter) HasPredicates() bool {
	return f.Location != "" || f.Type != "" || f.SalaryBand != "" || f.ExperienceBand != ""
}

// Matches applies the content predicates conjunctively. JobID and
// AppliedOnly are scoping rules handled by the caller.
func (f JobFilter) Matches(job *Job) bool {
	if loc := strings.TrimSpace(f.Location); loc != "" {
		if !strings.Contains(strings.ToLower(job.Location), strings.ToLower(loc)) {
			return false
		}
	}

	if f.Type != "" {
		if want, ok := CanonicalJobType(f.Type); ok {
			if job.Type != want {
				return false
			}
		} else if !strings.EqualFold(strings.TrimSpace(job.Type), strings.TrimSpace(f.Type)) {
			return false
		}
	}

	if f.SalaryBand != "" {
		r := job.SalaryRange
		if r == nil {
			r = ParseSalary(job.Salary)
		}
		if r == nil || !f.SalaryBand.contains(r.Min) {
			return false
		}
	}

	if f.ExperienceBand != "" {
		r := job.ExperienceRange
		if r == nil {
			r = ParseExperience(job.Experience)
		}
		if r == nil || !f.ExperienceBand.contains(r.MinYears) {
			return false
		}
	}

	return true
}

// FilterJobs returns the jobs that satisfy every predicate, keeping order.
func (f JobFilter) FilterJobs(jobs []Job) []Job {
	out := make([]Job, 0, len(jobs))
	for i := range jobs {
		if f.Matches(&jobs[i]) {
			out = append(out, jobs[i])
		}
	}
	return out
}
