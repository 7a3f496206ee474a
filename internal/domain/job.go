package domain

import (
	"context"
	"time"
)

// Job types as displayed and stored
const (
	JobTypeFullTime   = "Full-time"
	JobTypePartTime   = "Part-time"
	JobTypeContract   = "Contract"
	JobTypeInternship = "Internship"
)

var JobTypes = []string{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship}

func IsJobType(s string) bool {
	for _, t := range JobTypes {
		if t == s {
			return true
		}
	}
	return false
}

// SalaryRange is the structured form of the free-text salary, in whole
// currency units per year as written (no FX conversion). Max is 0 when the
// text had only a lower bound.
type SalaryRange struct {
	Min      int64  `json:"min"`
	Max      int64  `json:"max,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// ExperienceRange is the structured form of the free-text experience, in
// years. Max is -1 for open-ended ranges such as "5+ years".
type ExperienceRange struct {
	MinYears int `json:"minYears"`
	MaxYears int `json:"maxYears"`
}

type Job struct {
	ID           string    `json:"_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Salary       string    `json:"salary"`
	Experience   string    `json:"experience"`
	Type         string    `json:"type"`
	Requirements []string  `json:"requirements"`
	RecruiterID  string    `json:"recruiter"`
	Applications []string  `json:"applications"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Derived at write time from Salary/Experience; nil when unparseable
	SalaryRange     *SalaryRange     `json:"salaryRange,omitempty"`
	ExperienceRange *ExperienceRange `json:"experienceRange,omitempty"`
}

// Derive recomputes the structured salary and experience ranges.
func (j *Job) Derive() {
	j.SalaryRange = ParseSalary(j.Salary)
	j.ExperienceRange = ParseExperience(j.Experience)
}

type JobInput struct {
	Title        string   `json:"title" validate:"required,not_blank,max=200"`
	Description  string   `json:"description" validate:"required,not_blank,max=10000"`
	Company      string   `json:"company" validate:"required,not_blank,max=200"`
	Location     string   `json:"location" validate:"required,not_blank,max=200"`
	Salary       string   `json:"salary" validate:"required,not_blank,max=100"`
	Experience   string   `json:"experience" validate:"required,not_blank,max=100"`
	Type         string   `json:"type" validate:"required,oneof=Full-time Part-time Contract Internship"`
	Requirements []string `json:"requirements" validate:"required,min=1,max=50,dive,not_blank,max=500"`
}

// JobPatch holds optional updates; nil fields are left unchanged.
type JobPatch struct {
	Title        *string   `json:"title" validate:"omitempty,not_blank,max=200"`
	Description  *string   `json:"description" validate:"omitempty,not_blank,max=10000"`
	Company      *string   `json:"company" validate:"omitempty,not_blank,max=200"`
	Location     *string   `json:"location" validate:"omitempty,not_blank,max=200"`
	Salary       *string   `json:"salary" validate:"omitempty,not_blank,max=100"`
	Experience   *string   `json:"experience" validate:"omitempty,not_blank,max=100"`
	Type         *string   `json:"type" validate:"omitempty,oneof=Full-time Part-time Contract Internship"`
	Requirements *[]string `json:"requirements" validate:"omitempty,min=1,max=50,dive,not_blank,max=500"`
}

func (p JobPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Company == nil && p.Location == nil &&
		p.Salary == nil && p.Experience == nil && p.Type == nil && p.Requirements == nil
}

// Apply copies the set fields onto job and refreshes derived values.
func (p JobPatch) Apply(job *Job) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&job.Title, p.Title)
	set(&job.Description, p.Description)
	set(&job.Company, p.Company)
	set(&job.Location, p.Location)
	set(&job.Salary, p.Salary)
	set(&job.Experience, p.Experience)
	set(&job.Type, p.Type)
	if p.Requirements != nil {
		job.Requirements = append([]string(nil), (*p.Requirements)...)
	}
	job.Derive()
}

// JobQuery narrows a job lookup. Empty fields do not constrain; a non-nil
// empty IDs slice matches nothing.
type JobQuery struct {
	IDs         []string
	RecruiterID string
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	// Find returns matching jobs newest first.
	Find(ctx context.Context, q JobQuery) ([]Job, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id string) error
	AddApplication(ctx context.Context, jobID, applicationID string) error
	RemoveApplication(ctx context.Context, jobID, applicationID string) error
}

type JobUsecase interface {
	// ListJobs returns a single shaped job when filter.JobID is set,
	// otherwise a slice of shaped jobs.
	ListJobs(ctx context.Context, caller Caller, filter JobFilter) (interface{}, error)
	CreateJob(ctx context.Context, recruiterID string, input JobInput) (*Job, error)
	UpdateJob(ctx context.Context, recruiterID, jobID string, patch JobPatch) (*Job, error)
	DeleteJob(ctx context.Context, recruiterID, jobID string) error
}
