package domain

import (
	"context"
	"time"
)

// Application status constants
const (
	ApplicationStatusApplied     = "applied"
	ApplicationStatusReviewed    = "reviewed"
	ApplicationStatusShortlisted = "shortlisted"
	ApplicationStatusRejected    = "rejected"
)

var ApplicationStatuses = []string{
	ApplicationStatusApplied,
	ApplicationStatusReviewed,
	ApplicationStatusShortlisted,
	ApplicationStatusRejected,
}

func IsApplicationStatus(s string) bool {
	for _, st := range ApplicationStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Application links one applicant to one job. RecruiterID is copied from
// the job when the application is created.
type Application struct {
	ID          string    `json:"_id"`
	JobID       string    `json:"job"`
	ApplicantID string    `json:"applicant"`
	RecruiterID string    `json:"recruiter"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ApplicationQuery narrows an application lookup. A nil JobIDs does not
// constrain; a non-nil empty slice matches nothing.
type ApplicationQuery struct {
	JobIDs      []string
	ApplicantID string
	RecruiterID string
	Status      string
}

type ApplicationRepository interface {
	// Create fails with ErrDuplicate when the (job, applicant) pair exists.
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	FindByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*Application, error)
	// Find returns matching applications newest first.
	Find(ctx context.Context, q ApplicationQuery) ([]Application, error)
	UpdateStatus(ctx context.Context, id, status string) (*Application, error)
	Delete(ctx context.Context, id string) error
	// DeleteByJob removes every application for the job and returns their ids.
	DeleteByJob(ctx context.Context, jobID string) ([]string, error)
}

// JobSummary is the job attached to application listings.
type JobSummary struct {
	ID       string `json:"_id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Salary   string `json:"salary,omitempty"`
	Type     string `json:"type,omitempty"`
}

// RecruiterApplicationView is one row of a recruiter's application list.
type RecruiterApplicationView struct {
	ID        string       `json:"_id"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Job       *JobSummary  `json:"job"`
	Applicant *UserSummary `json:"applicant"`
}

// ApplicantApplicationView is one row of an applicant's own list.
type ApplicantApplicationView struct {
	ID        string      `json:"_id"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Job       *JobSummary `json:"job"`
}

// JobApplicationView is one application for a job, seen by its owner.
type JobApplicationView struct {
	ID        string           `json:"_id"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Applicant ApplicantProfile `json:"applicant"`
}

// StatusUpdateView is returned after a status change.
type StatusUpdateView struct {
	ID          string       `json:"_id"`
	JobID       string       `json:"job"`
	RecruiterID string       `json:"recruiter"`
	Status      string       `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Applicant   *UserSummary `json:"applicant"`
}

// ApplyResult reports either a new application or that one already existed.
type ApplyResult struct {
	Application    *Application
	AlreadyApplied bool
}

type RecruiterApplicationFilter struct {
	JobID  string
	Status string
}

type StatusUpdateRequest struct {
	ApplicationID string `json:"applicationId" validate:"required"`
	Status        string `json:"status" validate:"required,oneof=applied reviewed shortlisted rejected"`
}

type ApplyRequest struct {
	JobID string `json:"jobId"`
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, applicantID, jobID string) (*ApplyResult, error)
	SetStatus(ctx context.Context, recruiterID string, req StatusUpdateRequest) (*StatusUpdateView, error)
	ListForRecruiter(ctx context.Context, recruiterID string, filter RecruiterApplicationFilter) ([]RecruiterApplicationView, error)
	ExportForRecruiter(ctx context.Context, recruiterID string, filter RecruiterApplicationFilter) ([]byte, string, error)
	ListForApplicant(ctx context.Context, applicantID string) ([]ApplicantApplicationView, error)
	ListForJob(ctx context.Context, recruiterID, jobID string) ([]JobApplicationView, error)
}
