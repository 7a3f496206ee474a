package domain

import "time"

// PublicJob is the projection every caller may see.
type PublicJob struct {
	ID           string    `json:"_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Requirements []string  `json:"requirements"`
	Salary       string    `json:"salary"`
	Type         string    `json:"type"`
	Experience   string    `json:"experience"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ApplicantJob struct {
	PublicJob
	IsApplied bool `json:"isApplied"`
}

// JobApplicationEntry is one application nested under a job its owner views.
type JobApplicationEntry struct {
	ID        string       `json:"_id"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Applicant *UserSummary `json:"applicant"`
}

type RecruiterJob struct {
	PublicJob
	Applications []JobApplicationEntry `json:"applications"`
}

// ShapeContext carries the reverse-query results shaping depends on.
type ShapeContext struct {
	// AppliedJobIDs holds the jobs an applicant caller has applied to
	AppliedJobIDs map[string]bool
	// ApplicationsByJob holds nested entries for jobs a recruiter caller owns
	ApplicationsByJob map[string][]JobApplicationEntry
}

func NewPublicJob(job *Job) PublicJob {
	return PublicJob{
		ID:           job.ID,
		Title:        job.Title,
		Description:  job.Description,
		Company:      job.Company,
		Location:     job.Location,
		Requirements: nonNil(job.Requirements),
		Salary:       job.Salary,
		Type:         job.Type,
		Experience:   job.Experience,
		CreatedAt:    job.CreatedAt,
	}
}

// ShapeJob projects job for caller. Only the owning recruiter sees nested
// applications; applicants get isApplied; everyone else the public view.
func ShapeJob(caller Caller, job *Job, sc ShapeContext) interface{} {
	base := NewPublicJob(job)

	switch caller.Kind {
	case CallerApplicant:
		return ApplicantJob{PublicJob: base, IsApplied: sc.AppliedJobIDs[job.ID]}
	case CallerRecruiter:
		if job.RecruiterID != caller.UserID {
			return base
		}
		entries := sc.ApplicationsByJob[job.ID]
		if entries == nil {
			entries = []JobApplicationEntry{}
		}
		return RecruiterJob{PublicJob: base, Applications: entries}
	default:
		return base
	}
}

// ShapeJobs shapes each job in order.
func ShapeJobs(caller Caller, jobs []Job, sc ShapeContext) []interface{} {
	out := make([]interface{}, 0, len(jobs))
	for i := range jobs {
		out = append(out, ShapeJob(caller, &jobs[i], sc))
	}
	return out
}
