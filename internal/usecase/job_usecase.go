package usecase

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

type jobUsecase struct {
	jobRepo  domain.JobRepository
	appRepo  domain.ApplicationRepository
	userRepo domain.UserRepository
	validate *validator.Validate
}

func NewJobUsecase(
	jobRepo domain.JobRepository,
	appRepo domain.ApplicationRepository,
	userRepo domain.UserRepository,
	validate *validator.Validate,
) domain.JobUsecase {
	return &jobUsecase{
		jobRepo:  jobRepo,
		appRepo:  appRepo,
		userRepo: userRepo,
		validate: validate,
	}
}

// ListJobs resolves the candidate set for the caller, applies the filter
// predicates and shapes each job for the caller's role.
func (u *jobUsecase) ListJobs(ctx context.Context, caller domain.Caller, filter domain.JobFilter) (interface{}, error) {
	if filter.JobID != "" {
		job, err := u.jobRepo.GetByID(ctx, filter.JobID)
		if err != nil {
			return nil, notFoundOr(err, "Job not found")
		}
		sc, err := u.shapeContext(ctx, caller, []domain.Job{*job})
		if err != nil {
			return nil, apperror.Internal(err)
		}
		return domain.ShapeJob(caller, job, sc), nil
	}

	var q domain.JobQuery
	switch {
	case caller.IsApplicant() && filter.AppliedOnly:
		applied, err := u.appliedJobIDs(ctx, caller.UserID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		q.IDs = make([]string, 0, len(applied))
		for id := range applied {
			q.IDs = append(q.IDs, id)
		}
	case caller.IsRecruiter():
		q.RecruiterID = caller.UserID
	}

	jobs, err := u.jobRepo.Find(ctx, q)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	jobs = filter.FilterJobs(jobs)

	sc, err := u.shapeContext(ctx, caller, jobs)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return domain.ShapeJobs(caller, jobs, sc), nil
}

// shapeContext gathers what ShapeJob needs by querying applications rather
// than trusting the denormalized id lists on jobs and users.
func (u *jobUsecase) shapeContext(ctx context.Context, caller domain.Caller, jobs []domain.Job) (domain.ShapeContext, error) {
	var sc domain.ShapeContext

	switch caller.Kind {
	case domain.CallerApplicant:
		applied, err := u.appliedJobIDs(ctx, caller.UserID)
		if err != nil {
			return sc, err
		}
		sc.AppliedJobIDs = applied

	case domain.CallerRecruiter:
		owned := make([]string, 0, len(jobs))
		for i := range jobs {
			if jobs[i].RecruiterID == caller.UserID {
				owned = append(owned, jobs[i].ID)
			}
		}
		if len(owned) == 0 {
			return sc, nil
		}

		apps, err := u.appRepo.Find(ctx, domain.ApplicationQuery{JobIDs: owned})
		if err != nil {
			return sc, err
		}
		applicants, err := u.userRepo.GetByIDs(ctx, uniqueIDs(apps, func(a domain.Application) string { return a.ApplicantID }))
		if err != nil {
			return sc, err
		}

		sc.ApplicationsByJob = make(map[string][]domain.JobApplicationEntry, len(owned))
		for _, app := range apps {
			sc.ApplicationsByJob[app.JobID] = append(sc.ApplicationsByJob[app.JobID], domain.JobApplicationEntry{
				ID:        app.ID,
				Status:    app.Status,
				CreatedAt: app.CreatedAt,
				UpdatedAt: app.UpdatedAt,
				Applicant: summaryOf(applicants[app.ApplicantID]),
			})
		}
	}
	return sc, nil
}

func (u *jobUsecase) appliedJobIDs(ctx context.Context, applicantID string) (map[string]bool, error) {
	apps, err := u.appRepo.Find(ctx, domain.ApplicationQuery{ApplicantID: applicantID})
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(apps))
	for _, a := range apps {
		ids[a.JobID] = true
	}
	return ids, nil
}

func (u *jobUsecase) CreateJob(ctx context.Context, recruiterID string, input domain.JobInput) (*domain.Job, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	job := &domain.Job{
		Title:        input.Title,
		Description:  input.Description,
		Company:      input.Company,
		Location:     input.Location,
		Salary:       input.Salary,
		Experience:   input.Experience,
		Type:         input.Type,
		Requirements: append([]string(nil), input.Requirements...),
		RecruiterID:  recruiterID,
	}
	job.Derive()

	if err := u.jobRepo.Create(ctx, job); err != nil {
		return nil, apperror.Internal(err)
	}
	return job, nil
}

func (u *jobUsecase) UpdateJob(ctx context.Context, recruiterID, jobID string, patch domain.JobPatch) (*domain.Job, error) {
	if patch.IsEmpty() {
		return nil, apperror.BadRequest("At least one field is required to update")
	}
	if err := u.validate.Struct(patch); err != nil {
		return nil, validationError(err)
	}

	job, err := u.ownedJob(ctx, recruiterID, jobID)
	if err != nil {
		return nil, err
	}

	patch.Apply(job)
	if err := u.jobRepo.Update(ctx, job); err != nil {
		return nil, notFoundOr(err, "Job not found")
	}
	return job, nil
}

// DeleteJob removes the job and cascades to its applications, pulling their
// ids out of the applicants' lists.
func (u *jobUsecase) DeleteJob(ctx context.Context, recruiterID, jobID string) error {
	if _, err := u.ownedJob(ctx, recruiterID, jobID); err != nil {
		return err
	}

	appIDs, err := u.appRepo.DeleteByJob(ctx, jobID)
	if err != nil {
		return apperror.Internal(fmt.Errorf("delete applications of job %s: %w", jobID, err))
	}

	var g errgroup.Group
	g.Go(func() error {
		return u.jobRepo.Delete(ctx, jobID)
	})
	g.Go(func() error {
		return u.userRepo.RemoveApplications(ctx, appIDs)
	})
	if err := g.Wait(); err != nil {
		return apperror.Internal(fmt.Errorf("delete job %s: %w", jobID, err))
	}
	return nil
}

func (u *jobUsecase) ownedJob(ctx context.Context, recruiterID, jobID string) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, notFoundOr(err, "Job not found")
	}
	if job.RecruiterID != recruiterID {
		return nil, apperror.Forbidden("You can only manage your own jobs")
	}
	return job, nil
}

func summaryOf(u *domain.User) *domain.UserSummary {
	if u == nil {
		return nil
	}
	s := u.Summary()
	return &s
}

// uniqueIDs collects the distinct non-empty keys of items in first-seen order.
func uniqueIDs[T any](items []T, key func(T) string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		id := key(it)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
