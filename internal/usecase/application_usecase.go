package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/email"
	"go-jobboard-backend/pkg/logger"
)

// StatusNotifier tells an applicant their application status changed.
type StatusNotifier interface {
	IsConfigured() bool
	SendStatusUpdate(data email.StatusEmailData) error
}

type applicationUsecase struct {
	appRepo  domain.ApplicationRepository
	jobRepo  domain.JobRepository
	userRepo domain.UserRepository
	notifier StatusNotifier
	validate *validator.Validate
}

// NewApplicationUsecase creates a new application usecase. notifier may be nil.
func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	userRepo domain.UserRepository,
	notifier StatusNotifier,
	validate *validator.Validate,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		appRepo:  appRepo,
		jobRepo:  jobRepo,
		userRepo: userRepo,
		notifier: notifier,
		validate: validate,
	}
}

// Apply records an application for the job. A repeated apply reports the
// existing application instead of failing. The job and applicant id lists
// are written concurrently; if either write fails the application is rolled
// back and the failure is returned.
func (uc *applicationUsecase) Apply(ctx context.Context, applicantID, jobID string) (*domain.ApplyResult, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, apperror.BadRequest("Job ID is required")
	}

	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, notFoundOr(err, "Job not found")
	}

	existing, err := uc.appRepo.FindByJobAndApplicant(ctx, jobID, applicantID)
	switch {
	case err == nil:
		return &domain.ApplyResult{Application: existing, AlreadyApplied: true}, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, apperror.Internal(err)
	}

	app := &domain.Application{
		JobID:       job.ID,
		ApplicantID: applicantID,
		RecruiterID: job.RecruiterID,
		Status:      domain.ApplicationStatusApplied,
	}
	if err := uc.appRepo.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// A concurrent apply won the unique index
			existing, lookupErr := uc.appRepo.FindByJobAndApplicant(ctx, jobID, applicantID)
			if lookupErr != nil {
				logger.Log.Warn("could not load the existing application after a duplicate apply",
					zap.String("job_id", jobID), zap.String("applicant_id", applicantID), zap.Error(lookupErr))
			}
			return &domain.ApplyResult{Application: existing, AlreadyApplied: true}, nil
		}
		return nil, apperror.Internal(err)
	}

	// Finish the fan-out even if the client goes away
	writeCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.Go(func() error {
		if err := uc.jobRepo.AddApplication(writeCtx, job.ID, app.ID); err != nil {
			return fmt.Errorf("add application to job: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := uc.userRepo.AddApplication(writeCtx, applicantID, app.ID); err != nil {
			return fmt.Errorf("add application to user: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		uc.rollbackApply(writeCtx, app)
		return nil, apperror.Internal(err)
	}

	return &domain.ApplyResult{Application: app}, nil
}

// rollbackApply undoes a partially applied fan-out. It is best effort;
// anything it cannot undo is logged for repair.
func (uc *applicationUsecase) rollbackApply(ctx context.Context, app *domain.Application) {
	var g errgroup.Group
	g.Go(func() error {
		err := uc.jobRepo.RemoveApplication(ctx, app.JobID, app.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		err := uc.userRepo.RemoveApplication(ctx, app.ApplicantID, app.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Log.Error("apply rollback left a dangling application id",
			zap.String("application_id", app.ID), zap.Error(err))
	}
	if err := uc.appRepo.Delete(ctx, app.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Log.Error("apply rollback could not delete application",
			zap.String("application_id", app.ID), zap.Error(err))
	}
}

// SetStatus changes an application's status. Any status may follow any
// other; only the recruiter who owns the job may change it.
func (uc *applicationUsecase) SetStatus(ctx context.Context, recruiterID string, req domain.StatusUpdateRequest) (*domain.StatusUpdateView, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	app, err := uc.appRepo.GetByID(ctx, req.ApplicationID)
	if err != nil {
		return nil, notFoundOr(err, "Application not found")
	}

	owner := app.RecruiterID
	job, err := uc.jobRepo.GetByID(ctx, app.JobID)
	switch {
	case err == nil:
		owner = job.RecruiterID
	case !errors.Is(err, domain.ErrNotFound):
		return nil, apperror.Internal(err)
	}
	if owner != recruiterID {
		return nil, apperror.Forbidden("You can only update applications for your own jobs")
	}

	updated, err := uc.appRepo.UpdateStatus(ctx, app.ID, req.Status)
	if err != nil {
		return nil, notFoundOr(err, "Application not found")
	}

	var applicant *domain.User
	if u, err := uc.userRepo.GetByID(ctx, updated.ApplicantID); err == nil {
		applicant = u
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	if job != nil && applicant != nil && app.Status != updated.Status {
		uc.notifyStatus(applicant, job, updated.Status)
	}

	return &domain.StatusUpdateView{
		ID:          updated.ID,
		JobID:       updated.JobID,
		RecruiterID: updated.RecruiterID,
		Status:      updated.Status,
		CreatedAt:   updated.CreatedAt,
		UpdatedAt:   updated.UpdatedAt,
		Applicant:   summaryOf(applicant),
	}, nil
}

func (uc *applicationUsecase) notifyStatus(applicant *domain.User, job *domain.Job, status string) {
	if uc.notifier == nil || !uc.notifier.IsConfigured() {
		return
	}
	data := email.StatusEmailData{
		ApplicantName:  applicant.Name,
		ApplicantEmail: applicant.Email,
		JobTitle:       job.Title,
		Company:        job.Company,
		Status:         status,
	}
	go func() {
		if err := uc.notifier.SendStatusUpdate(data); err != nil {
			logger.Log.Warn("status email failed", zap.String("job_id", job.ID), zap.Error(err))
		}
	}()
}

// ListForRecruiter returns the recruiter's applications newest first. An
// unknown status value does not narrow the result.
func (uc *applicationUsecase) ListForRecruiter(ctx context.Context, recruiterID string, filter domain.RecruiterApplicationFilter) ([]domain.RecruiterApplicationView, error) {
	q := domain.ApplicationQuery{RecruiterID: recruiterID}
	if filter.JobID != "" {
		q.JobIDs = []string{filter.JobID}
	}
	if domain.IsApplicationStatus(filter.Status) {
		q.Status = filter.Status
	}

	apps, err := uc.appRepo.Find(ctx, q)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	jobs, err := uc.jobsByID(ctx, apps)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	applicants, err := uc.userRepo.GetByIDs(ctx, uniqueIDs(apps, func(a domain.Application) string { return a.ApplicantID }))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	views := make([]domain.RecruiterApplicationView, 0, len(apps))
	for _, app := range apps {
		views = append(views, domain.RecruiterApplicationView{
			ID:        app.ID,
			Status:    app.Status,
			CreatedAt: app.CreatedAt,
			UpdatedAt: app.UpdatedAt,
			Job:       jobSummary(jobs[app.JobID], false),
			Applicant: summaryOf(applicants[app.ApplicantID]),
		})
	}
	return views, nil
}

func (uc *applicationUsecase) ExportForRecruiter(ctx context.Context, recruiterID string, filter domain.RecruiterApplicationFilter) ([]byte, string, error) {
	views, err := uc.ListForRecruiter(ctx, recruiterID, filter)
	if err != nil {
		return nil, "", err
	}
	data, filename, err := exportApplications(views)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	return data, filename, nil
}

func (uc *applicationUsecase) ListForApplicant(ctx context.Context, applicantID string) ([]domain.ApplicantApplicationView, error) {
	apps, err := uc.appRepo.Find(ctx, domain.ApplicationQuery{ApplicantID: applicantID})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	jobs, err := uc.jobsByID(ctx, apps)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	views := make([]domain.ApplicantApplicationView, 0, len(apps))
	for _, app := range apps {
		views = append(views, domain.ApplicantApplicationView{
			ID:        app.ID,
			Status:    app.Status,
			CreatedAt: app.CreatedAt,
			UpdatedAt: app.UpdatedAt,
			Job:       jobSummary(jobs[app.JobID], true),
		})
	}
	return views, nil
}

// ListForJob returns every application for a job the recruiter owns, with
// the applicant's profile but not their id.
func (uc *applicationUsecase) ListForJob(ctx context.Context, recruiterID, jobID string) ([]domain.JobApplicationView, error) {
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, notFoundOr(err, "Job not found")
	}
	if job.RecruiterID != recruiterID {
		return nil, apperror.Forbidden("You can only view applications for your own jobs")
	}

	apps, err := uc.appRepo.Find(ctx, domain.ApplicationQuery{JobIDs: []string{job.ID}})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	applicants, err := uc.userRepo.GetByIDs(ctx, uniqueIDs(apps, func(a domain.Application) string { return a.ApplicantID }))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	views := make([]domain.JobApplicationView, 0, len(apps))
	for _, app := range apps {
		applicant := applicants[app.ApplicantID]
		if applicant == nil {
			applicant = &domain.User{}
		}
		views = append(views, domain.JobApplicationView{
			ID:        app.ID,
			Status:    app.Status,
			CreatedAt: app.CreatedAt,
			UpdatedAt: app.UpdatedAt,
			Applicant: applicant.ApplicantProfile(),
		})
	}
	return views, nil
}

func (uc *applicationUsecase) jobsByID(ctx context.Context, apps []domain.Application) (map[string]*domain.Job, error) {
	out := make(map[string]*domain.Job)
	if len(apps) == 0 {
		return out, nil
	}
	jobs, err := uc.jobRepo.Find(ctx, domain.JobQuery{IDs: uniqueIDs(apps, func(a domain.Application) string { return a.JobID })})
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		out[jobs[i].ID] = &jobs[i]
	}
	return out, nil
}

// jobSummary projects a job for application listings. Terms adds salary
// and type.
func jobSummary(job *domain.Job, terms bool) *domain.JobSummary {
	if job == nil {
		return nil
	}
	s := &domain.JobSummary{
		ID:       job.ID,
		Title:    job.Title,
		Company:  job.Company,
		Location: job.Location,
	}
	if terms {
		s.Salary = job.Salary
		s.Type = job.Type
	}
	return s
}
