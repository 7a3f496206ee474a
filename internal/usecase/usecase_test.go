package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/auth"
	"go-jobboard-backend/pkg/email"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/validation"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) AddApplication(ctx context.Context, userID, applicationID string) error {
	return m.Called(ctx, userID, applicationID).Error(0)
}
func (m *MockUserRepo) RemoveApplication(ctx context.Context, userID, applicationID string) error {
	return m.Called(ctx, userID, applicationID).Error(0)
}
func (m *MockUserRepo) RemoveApplications(ctx context.Context, applicationIDs []string) error {
	return m.Called(ctx, applicationIDs).Error(0)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobRepo) Find(ctx context.Context, q domain.JobQuery) ([]domain.Job, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}
func (m *MockJobRepo) Update(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockJobRepo) AddApplication(ctx context.Context, jobID, applicationID string) error {
	return m.Called(ctx, jobID, applicationID).Error(0)
}
func (m *MockJobRepo) RemoveApplication(ctx context.Context, jobID, applicationID string) error {
	return m.Called(ctx, jobID, applicationID).Error(0)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) FindByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*domain.Application, error) {
	args := m.Called(ctx, jobID, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) Find(ctx context.Context, q domain.ApplicationQuery) ([]domain.Application, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, id, status string) (*domain.Application, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockApplicationRepo) DeleteByJob(ctx context.Context, jobID string) ([]string, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) IsConfigured() bool {
	return m.Called().Bool(0)
}
func (m *MockNotifier) SendStatusUpdate(data email.StatusEmailData) error {
	return m.Called(data).Error(0)
}

func requireAppError(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

var errStore = errors.New("connection reset")

func TestApplyFanOut(t *testing.T) {
	job := &domain.Job{ID: "job1", RecruiterID: "rec1", Title: "Backend Engineer"}

	newMocks := func() (*MockApplicationRepo, *MockJobRepo, *MockUserRepo) {
		appRepo, jobRepo, userRepo := new(MockApplicationRepo), new(MockJobRepo), new(MockUserRepo)
		jobRepo.On("GetByID", mock.Anything, "job1").Return(job, nil)
		appRepo.On("FindByJobAndApplicant", mock.Anything, "job1", "app1").Return(nil, domain.ErrNotFound).Once()
		appRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Application")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Application).ID = "application1"
			}).Return(nil)
		return appRepo, jobRepo, userRepo
	}

	t.Run("Should copy recruiter from job and write both lists", func(t *testing.T) {
		appRepo, jobRepo, userRepo := newMocks()
		jobRepo.On("AddApplication", mock.Anything, "job1", "application1").Return(nil)
		userRepo.On("AddApplication", mock.Anything, "app1", "application1").Return(nil)

		uc := usecase.NewApplicationUsecase(appRepo, jobRepo, userRepo, nil, validation.New())
		res, err := uc.Apply(context.Background(), "app1", "job1")
		require.NoError(t, err)
		assert.False(t, res.AlreadyApplied)
		assert.Equal(t, "rec1", res.Application.RecruiterID)
		assert.Equal(t, domain.ApplicationStatusApplied, res.Application.Status)
		jobRepo.AssertExpectations(t)
		userRepo.AssertExpectations(t)
	})

	t.Run("Should surface a partial fan-out failure and roll back", func(t *testing.T) {
		appRepo, jobRepo, userRepo := newMocks()
		jobRepo.On("AddApplication", mock.Anything, "job1", "application1").Return(nil)
		userRepo.On("AddApplication", mock.Anything, "app1", "application1").Return(errStore)
		jobRepo.On("RemoveApplication", mock.Anything, "job1", "application1").Return(nil)
		userRepo.On("RemoveApplication", mock.Anything, "app1", "application1").Return(nil)
		appRepo.On("Delete", mock.Anything, "application1").Return(nil)

		uc := usecase.NewApplicationUsecase(appRepo, jobRepo, userRepo, nil, validation.New())
		res, err := uc.Apply(context.Background(), "app1", "job1")
		assert.Nil(t, res)
		requireAppError(t, err, http.StatusInternalServerError)
		assert.ErrorIs(t, err, errStore)

		jobRepo.AssertCalled(t, "RemoveApplication", mock.Anything, "job1", "application1")
		appRepo.AssertCalled(t, "Delete", mock.Anything, "application1")
	})

	t.Run("Should report already applied when a concurrent apply wins", func(t *testing.T) {
		appRepo, jobRepo, userRepo := new(MockApplicationRepo), new(MockJobRepo), new(MockUserRepo)
		existing := &domain.Application{ID: "application0", JobID: "job1", ApplicantID: "app1"}
		jobRepo.On("GetByID", mock.Anything, "job1").Return(job, nil)
		appRepo.On("FindByJobAndApplicant", mock.Anything, "job1", "app1").Return(nil, domain.ErrNotFound).Once()
		appRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicate)
		appRepo.On("FindByJobAndApplicant", mock.Anything, "job1", "app1").Return(existing, nil).Once()

		uc := usecase.NewApplicationUsecase(appRepo, jobRepo, userRepo, nil, validation.New())
		res, err := uc.Apply(context.Background(), "app1", "job1")
		require.NoError(t, err)
		assert.True(t, res.AlreadyApplied)
		assert.Equal(t, "application0", res.Application.ID)
		jobRepo.AssertNotCalled(t, "AddApplication", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should log a failed lookup after a concurrent apply wins", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		prev := logger.Log
		logger.Log = zap.New(core)
		defer func() { logger.Log = prev }()

		appRepo, jobRepo, userRepo := new(MockApplicationRepo), new(MockJobRepo), new(MockUserRepo)
		jobRepo.On("GetByID", mock.Anything, "job1").Return(job, nil)
		appRepo.On("FindByJobAndApplicant", mock.Anything, "job1", "app1").Return(nil, domain.ErrNotFound).Once()
		appRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicate)
		appRepo.On("FindByJobAndApplicant", mock.Anything, "job1", "app1").Return(nil, errStore).Once()

		uc := usecase.NewApplicationUsecase(appRepo, jobRepo, userRepo, nil, validation.New())
		res, err := uc.Apply(context.Background(), "app1", "job1")
		require.NoError(t, err)
		assert.True(t, res.AlreadyApplied)

		entries := logs.FilterField(zap.String("job_id", "job1")).All()
		require.Len(t, entries, 1)
		assert.Equal(t, "could not load the existing application after a duplicate apply", entries[0].Message)
		assert.Equal(t, errStore.Error(), entries[0].ContextMap()["error"])
	})

	t.Run("Should require a job id", func(t *testing.T) {
		uc := usecase.NewApplicationUsecase(new(MockApplicationRepo), new(MockJobRepo), new(MockUserRepo), nil, validation.New())
		_, err := uc.Apply(context.Background(), "app1", "  ")
		requireAppError(t, err, http.StatusBadRequest)
	})

	t.Run("Should not leak store errors as not found", func(t *testing.T) {
		jobRepo := new(MockJobRepo)
		jobRepo.On("GetByID", mock.Anything, "job1").Return(nil, errStore)
		uc := usecase.NewApplicationUsecase(new(MockApplicationRepo), jobRepo, new(MockUserRepo), nil, validation.New())
		_, err := uc.Apply(context.Background(), "app1", "job1")
		appErr := requireAppError(t, err, http.StatusInternalServerError)
		assert.Equal(t, "Internal Server Error", appErr.Message)
	})
}

func TestSetStatus(t *testing.T) {
	app := &domain.Application{ID: "a1", JobID: "job1", ApplicantID: "app1", RecruiterID: "rec1", Status: domain.ApplicationStatusApplied}

	t.Run("Should reject values outside the status enum", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		uc := usecase.NewApplicationUsecase(appRepo, new(MockJobRepo), new(MockUserRepo), nil, validation.New())
		_, err := uc.SetStatus(context.Background(), "rec1", domain.StatusUpdateRequest{ApplicationID: "a1", Status: "hired"})
		appErr := requireAppError(t, err, http.StatusBadRequest)
		assert.NotEmpty(t, appErr.Errors)
		appRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Should fall back to the stored recruiter when the job is gone", func(t *testing.T) {
		appRepo, jobRepo := new(MockApplicationRepo), new(MockJobRepo)
		appRepo.On("GetByID", mock.Anything, "a1").Return(app, nil)
		jobRepo.On("GetByID", mock.Anything, "job1").Return(nil, domain.ErrNotFound)

		uc := usecase.NewApplicationUsecase(appRepo, jobRepo, new(MockUserRepo), nil, validation.New())
		_, err := uc.SetStatus(context.Background(), "rec2", domain.StatusUpdateRequest{ApplicationID: "a1", Status: "reviewed"})
		requireAppError(t, err, http.StatusForbidden)
		appRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should notify the applicant when configured", func(t *testing.T) {
		appRepo, jobRepo, userRepo, notifier := new(MockApplicationRepo), new(MockJobRepo), new(MockUserRepo), new(MockNotifier)
		updated := *app
		updated.Status = domain.ApplicationStatusShortlisted
		appRepo.On("GetByID", mock.Anything, "a1").Return(app, nil)
		jobRepo.On("GetByID", mock.Anything, "job1").Return(&domain.Job{ID: "job1", RecruiterID: "rec1", Title: "Go Dev", Company: "Acme"}, nil)
		appRepo.On("UpdateStatus", mock.Anything, "a1", "shortlisted").Return(&updated, nil)
		userRepo.On("GetByID", mock.Anything, "app1").Return(&domain.User{ID: "app1", Name: "Asha", Email: "asha@example.com"}, nil)

		sent := make(chan email.StatusEmailData, 1)
		notifier.On("IsConfigured").Return(true)
		notifier.On("SendStatusUpdate", mock.Anything).Run(func(args mock.Arguments) {
			sent <- args.Get(0).(email.StatusEmailData)
		}).Return(nil)

		uc := usecase.NewApplicationUsecase(appRepo, jobRepo, userRepo, notifier, validation.New())
		view, err := uc.SetStatus(context.Background(), "rec1", domain.StatusUpdateRequest{ApplicationID: "a1", Status: "shortlisted"})
		require.NoError(t, err)
		assert.Equal(t, "shortlisted", view.Status)
		require.NotNil(t, view.Applicant)
		assert.Equal(t, "Asha", view.Applicant.Name)

		data := <-sent
		assert.Equal(t, "asha@example.com", data.ApplicantEmail)
		assert.Equal(t, "Go Dev", data.JobTitle)
	})
}

func TestDeleteJobCascadeFailure(t *testing.T) {
	jobRepo, appRepo, userRepo := new(MockJobRepo), new(MockApplicationRepo), new(MockUserRepo)
	jobRepo.On("GetByID", mock.Anything, "job1").Return(&domain.Job{ID: "job1", RecruiterID: "rec1"}, nil)
	appRepo.On("DeleteByJob", mock.Anything, "job1").Return([]string{"a1", "a2"}, nil)
	jobRepo.On("Delete", mock.Anything, "job1").Return(nil)
	userRepo.On("RemoveApplications", mock.Anything, []string{"a1", "a2"}).Return(errStore)

	uc := usecase.NewJobUsecase(jobRepo, appRepo, userRepo, validation.New())
	err := uc.DeleteJob(context.Background(), "rec1", "job1")
	requireAppError(t, err, http.StatusInternalServerError)
	jobRepo.AssertCalled(t, "Delete", mock.Anything, "job1")
}

func TestAuth(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	t.Run("Should reject an existing email", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		userRepo.On("GetByEmail", mock.Anything, "asha@example.com").Return(&domain.User{ID: "u1"}, nil)

		uc := usecase.NewAuthUsecase(userRepo, tokens, validation.New())
		_, err := uc.Signup(context.Background(), domain.SignupRequest{
			Name: "Asha Rao", Email: " Asha@Example.com ", Password: "secret1", Role: domain.RoleApplicant,
		})
		appErr := requireAppError(t, err, http.StatusBadRequest)
		assert.Equal(t, "User already exists", appErr.Message)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should reject unknown roles", func(t *testing.T) {
		uc := usecase.NewAuthUsecase(new(MockUserRepo), tokens, validation.New())
		_, err := uc.Signup(context.Background(), domain.SignupRequest{
			Name: "Asha Rao", Email: "asha@example.com", Password: "secret1", Role: "admin",
		})
		requireAppError(t, err, http.StatusBadRequest)
	})

	t.Run("Should reject a wrong password with 401", func(t *testing.T) {
		hash, err := auth.HashPassword("secret1")
		require.NoError(t, err)
		userRepo := new(MockUserRepo)
		userRepo.On("GetByEmail", mock.Anything, "asha@example.com").Return(&domain.User{ID: "u1", PasswordHash: hash}, nil)

		uc := usecase.NewAuthUsecase(userRepo, tokens, validation.New())
		_, err = uc.Signin(context.Background(), domain.SigninRequest{Email: "asha@example.com", Password: "nope"})
		requireAppError(t, err, http.StatusUnauthorized)
	})

	t.Run("Should issue a token carrying id and role", func(t *testing.T) {
		hash, err := auth.HashPassword("secret1")
		require.NoError(t, err)
		userRepo := new(MockUserRepo)
		userRepo.On("GetByEmail", mock.Anything, "asha@example.com").
			Return(&domain.User{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: domain.RoleApplicant, PasswordHash: hash}, nil)

		uc := usecase.NewAuthUsecase(userRepo, tokens, validation.New())
		session, err := uc.Signin(context.Background(), domain.SigninRequest{Email: "ASHA@example.com", Password: "secret1"})
		require.NoError(t, err)

		claims, err := tokens.Verify(session.Token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, domain.RoleApplicant, claims.Role)
	})
}
