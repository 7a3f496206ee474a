package mongodb_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/repository/mongodb"
	"go-jobboard-backend/pkg/database"
)

// Runs against the server named by TEST_MONGO_URI using a throwaway database.
func TestRepositoriesIntegration(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	db, err := database.NewMongoConnection(ctx, uri, "jobboard_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	defer func() {
		_ = db.Drop(ctx)
		_ = db.Client().Disconnect(ctx)
	}()
	require.NoError(t, mongodb.EnsureIndexes(ctx, db))

	users := mongodb.NewUserRepository(db)
	jobs := mongodb.NewJobRepository(db)
	apps := mongodb.NewApplicationRepository(db)

	recruiter := &domain.User{Name: "Rita", Email: "rita@example.com", PasswordHash: "x", Role: domain.RoleRecruiter}
	applicant := &domain.User{Name: "Asha", Email: "asha@example.com", PasswordHash: "x", Role: domain.RoleApplicant}
	require.NoError(t, users.Create(ctx, recruiter))
	require.NoError(t, users.Create(ctx, applicant))

	t.Run("Should reject duplicate email", func(t *testing.T) {
		err := users.Create(ctx, &domain.User{Name: "x", Email: "RITA@example.com", Role: domain.RoleRecruiter})
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})

	t.Run("Should treat malformed ids as missing", func(t *testing.T) {
		_, err := jobs.GetByID(ctx, "not-an-object-id")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	job := &domain.Job{Title: "Go Dev", Salary: "$80k - $100k", Experience: "5+ years", Type: domain.JobTypeContract,
		Requirements: []string{"Go"}, RecruiterID: recruiter.ID}
	job.Derive()
	require.NoError(t, jobs.Create(ctx, job))

	app := &domain.Application{JobID: job.ID, ApplicantID: applicant.ID, RecruiterID: recruiter.ID, Status: domain.ApplicationStatusApplied}
	require.NoError(t, apps.Create(ctx, app))

	t.Run("Should enforce one application per pair", func(t *testing.T) {
		dup := &domain.Application{JobID: job.ID, ApplicantID: applicant.ID, RecruiterID: recruiter.ID}
		assert.ErrorIs(t, apps.Create(ctx, dup), domain.ErrDuplicate)
	})

	t.Run("Should return the updated application", func(t *testing.T) {
		got, err := apps.UpdateStatus(ctx, app.ID, domain.ApplicationStatusShortlisted)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusShortlisted, got.Status)
	})

	t.Run("Should add application ids as a set", func(t *testing.T) {
		require.NoError(t, jobs.AddApplication(ctx, job.ID, app.ID))
		require.NoError(t, jobs.AddApplication(ctx, job.ID, app.ID))
		got, err := jobs.GetByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{app.ID}, got.Applications)
		require.NotNil(t, got.ExperienceRange)
		assert.Equal(t, -1, got.ExperienceRange.MaxYears)
	})

	t.Run("Should delete by job", func(t *testing.T) {
		ids, err := apps.DeleteByJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{app.ID}, ids)
	})
}
