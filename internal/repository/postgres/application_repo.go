package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"go-jobboard-backend/internal/domain"
)

const applicationColumns = `id, job_id, applicant_id, recruiter_id, status, created_at, updated_at`

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	err := row.Scan(&app.ID, &app.JobID, &app.ApplicantID, &app.RecruiterID, &app.Status, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

// Create inserts a new application. The (job_id, applicant_id) unique
// constraint turns a concurrent second apply into ErrDuplicate.
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	now := time.Now().UTC()
	if app.Status == "" {
		app.Status = domain.ApplicationStatusApplied
	}

	id := newID()
	query := `INSERT INTO applications (` + applicationColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.Exec(ctx, query, id, app.JobID, app.ApplicantID, app.RecruiterID, app.Status, now, now); err != nil {
		return translate(err)
	}
	app.ID = id
	app.CreatedAt, app.UpdatedAt = now, now
	return nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	return scanApplication(r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
}

func (r *applicationRepo) FindByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = $1 AND applicant_id = $2`
	return scanApplication(r.db.QueryRow(ctx, query, jobID, applicantID))
}

func (r *applicationRepo) Find(ctx context.Context, q domain.ApplicationQuery) ([]domain.Application, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		where = append(where, strings.Replace(clause, "?", "$"+strconv.Itoa(len(args)), 1))
	}
	if q.JobIDs != nil {
		add("job_id = ANY(?::text[])", pq.Array(q.JobIDs))
	}
	if q.ApplicantID != "" {
		add("applicant_id = ?", q.ApplicantID)
	}
	if q.RecruiterID != "" {
		add("recruiter_id = ?", q.RecruiterID)
	}
	if q.Status != "" {
		add("status = ?", q.Status)
	}

	query := `SELECT ` + applicationColumns + ` FROM applications`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []domain.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// UpdateStatus updates the status of an application and sets updated_at
func (r *applicationRepo) UpdateStatus(ctx context.Context, id, status string) (*domain.Application, error) {
	query := `UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1 RETURNING ` + applicationColumns
	return scanApplication(r.db.QueryRow(ctx, query, id, status, time.Now().UTC()))
}

func (r *applicationRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) DeleteByJob(ctx context.Context, jobID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `DELETE FROM applications WHERE job_id = $1 RETURNING id`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
