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

const jobColumns = `id, title, description, company, location, salary, experience, type, requirements,
	recruiter_id, applications, salary_range, experience_range, created_at, updated_at`

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var (
		job                   domain.Job
		salaryRange, expRange []byte
	)
	err := row.Scan(
		&job.ID, &job.Title, &job.Description, &job.Company, &job.Location, &job.Salary,
		&job.Experience, &job.Type, pq.Array(&job.Requirements), &job.RecruiterID,
		pq.Array(&job.Applications), &salaryRange, &expRange, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	if err := decodeJSON(salaryRange, &job.SalaryRange); err != nil {
		return nil, err
	}
	if err := decodeJSON(expRange, &job.ExperienceRange); err != nil {
		return nil, err
	}
	job.Requirements = nonNil(job.Requirements)
	job.Applications = nonNil(job.Applications)
	return &job, nil
}

// rangeArgs encodes the derived ranges; nil ranges become SQL NULL.
func rangeArgs(job *domain.Job) (salary, experience *string, err error) {
	if job.SalaryRange != nil {
		s, err := jsonArg(job.SalaryRange)
		if err != nil {
			return nil, nil, err
		}
		salary = &s
	}
	if job.ExperienceRange != nil {
		s, err := jsonArg(job.ExperienceRange)
		if err != nil {
			return nil, nil, err
		}
		experience = &s
	}
	return salary, experience, nil
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	salaryRange, expRange, err := rangeArgs(job)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	id := newID()
	query := `INSERT INTO jobs (` + jobColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::text[], $10, '{}', $11::jsonb, $12::jsonb, $13, $14)`
	_, err = r.db.Exec(ctx, query,
		id, job.Title, job.Description, job.Company, job.Location, job.Salary, job.Experience,
		job.Type, pq.Array(nonNil(job.Requirements)), job.RecruiterID, salaryRange, expRange, now, now,
	)
	if err != nil {
		return translate(err)
	}
	job.ID = id
	job.Applications = []string{}
	job.CreatedAt, job.UpdatedAt = now, now
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	return scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
}

func (r *jobRepo) Find(ctx context.Context, q domain.JobQuery) ([]domain.Job, error) {
	var (
		where []string
		args  []interface{}
	)
	if q.IDs != nil {
		args = append(args, pq.Array(q.IDs))
		where = append(where, "id = ANY($"+strconv.Itoa(len(args))+"::text[])")
	}
	if q.RecruiterID != "" {
		args = append(args, q.RecruiterID)
		where = append(where, "recruiter_id = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + jobColumns + ` FROM jobs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	salaryRange, expRange, err := rangeArgs(job)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	query := `UPDATE jobs SET title = $2, description = $3, company = $4, location = $5, salary = $6,
              experience = $7, type = $8, requirements = $9::text[], salary_range = $10::jsonb,
              experience_range = $11::jsonb, updated_at = $12
              WHERE id = $1`
	result, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Description, job.Company, job.Location, job.Salary, job.Experience,
		job.Type, pq.Array(nonNil(job.Requirements)), salaryRange, expRange, now,
	)
	if err != nil {
		return translate(err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	job.UpdatedAt = now
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) AddApplication(ctx context.Context, jobID, applicationID string) error {
	query := `UPDATE jobs SET applications = array_append(array_remove(applications, $2), $2) WHERE id = $1`
	result, err := r.db.Exec(ctx, query, jobID, applicationID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) RemoveApplication(ctx context.Context, jobID, applicationID string) error {
	result, err := r.db.Exec(ctx, `UPDATE jobs SET applications = array_remove(applications, $2) WHERE id = $1`, jobID, applicationID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
