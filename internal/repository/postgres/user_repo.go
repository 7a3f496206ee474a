package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"go-jobboard-backend/internal/domain"
)

const userColumns = `id, name, email, password_hash, role, applications, phone, bio, skills,
	education, work_experience, resume, company_name, company_website, company_description,
	company_logo, created_at, updated_at`

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u                   domain.User
		education, workExpr []byte
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, pq.Array(&u.Applications),
		&u.Phone, &u.Bio, pq.Array(&u.Skills), &education, &workExpr, &u.Resume,
		&u.CompanyName, &u.CompanyWebsite, &u.CompanyDescription, &u.CompanyLogo,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	if err := decodeJSON(education, &u.Education); err != nil {
		return nil, err
	}
	if err := decodeJSON(workExpr, &u.WorkExperience); err != nil {
		return nil, err
	}
	u.Applications = nonNil(u.Applications)
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	education, err := jsonArg(nonNilEducation(user.Education))
	if err != nil {
		return err
	}
	workExpr, err := jsonArg(nonNilWork(user.WorkExperience))
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	id := newID()
	query := `INSERT INTO users (` + userColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11::jsonb, $12, $13, $14, $15, $16, $17, $18)`
	_, err = r.db.Exec(ctx, query,
		id, user.Name, strings.ToLower(user.Email), user.PasswordHash, user.Role, pq.Array([]string{}),
		user.Phone, user.Bio, pq.Array(nonNil(user.Skills)), education, workExpr, user.Resume,
		user.CompanyName, user.CompanyWebsite, user.CompanyDescription, user.CompanyLogo,
		now, now,
	)
	if err != nil {
		return translate(err)
	}
	user.ID = id
	user.Email = strings.ToLower(user.Email)
	user.Applications = []string{}
	user.CreatedAt, user.UpdatedAt = now, now
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
}

func (r *userRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	out := make(map[string]*domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1::text[])`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, rows.Err()
}

// Update writes the profile fields and password hash. Email, role and the
// application list are not changed here.
func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	education, err := jsonArg(nonNilEducation(user.Education))
	if err != nil {
		return err
	}
	workExpr, err := jsonArg(nonNilWork(user.WorkExperience))
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	query := `UPDATE users SET name = $2, password_hash = $3, phone = $4, bio = $5, skills = $6,
              education = $7::jsonb, work_experience = $8::jsonb, resume = $9, company_name = $10,
              company_website = $11, company_description = $12, company_logo = $13, updated_at = $14
              WHERE id = $1`
	result, err := r.db.Exec(ctx, query,
		user.ID, user.Name, user.PasswordHash, user.Phone, user.Bio, pq.Array(nonNil(user.Skills)),
		education, workExpr, user.Resume, user.CompanyName, user.CompanyWebsite,
		user.CompanyDescription, user.CompanyLogo, now,
	)
	if err != nil {
		return translate(err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	user.UpdatedAt = now
	return nil
}

func (r *userRepo) AddApplication(ctx context.Context, userID, applicationID string) error {
	query := `UPDATE users SET applications = array_append(array_remove(applications, $2), $2) WHERE id = $1`
	result, err := r.db.Exec(ctx, query, userID, applicationID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) RemoveApplication(ctx context.Context, userID, applicationID string) error {
	result, err := r.db.Exec(ctx, `UPDATE users SET applications = array_remove(applications, $2) WHERE id = $1`, userID, applicationID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) RemoveApplications(ctx context.Context, applicationIDs []string) error {
	if len(applicationIDs) == 0 {
		return nil
	}
	query := `UPDATE users
              SET applications = ARRAY(SELECT a FROM unnest(applications) AS a WHERE a <> ALL($1::text[]))
              WHERE applications && $1::text[]`
	_, err := r.db.Exec(ctx, query, pq.Array(applicationIDs))
	return err
}

func nonNilEducation(s []domain.Education) []domain.Education {
	if s == nil {
		return []domain.Education{}
	}
	return s
}

func nonNilWork(s []domain.WorkExperience) []domain.WorkExperience {
	if s == nil {
		return []domain.WorkExperience{}
	}
	return s
}
