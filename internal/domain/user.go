package domain

import (
	"context"
	"time"
)

type Education struct {
	Institution string `json:"institution" bson:"institution" validate:"required,not_blank,max=200"`
	Degree      string `json:"degree" bson:"degree" validate:"required,not_blank,max=200"`
	Field       string `json:"field,omitempty" bson:"field,omitempty" validate:"max=200"`
	StartYear   int    `json:"startYear,omitempty" bson:"startYear,omitempty" validate:"omitempty,min=1950,max_current_year"`
	EndYear     int    `json:"endYear,omitempty" bson:"endYear,omitempty" validate:"omitempty,min=1950,max_current_year,gtefield=StartYear"`
}

type WorkExperience struct {
	Company     string     `json:"company" bson:"company" validate:"required,not_blank,max=200"`
	Position    string     `json:"position" bson:"position" validate:"required,not_blank,max=200"`
	Description string     `json:"description,omitempty" bson:"description,omitempty" validate:"max=2000"`
	StartDate   *time.Time `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Current     bool       `json:"current" bson:"current"`
}

// User is an account. PasswordHash never leaves the service.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Applications []string  `json:"applications"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Applicant profile
	Phone          string           `json:"phone,omitempty"`
	Bio            string           `json:"bio,omitempty"`
	Skills         []string         `json:"skills,omitempty"`
	Education      []Education      `json:"education,omitempty"`
	WorkExperience []WorkExperience `json:"workExperience,omitempty"`
	Resume         string           `json:"resume,omitempty"`

	// Recruiter profile
	CompanyName        string `json:"companyName,omitempty"`
	CompanyWebsite     string `json:"companyWebsite,omitempty"`
	CompanyDescription string `json:"companyDescription,omitempty"`
	CompanyLogo        string `json:"companyLogo,omitempty"`
}

// UserSummary is the identity attached to joined records.
type UserSummary struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// ApplicantProfile is what a job owner sees about an applicant. It
// carries no id.
type ApplicantProfile struct {
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone"`
	Skills         []string         `json:"skills"`
	Education      []Education      `json:"education"`
	WorkExperience []WorkExperience `json:"workExperience"`
	Resume         string           `json:"resume"`
}

func (u *User) ApplicantProfile() ApplicantProfile {
	return ApplicantProfile{
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		Skills:         nonNil(u.Skills),
		Education:      nonNilSlice(u.Education),
		WorkExperience: nonNilSlice(u.WorkExperience),
		Resume:         u.Resume,
	}
}

// ProfilePatch carries the editable profile fields. Nil means unchanged.
// Identity fields (id, email, role, password) are not representable here.
type ProfilePatch struct {
	Name           *string           `json:"name" validate:"omitempty,not_blank,min=2,max=100,valid_name"`
	Phone          *string           `json:"phone" validate:"omitempty,valid_phone"`
	Bio            *string           `json:"bio" validate:"omitempty,max=1000,no_emoji"`
	Skills         []string          `json:"skills" validate:"omitempty,max=50,dive,not_blank,max=50"`
	Education      *[]Education      `json:"education" validate:"omitempty,dive"`
	WorkExperience *[]WorkExperience `json:"workExperience" validate:"omitempty,dive"`

	CompanyName        *string `json:"companyName" validate:"omitempty,min=2,max=200"`
	CompanyWebsite     *string `json:"companyWebsite" validate:"omitempty,url"`
	CompanyDescription *string `json:"companyDescription" validate:"omitempty,max=2000"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*User, error)
	Update(ctx context.Context, user *User) error
	AddApplication(ctx context.Context, userID, applicationID string) error
	RemoveApplication(ctx context.Context, userID, applicationID string) error
	// RemoveApplications pulls the given application ids from every user.
	RemoveApplications(ctx context.Context, applicationIDs []string) error
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,not_blank,min=2,max=100,valid_name"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"required,oneof=applicant recruiter"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72,nefield=CurrentPassword"`
}

// Session is returned by signin.
type Session struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"-"`
}

type AuthUsecase interface {
	Signup(ctx context.Context, req SignupRequest) (*User, error)
	Signin(ctx context.Context, req SigninRequest) (*Session, error)
	Me(ctx context.Context, userID string) (*User, error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*User, error)
}

// Upload is a file received from a client.
type Upload struct {
	Filename string
	Data     []byte
}

type UploadUsecase interface {
	UploadResume(ctx context.Context, userID string, file Upload) (*User, error)
	UploadLogo(ctx context.Context, userID string, file Upload) (*User, error)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
