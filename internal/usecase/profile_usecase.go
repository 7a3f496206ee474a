package usecase

import (
	"context"
	"strings"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type profileUsecase struct {
	userRepo domain.UserRepository
	validate *validator.Validate
}

func NewProfileUsecase(userRepo domain.UserRepository, validate *validator.Validate) domain.ProfileUsecase {
	return &profileUsecase{userRepo: userRepo, validate: validate}
}

func (u *profileUsecase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return user, nil
}

// UpdateProfile applies the patch. Applicant-only fields are ignored for
// recruiters and company fields are ignored for applicants.
func (u *profileUsecase) UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error) {
	if err := u.validate.Struct(patch); err != nil {
		return nil, validationError(err)
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}

	setTrimmed(&user.Name, patch.Name)
	setTrimmed(&user.Phone, patch.Phone)

	switch user.Role {
	case domain.RoleApplicant:
		setTrimmed(&user.Bio, patch.Bio)
		if patch.Skills != nil {
			user.Skills = normalizeSkills(patch.Skills)
		}
		if patch.Education != nil {
			user.Education = *patch.Education
		}
		if patch.WorkExperience != nil {
			user.WorkExperience = *patch.WorkExperience
		}
	case domain.RoleRecruiter:
		setTrimmed(&user.CompanyName, patch.CompanyName)
		setTrimmed(&user.CompanyWebsite, patch.CompanyWebsite)
		setTrimmed(&user.CompanyDescription, patch.CompanyDescription)
	default:
		return nil, apperror.Forbidden("Unknown role")
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return user, nil
}

func setTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// normalizeSkills trims entries and drops case-insensitive duplicates.
func normalizeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
