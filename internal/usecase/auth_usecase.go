package usecase

import (
	"context"
	"errors"
	"strings"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/auth"

	"github.com/go-playground/validator/v10"
)

type authUsecase struct {
	userRepo domain.UserRepository
	tokens   *auth.TokenManager
	validate *validator.Validate
}

func NewAuthUsecase(userRepo domain.UserRepository, tokens *auth.TokenManager, validate *validator.Validate) domain.AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		tokens:   tokens,
		validate: validate,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *authUsecase) Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := u.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	_, err := u.userRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, apperror.BadRequest("User already exists")
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent signup for the same address
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.BadRequest("User already exists")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (u *authUsecase) Signin(ctx context.Context, req domain.SigninRequest) (*domain.Session, error) {
	req.Email = normalizeEmail(req.Email)
	if err := u.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	user, err := u.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthorized("Invalid email or password")
		}
		return nil, apperror.Internal(err)
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	token, expiresAt, err := u.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.Session{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (u *authUsecase) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthorized("User not found")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (u *authUsecase) ChangePassword(ctx context.Context, userID string, req domain.ChangePasswordRequest) error {
	if err := u.validate.Struct(req); err != nil {
		return validationError(err)
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return notFoundOr(err, "User not found")
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return apperror.BadRequest("Current password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperror.Internal(err)
	}
	user.PasswordHash = hash
	if err := u.userRepo.Update(ctx, user); err != nil {
		return notFoundOr(err, "User not found")
	}
	return nil
}
