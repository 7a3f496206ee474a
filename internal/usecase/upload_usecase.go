package usecase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/storage"
)

const (
	MaxUploadSize = 5 << 20

	logoMaxDimension = 512
	logoQuality      = 85
)

type uploadUsecase struct {
	userRepo domain.UserRepository
	store    storage.Store
}

func NewUploadUsecase(userRepo domain.UserRepository, store storage.Store) domain.UploadUsecase {
	return &uploadUsecase{userRepo: userRepo, store: store}
}

func (u *uploadUsecase) UploadResume(ctx context.Context, userID string, file domain.Upload) (*domain.User, error) {
	result, err := checkUpload(security.FileKindResume, file)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	if user.Role != domain.RoleApplicant {
		return nil, apperror.Forbidden("Only applicants can upload a resume")
	}

	key := storage.ObjectKey("resumes", userID, uuid.NewString(), result.Extension)
	url, err := u.store.Put(ctx, key, result.DetectedMIME, file.Data)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("store resume: %w", err))
	}

	previous := user.Resume
	user.Resume = url
	if err := u.userRepo.Update(ctx, user); err != nil {
		u.discard(ctx, url)
		return nil, notFoundOr(err, "User not found")
	}
	u.discard(ctx, previous)
	return user, nil
}

func (u *uploadUsecase) UploadLogo(ctx context.Context, userID string, file domain.Upload) (*domain.User, error) {
	if _, err := checkUpload(security.FileKindImage, file); err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	if user.Role != domain.RoleRecruiter {
		return nil, apperror.Forbidden("Only recruiters can upload a company logo")
	}

	data, err := storage.CompressImage(file.Data, logoMaxDimension, logoQuality)
	if err != nil {
		return nil, apperror.BadRequest("Image could not be decoded")
	}

	key := storage.ObjectKey("logos", userID, uuid.NewString(), ".jpg")
	url, err := u.store.Put(ctx, key, "image/jpeg", data)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("store logo: %w", err))
	}

	previous := user.CompanyLogo
	user.CompanyLogo = url
	if err := u.userRepo.Update(ctx, user); err != nil {
		u.discard(ctx, url)
		return nil, notFoundOr(err, "User not found")
	}
	u.discard(ctx, previous)
	return user, nil
}

func checkUpload(kind security.FileKind, file domain.Upload) (security.FileValidationResult, error) {
	if len(file.Data) == 0 {
		return security.FileValidationResult{}, apperror.BadRequest("No file uploaded")
	}
	if len(file.Data) > MaxUploadSize {
		return security.FileValidationResult{}, apperror.New(http.StatusRequestEntityTooLarge, "File exceeds the 5 MB limit", nil)
	}
	result := security.ValidateFile(kind, file.Filename, file.Data)
	if !result.Valid {
		return result, apperror.BadRequest("Invalid file: " + result.Error)
	}
	return result, nil
}

// discard removes a previously stored file. Failures only leave an orphan
// object behind, so they are logged and swallowed.
func (u *uploadUsecase) discard(ctx context.Context, url string) {
	if url == "" {
		return
	}
	key, ok := u.store.KeyFromURL(url)
	if !ok {
		return
	}
	if err := u.store.Delete(ctx, key); err != nil {
		logger.Log.Warn("failed to delete stored file", zap.String("key", key), zap.Error(err))
	}
}
