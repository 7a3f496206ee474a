package v1

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/security"
)

// multipart framing allowance on top of the file limit
const multipartOverhead = 1 << 20

type ProfileHandler struct {
	profileUC     domain.ProfileUsecase
	authUC        domain.AuthUsecase
	uploadUC      domain.UploadUsecase
	uploadLimiter *security.UploadLimiter
	secLogger     *security.SecurityLogger
}

func NewProfileHandler(
	protected *gin.RouterGroup,
	recruiter *gin.RouterGroup,
	applicant *gin.RouterGroup,
	profileUC domain.ProfileUsecase,
	authUC domain.AuthUsecase,
	uploadUC domain.UploadUsecase,
	uploadLimiter *security.UploadLimiter,
	secLogger *security.SecurityLogger,
) {
	handler := &ProfileHandler{
		profileUC:     profileUC,
		authUC:        authUC,
		uploadUC:      uploadUC,
		uploadLimiter: uploadLimiter,
		secLogger:     secLogger,
	}

	protected.GET("/profile", handler.Get)
	protected.PATCH("/profile", handler.Update)
	protected.PATCH("/profile/password", handler.ChangePassword)

	applicant.POST("/profile/resume", handler.UploadResume)
	recruiter.POST("/profile/logo", handler.UploadLogo)
}

// GetProfile godoc
// @Summary      Get profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /profile [get]
// @Security     BearerAuth
func (h *ProfileHandler) Get(c *gin.Context) {
	user, err := h.profileUC.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile fetched successfully", user)
}

// UpdateProfile godoc
// @Summary      Update profile
// @Description  Update the caller's profile. Applicant and recruiter fields apply only to the matching role. Email, role and password cannot be changed here.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        profile  body      domain.ProfilePatch  true  "Profile fields"
// @Success      200      {object}  response.Response{data=domain.User}
// @Failure      400      {object}  response.Response
// @Router       /profile [patch]
// @Security     BearerAuth
func (h *ProfileHandler) Update(c *gin.Context) {
	var patch domain.ProfilePatch
	if !bindJSON(c, &patch) {
		return
	}

	user, err := h.profileUC.UpdateProfile(c.Request.Context(), currentUserID(c), patch)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated successfully", user)
}

// ChangePassword godoc
// @Summary      Change password
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        password  body      domain.ChangePasswordRequest  true  "Current and new password"
// @Success      200       {object}  response.Response
// @Failure      400       {object}  response.Response
// @Router       /profile/password [patch]
// @Security     BearerAuth
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	var req domain.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authUC.ChangePassword(c.Request.Context(), currentUserID(c), req); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Password updated successfully", nil)
}

// UploadResume godoc
// @Summary      Upload resume
// @Description  PDF, DOC or DOCX up to 5 MB
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Resume"
// @Success      200   {object}  response.Response{data=domain.User}
// @Failure      400   {object}  response.Response
// @Failure      413   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /profile/resume [post]
// @Security     BearerAuth
func (h *ProfileHandler) UploadResume(c *gin.Context) {
	h.upload(c, h.uploadUC.UploadResume, "Resume uploaded successfully")
}

// UploadLogo godoc
// @Summary      Upload company logo
// @Description  JPEG, PNG or WebP up to 5 MB, resized to fit 512px
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Logo"
// @Success      200   {object}  response.Response{data=domain.User}
// @Failure      400   {object}  response.Response
// @Failure      413   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /profile/logo [post]
// @Security     BearerAuth
func (h *ProfileHandler) UploadLogo(c *gin.Context) {
	h.upload(c, h.uploadUC.UploadLogo, "Logo uploaded successfully")
}

type uploadFunc func(ctx context.Context, userID string, file domain.Upload) (*domain.User, error)

func (h *ProfileHandler) upload(c *gin.Context, store uploadFunc, message string) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	allowed, err := h.uploadLimiter.AllowUpload(ctx, userID)
	if err != nil {
		logger.Log.Warn("upload limit check failed", zap.Error(err))
	}
	if !allowed {
		h.secLogger.LogUploadRejected(ctx, userID, c.ClientIP(), requestID(c), "daily_limit")
		response.Error(c, http.StatusTooManyRequests, "Upload limit reached. Please try again tomorrow.", nil)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, usecase.MaxUploadSize+multipartOverhead)
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.secLogger.LogUploadRejected(ctx, userID, c.ClientIP(), requestID(c), "too_large")
			c.Error(apperror.New(http.StatusRequestEntityTooLarge, "File too large. Maximum size is 5MB", nil))
			return
		}
		c.Error(apperror.BadRequest("No file uploaded"))
		return
	}

	f, err := header.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, usecase.MaxUploadSize+1))
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	user, err := store(ctx, userID, domain.Upload{Filename: header.Filename, Data: data})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code < http.StatusInternalServerError {
			h.secLogger.LogUploadRejected(ctx, userID, c.ClientIP(), requestID(c), appErr.Message)
		}
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, message, user)
}
