package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-jobboard-backend/config"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/security"
)

type AuthHandler struct {
	authUC       domain.AuthUsecase
	loginTracker *security.LoginTracker
	secLogger    *security.SecurityLogger
	config       *config.Config
}

func NewAuthHandler(
	public *gin.RouterGroup,
	protected *gin.RouterGroup,
	signinLimit gin.HandlerFunc,
	authUC domain.AuthUsecase,
	loginTracker *security.LoginTracker,
	secLogger *security.SecurityLogger,
	cfg *config.Config,
) {
	handler := &AuthHandler{
		authUC:       authUC,
		loginTracker: loginTracker,
		secLogger:    secLogger,
		config:       cfg,
	}

	public.POST("/signup", handler.Signup)
	public.POST("/signin", signinLimit, handler.Signin)
	public.POST("/signout", handler.Signout)

	protected.GET("/me", handler.Me)
}

// MeResponse is the identity returned by /me.
type MeResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Signup godoc
// @Summary      Register
// @Description  Create an applicant or recruiter account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        signup  body      domain.SignupRequest  true  "Account details"
// @Success      201     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Router       /signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req domain.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authUC.Signup(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "User registered successfully", user)
}

// Signin godoc
// @Summary      Sign in
// @Description  Verify credentials, set the auth cookie and return the session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        signin  body      domain.SigninRequest  true  "Credentials"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Failure      429     {object}  response.Response
// @Router       /signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req domain.SigninRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	if req.Email != "" {
		blocked, err := h.loginTracker.IsBlocked(ctx, req.Email)
		if err != nil {
			logger.Log.Warn("login block check failed", zap.Error(err))
		}
		if blocked {
			h.secLogger.LogLoginBlocked(ctx, req.Email, c.ClientIP(), requestID(c))
			response.Error(c, http.StatusTooManyRequests, "Too many failed attempts. Please try again later.", nil)
			return
		}
	}

	session, err := h.authUC.Signin(ctx, req)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusUnauthorized {
			if _, trackErr := h.loginTracker.RecordFailedAttempt(ctx, req.Email, c.ClientIP(), requestID(c)); trackErr != nil {
				logger.Log.Warn("failed to record login attempt", zap.Error(trackErr))
			}
		}
		c.Error(err)
		return
	}

	if err := h.loginTracker.ClearAttempts(ctx, req.Email); err != nil {
		logger.Log.Warn("failed to clear login attempts", zap.Error(err))
	}

	h.setAuthCookie(c, session.Token, int(h.config.JWTTTL.Seconds()))
	response.Success(c, http.StatusOK, "Signin successful", session)
}

// Signout godoc
// @Summary      Sign out
// @Description  Clear the auth cookie
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /signout [post]
func (h *AuthHandler) Signout(c *gin.Context) {
	h.setAuthCookie(c, "", -1)
	response.Success(c, http.StatusOK, "Sign out successfully", nil)
}

// Me godoc
// @Summary      Current user
// @Description  Return the identity behind the credential
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=MeResponse}
// @Failure      401  {object}  response.Response
// @Router       /me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.Me(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User authenticated successfully", MeResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, value string, maxAge int) {
	secure := !h.config.IsDev()
	if secure {
		// Cross-site frontends need None; browsers only accept it with Secure
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(h.config.CookieName, value, maxAge, "/", "", secure, true)
}
