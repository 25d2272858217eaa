// ================== internal/features/auth/handler.go ==================
package auth

// Swagger API metadata is defined globally in cmd/api/main.go

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/whistleblow/internal/access"
	idToken "github.com/xyz-asif/whistleblow/internal/pkg/jwt"
	"github.com/xyz-asif/whistleblow/internal/pkg/logger"
	"github.com/xyz-asif/whistleblow/internal/pkg/response"
	"github.com/xyz-asif/whistleblow/internal/pkg/validator"
	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
)

type Handler struct {
	repo   *Repository
	jwtCfg *idToken.Config
}

func NewHandler(repo *Repository, jwtCfg *idToken.Config) *Handler {
	return &Handler{
		repo:   repo,
		jwtCfg: jwtCfg,
	}
}

// Register godoc
// @Summary Register a new reporter
// @Description Create a reporter account with name, email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "User registration data"
// @Success 201 {object} response.SuccessResponse{data=AuthResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.Translate(err))
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		response.InternalServerError(c, "Failed to process password")
		return
	}

	// Self-registration always creates a reporter.
	user := &User{
		Name:     req.Name,
		Email:    NormalizeEmail(req.Email),
		Password: hashed,
		Role:     access.RoleUser,
	}
	if err := h.repo.Create(c.Request.Context(), user); err != nil {
		h.fail(c, "Register", err)
		return
	}

	token, err := idToken.GenerateToken(user.ID, user.Email, string(user.Role), h.jwtCfg)
	if err != nil {
		response.InternalServerError(c, "Failed to generate token")
		return
	}

	response.Created(c, AuthResponse{User: user, AccessToken: token}, "User registered successfully")
}

// Login godoc
// @Summary Login user
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "User login credentials"
// @Success 200 {object} response.SuccessResponse{data=AuthResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.Translate(err))
		return
	}

	user, err := h.repo.FindByEmail(c.Request.Context(), NormalizeEmail(req.Email))
	if err != nil {
		h.fail(c, "Login", err)
		return
	}
	if user == nil || !CheckPassword(user.Password, req.Password) {
		response.Unauthorized(c, "Invalid email or password", "INVALID_CREDENTIALS")
		return
	}

	token, err := idToken.GenerateToken(user.ID, user.Email, string(user.Role), h.jwtCfg)
	if err != nil {
		response.InternalServerError(c, "Failed to generate token")
		return
	}

	response.Success(c, AuthResponse{User: user, AccessToken: token}, "Login successful")
}

// Me godoc
// @Summary Get current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=User}
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	response.Success(c, CurrentUser(c))
}

// UpdateProfile godoc
// @Summary Update name or email
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.SuccessResponse{data=User}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /auth/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.Translate(err))
		return
	}

	user := CurrentUser(c)
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = NormalizeEmail(req.Email)
	}

	if err := h.repo.Update(c.Request.Context(), user); err != nil {
		h.fail(c, "UpdateProfile", err)
		return
	}

	response.Success(c, user, "Profile updated successfully")
}

// UpdatePassword godoc
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdatePasswordRequest true "Current and new password"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/password [put]
func (h *Handler) UpdatePassword(c *gin.Context) {
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.Translate(err))
		return
	}

	user := CurrentUser(c)
	if !CheckPassword(user.Password, req.CurrentPassword) {
		response.FromError(c, apperrors.Validation("Current password is incorrect",
			apperrors.FieldError{Field: "current_password", Message: "does not match"}))
		return
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		response.InternalServerError(c, "Failed to process password")
		return
	}
	user.Password = hashed

	if err := h.repo.Update(c.Request.Context(), user); err != nil {
		h.fail(c, "UpdatePassword", err)
		return
	}

	response.Success(c, nil, "Password updated successfully")
}

func (h *Handler) fail(c *gin.Context, funcName string, err error) {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		logger.LogError("auth", funcName, c.FullPath(), nil, err)
	}
	response.FromError(c, err)
}
