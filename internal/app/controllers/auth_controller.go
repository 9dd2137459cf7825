// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/app/services"
	"github.com/eren/driveshare/internal/middleware"
	"github.com/eren/driveshare/internal/pkg/apperrors"
)

const refreshCookieName = "refreshToken"

// AuthController handles authentication related operations
type AuthController struct {
	authService  *services.AuthService
	cookieSecure bool
	logger       zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, cookieSecure bool, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:  authService,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// setRefreshCookie stores the refresh token in an httpOnly cookie so browser
// clients can refresh without persisting the token in script-readable storage.
func (c *AuthController) setRefreshCookie(ctx *gin.Context, token string, expiresIn int) {
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(refreshCookieName, token, expiresIn, "/", "", c.cookieSecure, true)
}

func (c *AuthController) clearRefreshCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(refreshCookieName, "", -1, "/", "", c.cookieSecure, true)
}

// refreshTokenFrom reads the refresh token from the request body, falling back
// to the cookie when the body omits it.
func refreshTokenFrom(ctx *gin.Context) string {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}
	if token, err := ctx.Cookie(refreshCookieName); err == nil {
		return token
	}
	return ""
}

// Register creates a new user account and dispatches a verification email.
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid registration request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setRefreshCookie(ctx, resp.Token.RefreshToken, resp.Token.RefreshTokenExpiresIn)
	ctx.JSON(http.StatusCreated, resp)
}

// Login authenticates a user and returns a token pair.
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setRefreshCookie(ctx, resp.Token.RefreshToken, resp.Token.RefreshTokenExpiresIn)
	ctx.JSON(http.StatusOK, resp)
}

// VerifyEmail consumes an email verification token.
func (c *AuthController) VerifyEmail(ctx *gin.Context) {
	token := ctx.Query("token")
	if token == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "verification token is required").WithField("token"),
		))
		return
	}

	if err := c.authService.VerifyEmail(ctx.Request.Context(), token); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Email verified successfully"})
}

// ResendVerification reissues the verification token and emails a new link.
func (c *AuthController) ResendVerification(ctx *gin.Context) {
	var req dto.ResendVerificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.ResendVerification(ctx.Request.Context(), req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Verification email sent"})
}

// ForgotPassword starts the password reset flow. The response is identical
// whether or not the email belongs to an account.
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.ForgotPassword(ctx.Request.Context(), req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "If the email exists, a reset link has been sent"})
}

// ResetPassword completes the password reset flow with the emailed token.
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	token := ctx.Param("token")

	var req dto.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.ResetPassword(ctx.Request.Context(), token, req.Password); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Password has been reset, please log in again"})
}

// Logout revokes the caller's refresh token.
func (c *AuthController) Logout(ctx *gin.Context) {
	token := refreshTokenFrom(ctx)
	if token == "" {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("refresh token is required"))
		return
	}

	if err := c.authService.Logout(ctx.Request.Context(), middleware.CurrentUserID(ctx), token); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.clearRefreshCookie(ctx)
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Logged out successfully"})
}

// RefreshToken exchanges a valid refresh token for a new access token.
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	token := refreshTokenFrom(ctx)
	if token == "" {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenNotFound)
		return
	}

	resp, err := c.authService.RefreshToken(ctx.Request.Context(), token)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Refresh token rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
