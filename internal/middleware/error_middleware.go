package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/pkg/apperrors"
	"github.com/eren/driveshare/internal/pkg/logger"
)

// HandleAPIError translates application errors into HTTP responses. Custom
// error messages are preserved; unknown errors become an opaque 500.
func HandleAPIError(c *gin.Context, err error) {
	respond := func(status int, code dto.ErrorCode, message string) {
		var custom *apperrors.CustomError
		if errors.As(err, &custom) && custom.Message != "" {
			message = custom.Message
		}
		c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "invalid email or password")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respond(http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "invalid token")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "token not found")
	case errors.Is(err, apperrors.ErrPasswordChanged):
		respond(http.StatusUnauthorized, dto.ErrorCodePasswordChanged, "password was changed, log in again")
	case errors.Is(err, apperrors.ErrEmailNotVerified):
		respond(http.StatusForbidden, dto.ErrorCodeEmailNotVerified, "email address is not verified")
	case errors.Is(err, apperrors.ErrAccountInactive):
		respond(http.StatusForbidden, dto.ErrorCodeAccountInactive, "account is deactivated")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(http.StatusForbidden, dto.ErrorCodeForbidden, "permission denied")
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respond(http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "email already exists")
	case errors.Is(err, apperrors.ErrEmailAlreadyVerified):
		respond(http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "email is already verified")
	case errors.Is(err, apperrors.ErrCategoryExists):
		respond(http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "category already exists")
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrCarNotFound),
		errors.Is(err, apperrors.ErrCategoryNotFound),
		errors.Is(err, apperrors.ErrReviewNotFound),
		errors.Is(err, apperrors.ErrAddressNotFound),
		errors.Is(err, apperrors.ErrChatNotFound),
		errors.Is(err, apperrors.ErrImageNotFound):
		respond(http.StatusNotFound, dto.ErrorCodeResourceNotFound, "resource not found")
	case errors.Is(err, apperrors.ErrInvalidEmailToken),
		errors.Is(err, apperrors.ErrInvalidResetToken):
		respond(http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "token is invalid or has expired")
	case errors.Is(err, apperrors.ErrImageLimit):
		respond(http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "a car can have at most 10 images")
	case errors.Is(err, apperrors.ErrOwnCarReview):
		respond(http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "you cannot review your own car")
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		respond(http.StatusBadRequest, dto.ErrorCodeValidationFailed, "validation failed")
	case errors.Is(err, apperrors.ErrTooManyRequests):
		respond(http.StatusTooManyRequests, dto.ErrorCodeTooManyRequests, "too many requests")
	case errors.Is(err, apperrors.ErrEmailSendFailed):
		respond(http.StatusInternalServerError, dto.ErrorCodeExternalServiceError, "failed to send email")
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		respond(http.StatusInternalServerError, dto.ErrorCodeInternalServer, "internal server error")
	}
}
