package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/middleware"
	"github.com/eren/driveshare/internal/pkg/apperrors"
)

func respondWithError(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	middleware.HandleAPIError(ctx, err)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, body
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"missing refresh token", apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound},
		{"password changed", apperrors.ErrPasswordChanged, http.StatusUnauthorized, dto.ErrorCodePasswordChanged},
		{"unverified email", apperrors.ErrEmailNotVerified, http.StatusForbidden, dto.ErrorCodeEmailNotVerified},
		{"inactive account", apperrors.ErrAccountInactive, http.StatusForbidden, dto.ErrorCodeAccountInactive},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"missing user", apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"missing car", apperrors.ErrCarNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"missing chat", apperrors.ErrChatNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"stale verification token", apperrors.ErrInvalidEmailToken, http.StatusBadRequest, dto.ErrorCodeResourceInvalid},
		{"stale reset token", apperrors.ErrInvalidResetToken, http.StatusBadRequest, dto.ErrorCodeResourceInvalid},
		{"image limit", apperrors.ErrImageLimit, http.StatusBadRequest, dto.ErrorCodeResourceInvalid},
		{"own car review", apperrors.ErrOwnCarReview, http.StatusBadRequest, dto.ErrorCodeResourceInvalid},
		{"bad request", apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"throttled", apperrors.ErrTooManyRequests, http.StatusTooManyRequests, dto.ErrorCodeTooManyRequests},
		{"email delivery failure", apperrors.ErrEmailSendFailed, http.StatusInternalServerError, dto.ErrorCodeExternalServiceError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := respondWithError(t, tc.err)

			assert.Equal(t, tc.status, status)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tc.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestHandleAPIErrorPreservesCustomMessage(t *testing.T) {
	status, body := respondWithError(t, apperrors.NewBadRequestError("message text cannot be empty"))

	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "message text cannot be empty", body.Error.Message)
}

func TestHandleAPIErrorWrappedSentinel(t *testing.T) {
	status, body := respondWithError(t, apperrors.NewTooManyRequestsError("try again in 10 minutes"))

	assert.Equal(t, http.StatusTooManyRequests, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, dto.ErrorCodeTooManyRequests, body.Error.Code)
	assert.Equal(t, "try again in 10 minutes", body.Error.Message)
}

func TestHandleAPIErrorUnknownErrorIsOpaque(t *testing.T) {
	status, body := respondWithError(t, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, dto.ErrorCodeInternalServer, body.Error.Code)
	assert.Equal(t, "internal server error", body.Error.Message)
}
