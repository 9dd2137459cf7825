package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eren/driveshare/internal/app/models"
	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/app/repositories"
	"github.com/eren/driveshare/internal/middleware"
	"github.com/eren/driveshare/internal/pkg/apperrors"
	"github.com/eren/driveshare/internal/pkg/auth"
)

type stubUserRepo struct {
	repositories.IUserRepository

	user *models.User
}

func (s *stubUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, apperrors.ErrUserNotFound
	}
	return s.user, nil
}

func newProtectRouter(jwtService *auth.JWTService, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)

	authMiddleware := middleware.NewAuthMiddleware(jwtService, &stubUserRepo{user: user})
	router := gin.New()
	router.GET("/protected", authMiddleware.Protect(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": middleware.CurrentUserID(c)})
	})
	router.GET("/admin", authMiddleware.Protect(), authMiddleware.RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func protectJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		AccessSecret:       "access-secret",
		RefreshSecret:      "refresh-secret",
		VerificationSecret: "verify-secret",
		AccessTokenExp:     15 * time.Minute,
		RefreshTokenExp:    7 * 24 * time.Hour,
		VerificationExp:    2 * time.Hour,
		TokenIssuer:        "driveshare-test",
	})
}

func activeUser(id int64, role models.RoleType) *models.User {
	return &models.User{ID: id, Role: role, AccountStatus: models.AccountActive}
}

func doRequest(t *testing.T, router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestProtectAllowsValidToken(t *testing.T) {
	jwtService := protectJWT()
	user := activeUser(7, models.RoleUser)
	router := newProtectRouter(jwtService, user)

	token, err := jwtService.GenerateAccessToken(user.ID, string(user.Role))
	require.NoError(t, err)

	recorder := doRequest(t, router, "/protected", token)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"userId":7`)
}

func TestProtectRejectsMissingHeader(t *testing.T) {
	router := newProtectRouter(protectJWT(), activeUser(7, models.RoleUser))

	recorder := doRequest(t, router, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestProtectRejectsGarbageToken(t *testing.T) {
	router := newProtectRouter(protectJWT(), activeUser(7, models.RoleUser))

	recorder := doRequest(t, router, "/protected", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestProtectRejectsDeletedUser(t *testing.T) {
	jwtService := protectJWT()
	router := newProtectRouter(jwtService, nil)

	token, err := jwtService.GenerateAccessToken(7, string(models.RoleUser))
	require.NoError(t, err)

	recorder := doRequest(t, router, "/protected", token)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestProtectRejectsInactiveAccount(t *testing.T) {
	jwtService := protectJWT()
	user := activeUser(7, models.RoleUser)
	user.AccountStatus = models.AccountInactive
	router := newProtectRouter(jwtService, user)

	token, err := jwtService.GenerateAccessToken(user.ID, string(user.Role))
	require.NoError(t, err)

	recorder := doRequest(t, router, "/protected", token)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestProtectRejectsTokenIssuedBeforePasswordChange(t *testing.T) {
	jwtService := protectJWT()
	user := activeUser(7, models.RoleUser)
	router := newProtectRouter(jwtService, user)

	token, err := jwtService.GenerateAccessToken(user.ID, string(user.Role))
	require.NoError(t, err)

	changedAt := time.Now().Add(time.Minute)
	user.PasswordChangedAt = &changedAt

	recorder := doRequest(t, router, "/protected", token)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), string(dto.ErrorCodePasswordChanged))
}

func TestRequireRolesGatesByRole(t *testing.T) {
	jwtService := protectJWT()

	user := activeUser(7, models.RoleUser)
	router := newProtectRouter(jwtService, user)
	token, err := jwtService.GenerateAccessToken(user.ID, string(user.Role))
	require.NoError(t, err)

	recorder := doRequest(t, router, "/admin", token)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	admin := activeUser(8, models.RoleAdmin)
	router = newProtectRouter(jwtService, admin)
	token, err = jwtService.GenerateAccessToken(admin.ID, string(admin.Role))
	require.NoError(t, err)

	recorder = doRequest(t, router, "/admin", token)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
