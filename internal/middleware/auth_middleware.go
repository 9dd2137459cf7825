package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eren/driveshare/internal/app/models"
	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/app/repositories"
	"github.com/eren/driveshare/internal/pkg/auth"
)

// Context keys set by the authentication middleware
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextUser     = "user"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	userRepo   repositories.IUserRepository
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, userRepo repositories.IUserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, details string) {
	errorDetail := dto.NewErrorDetail(code, "Authentication failed").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

// Protect validates the bearer token and loads the live user. Tokens issued
// before the last password change are rejected, as are tokens of deactivated
// or deleted accounts.
func (m *AuthMiddleware) Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authorization header missing")
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Invalid token format")
			return
		}

		claims, err := m.jwtService.VerifyAccessToken(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			if err == auth.ErrExpiredToken {
				code = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			}
			abortUnauthorized(c, code, details)
			return
		}

		user, err := m.userRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "User no longer exists")
			return
		}

		if !user.IsActive() {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeAccountInactive, "Account is deactivated")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		if claims.IssuedAt != nil && auth.PasswordChangedAfter(user.PasswordChangedAt, claims.IssuedAt.Time) {
			abortUnauthorized(c, dto.ErrorCodePasswordChanged, "Password was changed after this token was issued")
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, user.Role)
		c.Set(ContextUser, user)

		c.Next()
	}
}

// RequireRoles restricts a route to the given roles. Must run after Protect.
func (m *AuthMiddleware) RequireRoles(roles ...models.RoleType) gin.HandlerFunc {
	allowed := make(map[models.RoleType]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		roleValue, exists := c.Get(ContextUserRole)
		if !exists {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}

		role, ok := roleValue.(models.RoleType)
		if !ok || !allowed[role] {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "You do not have permission to perform this action")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// CurrentUserID returns the authenticated user's ID from the context
func CurrentUserID(c *gin.Context) int64 {
	id, _ := c.Get(ContextUserID)
	userID, _ := id.(int64)
	return userID
}

// CurrentUserRole returns the authenticated user's role from the context
func CurrentUserRole(c *gin.Context) models.RoleType {
	value, _ := c.Get(ContextUserRole)
	role, _ := value.(models.RoleType)
	return role
}
