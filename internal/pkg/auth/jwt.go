package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWT errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidFormat = errors.New("invalid token format")
)

// JWTConfig defines JWT configuration settings. Access, refresh and email
// verification tokens share one signing primitive but use distinct secrets
// and lifetimes.
type JWTConfig struct {
	AccessSecret       string
	RefreshSecret      string
	VerificationSecret string
	AccessTokenExp     time.Duration
	RefreshTokenExp    time.Duration
	VerificationExp    time.Duration
	TokenIssuer        string
}

// JWTService handles JWT operations
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
	}
}

// Claims defines the content of access and refresh tokens
type Claims struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// EmailClaims defines the content of email verification tokens
type EmailClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *JWTService) sign(claims jwt.Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) registeredClaims(userID int64, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    s.config.TokenIssuer,
		Subject:   fmt.Sprintf("%d", userID),
		ID:        uuid.New().String(),
	}
}

// GenerateAccessToken creates a short-lived access token carrying {userId, role}
func (s *JWTService) GenerateAccessToken(userID int64, role string) (string, error) {
	claims := &Claims{
		UserID:           userID,
		Role:             role,
		RegisteredClaims: s.registeredClaims(userID, s.config.AccessTokenExp),
	}
	return s.sign(claims, s.config.AccessSecret)
}

// GenerateRefreshToken creates a long-lived refresh token carrying {userId, role}.
// The caller is responsible for persisting it server-side.
func (s *JWTService) GenerateRefreshToken(userID int64, role string) (string, error) {
	claims := &Claims{
		UserID:           userID,
		Role:             role,
		RegisteredClaims: s.registeredClaims(userID, s.config.RefreshTokenExp),
	}
	return s.sign(claims, s.config.RefreshSecret)
}

// GenerateTokenPair creates an access and refresh token pair
func (s *JWTService) GenerateTokenPair(userID int64, role string) (accessToken, refreshToken string, expiresIn, refreshExpiresIn int, err error) {
	accessToken, err = s.GenerateAccessToken(userID, role)
	if err != nil {
		return "", "", 0, 0, err
	}

	refreshToken, err = s.GenerateRefreshToken(userID, role)
	if err != nil {
		return "", "", 0, 0, err
	}

	expiresIn = int(s.config.AccessTokenExp.Seconds())
	refreshExpiresIn = int(s.config.RefreshTokenExp.Seconds())

	return accessToken, refreshToken, expiresIn, refreshExpiresIn, nil
}

// GenerateVerificationToken creates an email verification token carrying {email}
func (s *JWTService) GenerateVerificationToken(email string) (string, error) {
	now := time.Now()
	claims := &EmailClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.VerificationExp)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			ID:        uuid.New().String(),
		},
	}
	return s.sign(claims, s.config.VerificationSecret)
}

func (s *JWTService) parse(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		if claims.UserID <= 0 {
			return nil, ErrInvalidToken
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// VerifyAccessToken validates an access token and returns its claims
func (s *JWTService) VerifyAccessToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	return s.parse(tokenString, s.config.AccessSecret)
}

// VerifyRefreshToken validates a refresh token and returns its claims
func (s *JWTService) VerifyRefreshToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	return s.parse(tokenString, s.config.RefreshSecret)
}

// VerifyEmailToken validates an email verification token and returns the email
func (s *JWTService) VerifyEmailToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &EmailClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.VerificationSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*EmailClaims); ok && token.Valid {
		if claims.Email == "" {
			return "", ErrInvalidToken
		}
		return claims.Email, nil
	}

	return "", ErrInvalidToken
}

// GetRefreshTokenExpiry returns the expiry time for a refresh token issued now
func (s *JWTService) GetRefreshTokenExpiry() time.Time {
	return time.Now().Add(s.config.RefreshTokenExp)
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidFormat
	}

	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), nil
	}

	return authHeader, nil
}
