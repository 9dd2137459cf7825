package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/eren/driveshare/internal/app/models"
	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/app/repositories"
	"github.com/eren/driveshare/internal/pkg/apperrors"
	"github.com/eren/driveshare/internal/pkg/auth"
	"github.com/eren/driveshare/internal/pkg/email"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo      repositories.IUserRepository
	tokenRepo     repositories.ITokenRepository
	jwtService    *auth.JWTService
	emailService  email.EmailService
	resetTokenTTL time.Duration
	logger        zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	tokenRepo repositories.ITokenRepository,
	jwtService *auth.JWTService,
	emailService email.EmailService,
	resetTokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		tokenRepo:     tokenRepo,
		jwtService:    jwtService,
		emailService:  emailService,
		resetTokenTTL: resetTokenTTL,
		logger:        logger,
	}
}

// Register creates a new account and immediately issues a token pair. The
// verification email is sent best-effort in the background; failure to send
// never fails the signup.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if role == models.RoleAdmin {
		return nil, apperrors.NewForbiddenError("cannot register as admin")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	verifyToken, err := s.jwtService.GenerateVerificationToken(req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}
	verifyExpiry := time.Now().Add(2 * time.Hour)

	user := &models.User{
		Name:              req.Name,
		Email:             req.Email,
		Password:          hashedPassword,
		Role:              role,
		IsVerified:        false,
		VerifyToken:       &verifyToken,
		VerifyTokenExpiry: &verifyExpiry,
		AccountStatus:     models.AccountActive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	go func() {
		if err := s.emailService.SendVerificationEmail(user.Email, user.Name, verifyToken); err != nil {
			s.logger.Error().Err(err).Str("email", user.Email).Msg("Failed to send verification email")
		}
	}()

	return s.buildAuthResponse(ctx, user)
}

// VerifyEmail confirms an email address using a verification token
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	emailAddr, err := s.jwtService.VerifyEmailToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return apperrors.ErrTokenExpired
		}
		return apperrors.ErrInvalidEmailToken
	}

	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return err
	}

	if user.IsVerified {
		return apperrors.ErrEmailAlreadyVerified
	}

	// Only the most recently issued token is accepted
	if user.VerifyToken == nil || *user.VerifyToken != token {
		return apperrors.ErrInvalidEmailToken
	}

	return s.userRepo.MarkVerified(ctx, user.ID)
}

// ResendVerification issues a fresh verification token and emails it
func (s *AuthService) ResendVerification(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	if user.IsVerified {
		return apperrors.ErrEmailAlreadyVerified
	}

	token, err := s.jwtService.GenerateVerificationToken(user.Email)
	if err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}

	if err := s.userRepo.SetVerifyToken(ctx, user.ID, token, time.Now().Add(2*time.Hour)); err != nil {
		return err
	}

	if err := s.emailService.SendVerificationEmail(user.Email, user.Name, token); err != nil {
		s.logger.Error().Err(err).Str("email", user.Email).Msg("Failed to send verification email")
		return apperrors.ErrEmailSendFailed
	}

	return nil
}

// Login authenticates a user and issues a token pair. Unknown email and wrong
// password produce the same error so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive() {
		return nil, apperrors.ErrAccountInactive
	}

	// Admins bypass the verification gate
	if !user.IsVerified && user.Role != models.RoleAdmin {
		return nil, apperrors.ErrEmailNotVerified
	}

	return s.buildAuthResponse(ctx, user)
}

// Logout invalidates the given refresh token. Unknown tokens are ignored so
// logout stays idempotent.
func (s *AuthService) Logout(ctx context.Context, userID int64, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokenRepo.DeleteForUser(ctx, userID, refreshToken)
}

// RefreshToken validates a refresh token and issues a new access token. The
// refresh token itself is not rotated.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtService.VerifyRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}

	stored, err := s.tokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		return nil, apperrors.ErrTokenNotFound
	}

	if stored.Revoked {
		return nil, apperrors.ErrTokenInvalid
	}

	if time.Now().After(stored.ExpiresAt) {
		// Stale rows are cleaned up on discovery
		if delErr := s.tokenRepo.DeleteByToken(ctx, refreshToken); delErr != nil {
			s.logger.Warn().Err(delErr).Msg("Failed to delete expired refresh token")
		}
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}

	if !user.IsActive() {
		return nil, apperrors.ErrAccountInactive
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}, nil
}

// ForgotPassword initiates a password reset. Unknown emails succeed silently;
// a pending unexpired token yields a throttling error carrying the minutes
// remaining.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil
		}
		return err
	}

	if user.PasswordResetTokenExpiry != nil && user.PasswordResetTokenExpiry.After(time.Now()) {
		minutes := int(math.Ceil(time.Until(*user.PasswordResetTokenExpiry).Minutes()))
		return apperrors.NewTooManyRequestsError(
			fmt.Sprintf("a reset link was already sent, try again in %d minute(s)", minutes))
	}

	rawToken, hashedToken, err := auth.CreateResetToken()
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	if err := s.userRepo.SetPasswordResetToken(ctx, user.ID, hashedToken, time.Now().Add(s.resetTokenTTL)); err != nil {
		return err
	}

	if err := s.emailService.SendPasswordResetEmail(user.Email, user.Name, rawToken); err != nil {
		s.logger.Error().Err(err).Str("email", user.Email).Msg("Failed to send password reset email")
		if clearErr := s.userRepo.ClearPasswordResetToken(ctx, user.ID); clearErr != nil {
			s.logger.Error().Err(clearErr).Int64("userId", user.ID).Msg("Failed to roll back reset token")
		}
		return apperrors.ErrEmailSendFailed
	}

	return nil
}

// ResetPassword completes a password reset using the raw token from the email
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, password string) error {
	hashed := auth.HashResetToken(rawToken)

	user, err := s.userRepo.GetByResetTokenHash(ctx, hashed)
	if err != nil {
		return apperrors.ErrInvalidResetToken
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, passwordHash, time.Now()); err != nil {
		return err
	}

	// Existing sessions are cut off: old access tokens fail the
	// password-changed check and the refresh token row is removed.
	if err := s.tokenRepo.DeleteByUserID(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userId", user.ID).Msg("Failed to revoke refresh tokens after password reset")
	}

	return nil
}

func (s *AuthService) buildAuthResponse(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token pair: %w", err)
	}

	if err := s.tokenRepo.Upsert(ctx, &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: s.jwtService.GetRefreshTokenExpiry(),
	}); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken:           accessToken,
			TokenType:             "Bearer",
			ExpiresIn:             expiresIn,
			RefreshToken:          refreshToken,
			RefreshTokenExpiresIn: refreshExpiresIn,
		},
		User: dto.FromUser(user),
	}, nil
}
