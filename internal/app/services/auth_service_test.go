package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eren/driveshare/internal/app/models"
	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/app/services"
	"github.com/eren/driveshare/internal/pkg/apperrors"
	"github.com/eren/driveshare/internal/pkg/auth"
)

// --- Fakes ---

type fakeUserRepo struct {
	CreateFn                  func(ctx context.Context, user *models.User) error
	GetByIDFn                 func(ctx context.Context, id int64) (*models.User, error)
	GetByEmailFn              func(ctx context.Context, email string) (*models.User, error)
	GetByResetTokenHashFn     func(ctx context.Context, tokenHash string) (*models.User, error)
	EmailExistsFn             func(ctx context.Context, email string) (bool, error)
	MarkVerifiedFn            func(ctx context.Context, userID int64) error
	SetVerifyTokenFn          func(ctx context.Context, userID int64, token string, expiry time.Time) error
	SetPasswordResetTokenFn   func(ctx context.Context, userID int64, tokenHash string, expiry time.Time) error
	ClearPasswordResetTokenFn func(ctx context.Context, userID int64) error
	UpdatePasswordFn          func(ctx context.Context, userID int64, passwordHash string, changedAt time.Time) error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	return f.CreateFn(ctx, user)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return f.GetByIDFn(ctx, id)
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.GetByEmailFn(ctx, email)
}

func (f *fakeUserRepo) GetByResetTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	return f.GetByResetTokenHashFn(ctx, tokenHash)
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return f.EmailExistsFn(ctx, email)
}

func (f *fakeUserRepo) MarkVerified(ctx context.Context, userID int64) error {
	return f.MarkVerifiedFn(ctx, userID)
}

func (f *fakeUserRepo) SetVerifyToken(ctx context.Context, userID int64, token string, expiry time.Time) error {
	return f.SetVerifyTokenFn(ctx, userID, token, expiry)
}

func (f *fakeUserRepo) SetPasswordResetToken(ctx context.Context, userID int64, tokenHash string, expiry time.Time) error {
	return f.SetPasswordResetTokenFn(ctx, userID, tokenHash, expiry)
}

func (f *fakeUserRepo) ClearPasswordResetToken(ctx context.Context, userID int64) error {
	return f.ClearPasswordResetTokenFn(ctx, userID)
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, userID int64, passwordHash string, changedAt time.Time) error {
	return f.UpdatePasswordFn(ctx, userID, passwordHash, changedAt)
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, userID int64, name string) error {
	return nil
}

func (f *fakeUserRepo) UpdateProfileImage(ctx context.Context, userID int64, image *string) error {
	return nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, userID int64, role models.RoleType) error {
	return nil
}

func (f *fakeUserRepo) UpdateStatus(ctx context.Context, userID int64, status models.AccountStatus) error {
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error { return nil }

func (f *fakeUserRepo) GetAll(ctx context.Context, role, status string, page, size int) ([]*models.User, int64, error) {
	return nil, 0, nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	stored map[string]*models.RefreshToken

	GetByTokenFn func(ctx context.Context, token string) (*models.RefreshToken, error)
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{stored: make(map[string]*models.RefreshToken)}
}

func (f *fakeTokenRepo) Upsert(ctx context.Context, token *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for t, existing := range f.stored {
		if existing.UserID == token.UserID {
			delete(f.stored, t)
		}
	}
	f.stored[token.Token] = token
	return nil
}

func (f *fakeTokenRepo) GetByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.GetByTokenFn != nil {
		return f.GetByTokenFn(ctx, token)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.stored[token]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	return stored, nil
}

func (f *fakeTokenRepo) DeleteByToken(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stored, token)
	return nil
}

func (f *fakeTokenRepo) DeleteForUser(ctx context.Context, userID int64, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.stored[token]; ok && existing.UserID == userID {
		delete(f.stored, token)
	}
	return nil
}

func (f *fakeTokenRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for t, existing := range f.stored {
		if existing.UserID == userID {
			delete(f.stored, t)
		}
	}
	return nil
}

type fakeEmailService struct {
	mu         sync.Mutex
	sent       []string
	resetSent  []string
	failSend   bool
	resetToken string
}

func (f *fakeEmailService) SendVerificationEmail(toEmail, toName, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend {
		return assert.AnError
	}
	f.sent = append(f.sent, toEmail)
	return nil
}

func (f *fakeEmailService) SendPasswordResetEmail(toEmail, toName, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend {
		return assert.AnError
	}
	f.resetSent = append(f.resetSent, toEmail)
	f.resetToken = token
	return nil
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		AccessSecret:       "access-secret",
		RefreshSecret:      "refresh-secret",
		VerificationSecret: "verification-secret",
		AccessTokenExp:     15 * time.Minute,
		RefreshTokenExp:    168 * time.Hour,
		VerificationExp:    2 * time.Hour,
		TokenIssuer:        "driveshare.test",
	})
}

func newAuthService(userRepo *fakeUserRepo, tokenRepo *fakeTokenRepo, emailSvc *fakeEmailService) *services.AuthService {
	return services.NewAuthService(userRepo, tokenRepo, newTestJWTService(), emailSvc, 10*time.Minute, zerolog.Nop())
}

func hashedTestPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return hash
}

// --- Register ---

func TestRegisterIssuesTokensAndStoresUnverifiedUser(t *testing.T) {
	var created *models.User
	userRepo := &fakeUserRepo{
		CreateFn: func(ctx context.Context, user *models.User) error {
			user.ID = 1
			created = user
			return nil
		},
	}
	tokenRepo := newFakeTokenRepo()
	svc := newAuthService(userRepo, tokenRepo, &fakeEmailService{})

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, models.RoleUser, created.Role)
	assert.False(t, created.IsVerified)
	require.NotNil(t, created.VerifyToken)
	assert.NotEqual(t, "password123", created.Password)

	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.NotEmpty(t, resp.Token.RefreshToken)
	assert.Equal(t, "ada@example.com", resp.User.Email)

	// The refresh token row is stored for later refresh calls.
	_, err = tokenRepo.GetByToken(context.Background(), resp.Token.RefreshToken)
	assert.NoError(t, err)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc := newAuthService(&fakeUserRepo{}, newFakeTokenRepo(), &fakeEmailService{})

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Eve",
		Email:    "eve@example.com",
		Password: "password123",
		Role:     models.RoleAdmin,
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	userRepo := &fakeUserRepo{
		CreateFn: func(ctx context.Context, user *models.User) error {
			return apperrors.ErrEmailAlreadyExists
		},
	}
	svc := newAuthService(userRepo, newFakeTokenRepo(), &fakeEmailService{})

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Bob",
		Email:    "taken@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

// --- VerifyEmail ---

func TestVerifyEmailTransitions(t *testing.T) {
	jwtSvc := newTestJWTService()
	token, err := jwtSvc.GenerateVerificationToken("ada@example.com")
	require.NoError(t, err)

	user := &models.User{
		ID:          1,
		Email:       "ada@example.com",
		VerifyToken: &token,
	}
	marked := false
	userRepo := &fakeUserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
		MarkVerifiedFn: func(ctx context.Context, userID int64) error {
			marked = true
			return nil
		},
	}
	svc := newAuthService(userRepo, newFakeTokenRepo(), &fakeEmailService{})

	require.NoError(t, svc.VerifyEmail(context.Background(), token))
	assert.True(t, marked)

	// A second attempt on an already verified account fails.
	user.IsVerified = true
	err = svc.VerifyEmail(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyVerified)
}

func TestVerifyEmailRejectsSupersededToken(t *testing.T) {
	jwtSvc := newTestJWTService()
	oldToken, err := jwtSvc.GenerateVerificationToken("ada@example.com")
	require.NoError(t, err)

	newToken := "a-newer-token"
	userRepo := &fakeUserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: 1, Email: email, VerifyToken: &newToken}, nil
		},
	}
	svc := newAuthService(userRepo, newFakeTokenRepo(), &fakeEmailService{})

	err = svc.VerifyEmail(context.Background(), oldToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidEmailToken)
}

func TestVerifyEmailMissingUserIsNotFound(t *testing.T) {
	jwtSvc := newTestJWTService()
	token, err := jwtSvc.GenerateVerificationToken("gone@example.com")
	require.NoError(t, err)

	userRepo := &fakeUserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return nil, apperrors.ErrUserNotFound
		},
	}
	svc := newAuthService(userRepo, newFakeTokenRepo(), &fakeEmailService{})

	err = svc.VerifyEmail(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestVerifyEmailPropagatesLookupFailure(t *testing.T) {
	jwtSvc := newTestJWTService()
	token, err := jwtSvc.GenerateVerificationToken("ada@example.com")
	require.NoError(t, err)

	userRepo := &fakeUserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return nil, assert.AnError
		},
	}
	svc := newAuthService(userRepo, newFakeTokenRepo(), &fakeEmailService{})

	err = svc.VerifyEmail(context.Background(), token)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidEmailToken)
}

func TestVerifyEmailGarbageToken(t *testing.T) {
	svc := newAuthService(&fakeUserRepo{}, newFakeTokenRepo(), &fakeEmailService{})

	err := svc.VerifyEmail(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrInvalidEmailToken)
}

// --- Login ---

func TestLoginGenericErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	hash := hashedTestPassword(t, "correct-password")
	userRepo := &fakeUserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			if email == "known@example.com" {
				return &models.User{
					ID:            1,
					Email:         email,
					Password:      hash,
					Role:          models.RoleUser,
					IsVerified:    true,
					AccountStatus: models.AccountActive,
				}, nil
			}
			return nil, apperrors.ErrUserNotFound
		},
	}
	svc := newAuthService(userRepo, newFakeTokenRepo(), &fakeEmailService{})

	_, errUnknown := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "unknown@example.com", Password: "whatever",
	})
	_, errWrongPass := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "known@example.com", Password: "wrong-password",
	})

	assert.ErrorIs(t, errUnknown, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPass, apperrors.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestLoginUnverifiedUserBlockedAdminBypasses(t *testing.T) {
	hash := hashedTestPassword(t, "password123")
	role := models.RoleUser
	userRepo := &fakeUserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				ID:            1,
				Email:         email,
				Password:      hash,
				Role:          role,
				IsVerified:    false,
				AccountStatus: models.AccountActive,
			}, nil
		},
	}
	svc := newAuthService(userRepo, newFakeTokenRepo(), &fakeEmailService{})

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "user@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailNotVerified)

	role = models.RoleAdmin
	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "admin@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token.AccessToken)
}

func TestLoginInactiveAccount(t *testing.T) {
	hash := hashedTestPassword(t, "password123")
	userRepo := &fakeUserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				ID:            1,
				Email:         email,
				Password:      hash,
				Role:          models.RoleUser,
				IsVerified:    true,
				AccountStatus: models.AccountInactive,
			}, nil
		},
	}
	svc := newAuthService(userRepo, newFakeTokenRepo(), &fakeEmailService{})

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "user@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, apperrors.ErrAccountInactive)
}

func TestLoginReplacesStoredRefreshToken(t *testing.T) {
	hash := hashedTestPassword(t, "password123")
	userRepo := &fakeUserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				ID:            1,
				Email:         email,
				Password:      hash,
				Role:          models.RoleUser,
				IsVerified:    true,
				AccountStatus: models.AccountActive,
			}, nil
		},
	}
	tokenRepo := newFakeTokenRepo()
	svc := newAuthService(userRepo, tokenRepo, &fakeEmailService{})

	first, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "u@example.com", Password: "password123"})
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "u@example.com", Password: "password123"})
	require.NoError(t, err)

	// The upsert keyed on user id leaves only the latest token usable.
	_, err = tokenRepo.GetByToken(context.Background(), first.Token.RefreshToken)
	assert.Error(t, err)
	_, err = tokenRepo.GetByToken(context.Background(), second.Token.RefreshToken)
	assert.NoError(t, err)
}

// --- RefreshToken ---

func TestRefreshTokenHappyPath(t *testing.T) {
	hash := hashedTestPassword(t, "password123")
	user := &models.User{
		ID:            1,
		Email:         "u@example.com",
		Password:      hash,
		Role:          models.RoleUser,
		IsVerified:    true,
		AccountStatus: models.AccountActive,
	}
	userRepo := &fakeUserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*models.User, error) { return user, nil },
		GetByIDFn:    func(ctx context.Context, id int64) (*models.User, error) { return user, nil },
	}
	tokenRepo := newFakeTokenRepo()
	svc := newAuthService(userRepo, tokenRepo, &fakeEmailService{})

	login, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "u@example.com", Password: "password123"})
	require.NoError(t, err)

	resp, err := svc.RefreshToken(context.Background(), login.Token.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	// The refresh token itself is not rotated.
	assert.Empty(t, resp.RefreshToken)
}

func TestRefreshTokenAfterLogoutFails(t *testing.T) {
	hash := hashedTestPassword(t, "password123")
	user := &models.User{
		ID: 1, Email: "u@example.com", Password: hash,
		Role: models.RoleUser, IsVerified: true, AccountStatus: models.AccountActive,
	}
	userRepo := &fakeUserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*models.User, error) { return user, nil },
		GetByIDFn:    func(ctx context.Context, id int64) (*models.User, error) { return user, nil },
	}
	tokenRepo := newFakeTokenRepo()
	svc := newAuthService(userRepo, tokenRepo, &fakeEmailService{})

	login, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "u@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), user.ID, login.Token.RefreshToken))

	_, err = svc.RefreshToken(context.Background(), login.Token.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestLogoutScopedToOwningUser(t *testing.T) {
	hash := hashedTestPassword(t, "password123")
	user := &models.User{
		ID: 1, Email: "u@example.com", Password: hash,
		Role: models.RoleUser, IsVerified: true, AccountStatus: models.AccountActive,
	}
	userRepo := &fakeUserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*models.User, error) { return user, nil },
		GetByIDFn:    func(ctx context.Context, id int64) (*models.User, error) { return user, nil },
	}
	tokenRepo := newFakeTokenRepo()
	svc := newAuthService(userRepo, tokenRepo, &fakeEmailService{})

	login, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "u@example.com", Password: "password123"})
	require.NoError(t, err)

	// Another user presenting this token must not revoke the session
	require.NoError(t, svc.Logout(context.Background(), 99, login.Token.RefreshToken))

	resp, err := svc.RefreshToken(context.Background(), login.Token.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestRefreshTokenExpiredRowIsRemoved(t *testing.T) {
	jwtSvc := newTestJWTService()
	refresh, err := jwtSvc.GenerateRefreshToken(1, "user")
	require.NoError(t, err)

	tokenRepo := newFakeTokenRepo()
	require.NoError(t, tokenRepo.Upsert(context.Background(), &models.RefreshToken{
		UserID:    1,
		Token:     refresh,
		ExpiresAt: time.Now().Add(-time.Hour),
	}))

	userRepo := &fakeUserRepo{
		GetByIDFn: func(ctx context.Context, id int64) (*models.User, error) {
			return &models.User{ID: 1, Role: models.RoleUser, AccountStatus: models.AccountActive}, nil
		},
	}
	svc := newAuthService(userRepo, tokenRepo, &fakeEmailService{})

	_, err = svc.RefreshToken(context.Background(), refresh)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	// The stale row is gone, so a retry fails on lookup instead.
	_, err = svc.RefreshToken(context.Background(), refresh)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestRefreshTokenGarbage(t *testing.T) {
	svc := newAuthService(&fakeUserRepo{}, newFakeTokenRepo(), &fakeEmailService{})

	_, err := svc.RefreshToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

// --- ForgotPassword / ResetPassword ---

func TestForgotPasswordUnknownEmailSilentlySucceeds(t *testing.T) {
	userRepo := &fakeUserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return nil, apperrors.ErrUserNotFound
		},
	}
	emailSvc := &fakeEmailService{}
	svc := newAuthService(userRepo, newFakeTokenRepo(), emailSvc)

	require.NoError(t, svc.ForgotPassword(context.Background(), "unknown@example.com"))
	assert.Empty(t, emailSvc.resetSent)
}

func TestForgotPasswordThrottledWhileTokenPending(t *testing.T) {
	pendingExpiry := time.Now().Add(7 * time.Minute)
	userRepo := &fakeUserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				ID:                       1,
				Email:                    email,
				PasswordResetTokenExpiry: &pendingExpiry,
			}, nil
		},
	}
	svc := newAuthService(userRepo, newFakeTokenRepo(), &fakeEmailService{})

	err := svc.ForgotPassword(context.Background(), "u@example.com")
	assert.ErrorIs(t, err, apperrors.ErrTooManyRequests)
	assert.Contains(t, err.Error(), "minute")
}

func TestForgotPasswordStoresDigestAndEmailsRawToken(t *testing.T) {
	var storedHash string
	userRepo := &fakeUserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: 1, Email: email, Name: "Ada"}, nil
		},
		SetPasswordResetTokenFn: func(ctx context.Context, userID int64, tokenHash string, expiry time.Time) error {
			storedHash = tokenHash
			return nil
		},
	}
	emailSvc := &fakeEmailService{}
	svc := newAuthService(userRepo, newFakeTokenRepo(), emailSvc)

	require.NoError(t, svc.ForgotPassword(context.Background(), "u@example.com"))
	require.NotEmpty(t, storedHash)
	require.NotEmpty(t, emailSvc.resetToken)

	// The raw token is never stored; only its digest is.
	assert.NotEqual(t, emailSvc.resetToken, storedHash)
	assert.Equal(t, storedHash, auth.HashResetToken(emailSvc.resetToken))
}

func TestForgotPasswordRollsBackOnEmailFailure(t *testing.T) {
	cleared := false
	userRepo := &fakeUserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: 1, Email: email}, nil
		},
		SetPasswordResetTokenFn: func(ctx context.Context, userID int64, tokenHash string, expiry time.Time) error {
			return nil
		},
		ClearPasswordResetTokenFn: func(ctx context.Context, userID int64) error {
			cleared = true
			return nil
		},
	}
	svc := newAuthService(userRepo, newFakeTokenRepo(), &fakeEmailService{failSend: true})

	err := svc.ForgotPassword(context.Background(), "u@example.com")
	assert.ErrorIs(t, err, apperrors.ErrEmailSendFailed)
	assert.True(t, cleared)
}

func TestResetPasswordUpdatesHashAndRevokesTokens(t *testing.T) {
	raw, hashed, err := auth.CreateResetToken()
	require.NoError(t, err)

	var newHash string
	userRepo := &fakeUserRepo{
		GetByResetTokenHashFn: func(ctx context.Context, tokenHash string) (*models.User, error) {
			if tokenHash != hashed {
				return nil, apperrors.ErrUserNotFound
			}
			return &models.User{ID: 1}, nil
		},
		UpdatePasswordFn: func(ctx context.Context, userID int64, passwordHash string, changedAt time.Time) error {
			newHash = passwordHash
			return nil
		},
	}
	tokenRepo := newFakeTokenRepo()
	require.NoError(t, tokenRepo.Upsert(context.Background(), &models.RefreshToken{
		UserID: 1, Token: "live-refresh", ExpiresAt: time.Now().Add(time.Hour),
	}))
	svc := newAuthService(userRepo, tokenRepo, &fakeEmailService{})

	require.NoError(t, svc.ResetPassword(context.Background(), raw, "new-password-123"))

	assert.True(t, auth.CheckPassword(newHash, "new-password-123"))
	_, err = tokenRepo.GetByToken(context.Background(), "live-refresh")
	assert.Error(t, err)
}

func TestResetPasswordInvalidToken(t *testing.T) {
	userRepo := &fakeUserRepo{
		GetByResetTokenHashFn: func(ctx context.Context, tokenHash string) (*models.User, error) {
			return nil, apperrors.ErrUserNotFound
		},
	}
	svc := newAuthService(userRepo, newFakeTokenRepo(), &fakeEmailService{})

	err := svc.ResetPassword(context.Background(), "bogus-token", "new-password-123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}
