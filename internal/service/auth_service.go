package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sourcery-io/sourcery/internal/auth"
	"github.com/sourcery-io/sourcery/internal/config"
	"github.com/sourcery-io/sourcery/internal/email"
	"github.com/sourcery-io/sourcery/internal/logger"
	"github.com/sourcery-io/sourcery/internal/model"
	"github.com/sourcery-io/sourcery/internal/repository"
)

// Common service errors
var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountLocked        = errors.New("account is temporarily locked")
	ErrAccountNotActive     = errors.New("account is not active")
	ErrEmailAlreadyExists   = errors.New("email already registered")
	ErrPasswordTooWeak      = errors.New("password does not meet requirements")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrTokenRevoked         = errors.New("token has been revoked")
	ErrResetTokenExpired    = errors.New("password reset token has expired")
	ErrResetTokenUsed       = errors.New("password reset token has already been used")
	ErrSamePassword         = errors.New("new password must be different from current password")
	ErrTooManyResetAttempts = errors.New("too many password reset requests")
	ErrMFARequired          = errors.New("MFA verification required")
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo          *repository.UserRepository
	tokenRepo         *repository.TokenRepository
	passwordResetRepo *repository.PasswordResetRepository
	subscriptionRepo  *repository.SubscriptionRepository
	mfaRepo           *repository.MFARepository
	tokenSvc          *auth.TokenService
	sender            email.Sender
	argonParams       *auth.Argon2Params
	cfg               *config.Config
	log               *logger.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repository.UserRepository,
	tokenRepo *repository.TokenRepository,
	passwordResetRepo *repository.PasswordResetRepository,
	subscriptionRepo *repository.SubscriptionRepository,
	mfaRepo *repository.MFARepository,
	tokenSvc *auth.TokenService,
	sender email.Sender,
	cfg *config.Config,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		tokenRepo:         tokenRepo,
		passwordResetRepo: passwordResetRepo,
		subscriptionRepo:  subscriptionRepo,
		mfaRepo:           mfaRepo,
		tokenSvc:          tokenSvc,
		sender:            sender,
		argonParams: auth.NewParams(
			cfg.Security.Password.Argon2Memory,
			cfg.Security.Password.Argon2Iterations,
			cfg.Security.Password.Argon2Parallelism,
		),
		cfg: cfg,
		log: log.WithComponent("auth_service"),
	}
}

// RegisterRequest contains the data for registering a new user
type RegisterRequest struct {
	Email    string
	Password string
}

// RegisterResponse contains the response from a registration
type RegisterResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// Register creates a new user account with a free subscription
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	// Validate email format
	if !isValidEmail(req.Email) {
		return nil, fmt.Errorf("invalid email format")
	}

	// Normalize email
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))

	// Check email uniqueness
	exists, err := s.userRepo.ExistsByEmail(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	// Validate password
	if err := auth.ValidatePassword(req.Password, s.cfg.Security.Password.MinLength); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPasswordTooWeak, err.Error())
	}

	// Hash password
	passwordHash, err := auth.HashPassword(req.Password, s.argonParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	userID := generateID("usr")

	user := &model.User{
		ID:           userID,
		Email:        emailAddr,
		PasswordHash: passwordHash,
		Status:       model.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Every account starts on the free plan
	subscription := &model.UserSubscription{
		ID:               generateID("sub"),
		UserID:           userID,
		Plan:             model.PlanFree,
		Status:           model.SubscriptionActive,
		EmailQuota:       model.FreePlanQuota,
		CurrentPeriodEnd: now.AddDate(0, 1, 0),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("failed to create subscription")
		// Don't fail registration if subscription creation fails
	}

	s.log.Info().Str("user_id", userID).Str("email", emailAddr).Msg("user registered")

	return &RegisterResponse{
		UserID: userID,
		Email:  emailAddr,
		Status: string(model.UserStatusActive),
	}, nil
}

// LoginRequest contains the data for logging in
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse contains the response from a login
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int    `json:"expiresIn"`
}

// LoginResult wraps either a successful login or an MFA challenge
type LoginResult struct {
	// Success is set when login is complete (no MFA required or MFA already passed)
	Success *LoginResponse `json:"success,omitempty"`
	// MFAChallenge is set when MFA verification is required
	MFAChallenge *model.MFAChallengeResponse `json:"mfaChallenge,omitempty"`
}

// Login authenticates a user and returns tokens or an MFA challenge
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))

	// Get user by email
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Check if account is locked
	if user.IsLocked() {
		return nil, ErrAccountLocked
	}

	// Verify password
	match, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		attempts, _ := s.userRepo.IncrementFailedAttempts(ctx, user.ID)
		s.handleFailedLogin(ctx, user.ID, attempts)
		return nil, ErrInvalidCredentials
	}

	if user.Status != model.UserStatusActive {
		return nil, ErrAccountNotActive
	}

	// Reset failed attempts on successful login
	if err := s.userRepo.ResetFailedAttempts(ctx, user.ID); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to reset failed attempts")
	}

	// Check if user has MFA enabled
	if s.mfaRepo != nil {
		hasMFA, err := s.mfaRepo.HasAnyMethod(ctx, user.ID)
		if err != nil {
			s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to check MFA status")
		}
		if hasMFA {
			// MFA is required - return a challenge instead of tokens
			mfaToken, err := s.tokenSvc.GenerateMFAToken(user.ID, user.Email)
			if err != nil {
				return nil, fmt.Errorf("failed to generate MFA token: %w", err)
			}
			return &LoginResult{
				MFAChallenge: &model.MFAChallengeResponse{
					Status:           "mfa_required",
					MFAToken:         mfaToken,
					AvailableMethods: []model.MFAMethodType{model.MFAMethodTOTP, model.MFAMethodBackupCode},
				},
			}, ErrMFARequired
		}
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")

	return &LoginResult{Success: resp}, nil
}

// issueTokens generates and stores a token pair for a user
func (s *AuthService) issueTokens(ctx context.Context, user *model.User) (*LoginResponse, error) {
	tokenPair, refreshTokenHash, err := s.tokenSvc.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	now := time.Now()
	refreshToken := &model.RefreshToken{
		ID:        generateID("rt"),
		UserID:    user.ID,
		TokenHash: refreshTokenHash,
		ExpiresAt: now.Add(s.tokenSvc.GetRefreshTokenTTL()),
		CreatedAt: now,
	}

	if err := s.tokenRepo.CreateRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &LoginResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		TokenType:    tokenPair.TokenType,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// RefreshTokens refreshes an access token using a refresh token
func (s *AuthService) RefreshTokens(ctx context.Context, refreshTokenRaw string) (*LoginResponse, error) {
	// Hash the provided token
	tokenHash := auth.HashToken(refreshTokenRaw)

	// Look up the stored token
	storedToken, err := s.tokenRepo.GetRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	// Validate the token
	if storedToken.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, ErrInvalidToken
	}

	// Get the user
	user, err := s.userRepo.GetByID(ctx, storedToken.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Revoke the old refresh token (token rotation)
	if err := s.tokenRepo.RevokeRefreshToken(ctx, storedToken.ID); err != nil {
		s.log.Error().Err(err).Msg("failed to revoke old refresh token")
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the provided refresh token
func (s *AuthService) Logout(ctx context.Context, refreshTokenRaw string) error {
	tokenHash := auth.HashToken(refreshTokenRaw)

	storedToken, err := s.tokenRepo.GetRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil // already gone
		}
		return fmt.Errorf("failed to get refresh token: %w", err)
	}

	if err := s.tokenRepo.RevokeRefreshToken(ctx, storedToken.ID); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// LogoutAll revokes all tokens for a user
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.tokenRepo.RevokeAllUserRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke all refresh tokens: %w", err)
	}
	return nil
}

// GetCurrentUser returns the user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*model.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ValidateAccessToken validates an access token and returns the claims
func (s *AuthService) ValidateAccessToken(tokenString string) (*auth.TokenClaims, error) {
	return s.tokenSvc.ValidateAccessToken(tokenString)
}

// ValidateMFAToken validates an MFA challenge token and returns the user ID
func (s *AuthService) ValidateMFAToken(tokenString string) (string, error) {
	claims, err := s.tokenSvc.ValidateMFAToken(tokenString)
	if err != nil {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// CompleteMFALogin issues tokens after successful MFA verification
func (s *AuthService) CompleteMFALogin(ctx context.Context, userID string) (*LoginResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in (MFA verified)")
	return resp, nil
}

// --- Password Reset ---

// PasswordResetResponse contains the response from a password reset request
type PasswordResetResponse struct {
	Message string `json:"message"`
}

// RequestPasswordReset initiates a password reset flow.
// Always returns success to prevent email enumeration.
func (s *AuthService) RequestPasswordReset(ctx context.Context, emailAddr string) (*PasswordResetResponse, error) {
	normalizedEmail := strings.ToLower(strings.TrimSpace(emailAddr))

	// Always return the same response to prevent email enumeration
	successResp := &PasswordResetResponse{
		Message: "If an account with that email exists, a password reset link has been sent.",
	}

	// Look up user - if not found, return success anyway
	user, err := s.userRepo.GetByEmail(ctx, normalizedEmail)
	if err != nil {
		s.log.Debug().Str("email", normalizedEmail).Msg("password reset requested for non-existent email")
		return successResp, nil
	}

	// Rate limit: max 3 reset requests per hour per user
	recentCount, err := s.passwordResetRepo.CountRecentByUserID(ctx, user.ID, time.Now().Add(-1*time.Hour))
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to count recent reset tokens")
		return nil, fmt.Errorf("failed to process request: %w", err)
	}
	if recentCount >= 3 {
		s.log.Warn().Str("user_id", user.ID).Int("count", recentCount).Msg("too many password reset requests")
		// Still return success to prevent enumeration
		return successResp, nil
	}

	// Invalidate any existing unused tokens
	if err := s.passwordResetRepo.InvalidateAllForUser(ctx, user.ID); err != nil {
		s.log.Error().Err(err).Msg("failed to invalidate existing reset tokens")
	}

	// Generate secure reset token (32 bytes)
	tokenRaw, err := generateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reset token: %w", err)
	}

	tokenHash := auth.HashToken(tokenRaw)
	now := time.Now()

	resetToken := &model.PasswordResetToken{
		ID:        generateID("prt"),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(1 * time.Hour),
		CreatedAt: now,
	}

	if err := s.passwordResetRepo.Create(ctx, resetToken); err != nil {
		return nil, fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimSuffix(s.cfg.Extension.DashboardURL, "/dashboard"), tokenRaw)
	msg := email.Message{
		To:       user.Email,
		Subject:  "Reset your " + s.cfg.Email.AppName + " password",
		HTMLBody: email.PasswordResetEmailHTML(resetURL, s.cfg.Email.AppName, 60),
		TextBody: email.PasswordResetEmailText(resetURL, s.cfg.Email.AppName, 60),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to send password reset email")
	}

	return successResp, nil
}

// CompletePasswordReset completes a password reset using the token
func (s *AuthService) CompletePasswordReset(ctx context.Context, tokenRaw, newPassword string) error {
	// Hash the provided token to look it up
	tokenHash := auth.HashToken(tokenRaw)

	// Look up the stored token
	storedToken, err := s.passwordResetRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return ErrInvalidToken
	}

	if storedToken.IsUsed() {
		return ErrResetTokenUsed
	}
	if storedToken.IsExpired() {
		return ErrResetTokenExpired
	}

	// Validate the new password
	if err := auth.ValidatePassword(newPassword, s.cfg.Security.Password.MinLength); err != nil {
		return fmt.Errorf("%w: %s", ErrPasswordTooWeak, err.Error())
	}

	// Hash the new password
	passwordHash, err := auth.HashPassword(newPassword, s.argonParams)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Update the password
	if err := s.userRepo.UpdatePasswordHash(ctx, storedToken.UserID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// Mark the reset token as used
	if err := s.passwordResetRepo.MarkUsed(ctx, storedToken.ID); err != nil {
		s.log.Error().Err(err).Msg("failed to mark reset token as used")
	}

	// Invalidate all other reset tokens for this user
	if err := s.passwordResetRepo.InvalidateAllForUser(ctx, storedToken.UserID); err != nil {
		s.log.Error().Err(err).Msg("failed to invalidate other reset tokens")
	}

	// Revoke all refresh tokens - a reset invalidates every session
	if err := s.tokenRepo.RevokeAllUserRefreshTokens(ctx, storedToken.UserID); err != nil {
		s.log.Error().Err(err).Msg("failed to revoke all refresh tokens after password reset")
	}

	// Reset failed attempts and unlock account
	if err := s.userRepo.ResetFailedAttempts(ctx, storedToken.UserID); err != nil {
		s.log.Error().Err(err).Msg("failed to reset failed attempts after password reset")
	}

	// If the account was locked, reactivate it
	if err := s.userRepo.UpdateStatus(ctx, storedToken.UserID, model.UserStatusActive); err != nil {
		s.log.Error().Err(err).Msg("failed to reactivate account after password reset")
	}

	s.log.Info().Str("user_id", storedToken.UserID).Msg("password reset completed")

	return nil
}

// --- Change Password ---

// ChangePasswordRequest contains the data for changing a password
type ChangePasswordRequest struct {
	UserID                  string
	CurrentPassword         string
	NewPassword             string
	InvalidateOtherSessions bool
}

// ChangePassword changes a user's password (requires authentication)
func (s *AuthService) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	// Get the user
	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	// Verify current password
	match, err := auth.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return ErrInvalidCredentials
	}

	// Check new password isn't the same as current
	sameAsOld, err := auth.VerifyPassword(req.NewPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if sameAsOld {
		return ErrSamePassword
	}

	// Validate the new password
	if err := auth.ValidatePassword(req.NewPassword, s.cfg.Security.Password.MinLength); err != nil {
		return fmt.Errorf("%w: %s", ErrPasswordTooWeak, err.Error())
	}

	// Hash the new password
	passwordHash, err := auth.HashPassword(req.NewPassword, s.argonParams)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Update the password
	if err := s.userRepo.UpdatePasswordHash(ctx, req.UserID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// Optionally invalidate other sessions
	if req.InvalidateOtherSessions {
		if err := s.tokenRepo.RevokeAllUserRefreshTokens(ctx, req.UserID); err != nil {
			s.log.Error().Err(err).Msg("failed to revoke other sessions after password change")
		}
	}

	s.log.Info().Str("user_id", req.UserID).Bool("invalidated_sessions", req.InvalidateOtherSessions).Msg("password changed")

	return nil
}

// handleFailedLogin manages progressive account lockout
func (s *AuthService) handleFailedLogin(ctx context.Context, userID string, attempts int) {
	var lockDuration time.Duration

	switch {
	case attempts >= 20:
		// Permanent lock - require manual unlock
		lockDuration = 24 * 365 * time.Hour
		s.userRepo.LockUntil(ctx, userID, time.Now().Add(lockDuration))
	case attempts >= 15:
		lockDuration = 2 * time.Hour
		s.userRepo.LockUntil(ctx, userID, time.Now().Add(lockDuration))
	case attempts >= 10:
		lockDuration = 30 * time.Minute
		s.userRepo.LockUntil(ctx, userID, time.Now().Add(lockDuration))
	case attempts >= 5:
		lockDuration = 5 * time.Minute
		s.userRepo.LockUntil(ctx, userID, time.Now().Add(lockDuration))
	}

	if lockDuration > 0 {
		s.log.Warn().
			Str("user_id", userID).
			Int("attempts", attempts).
			Dur("lock_duration", lockDuration).
			Msg("account locked due to failed attempts")
	}
}

// Helper functions

func generateID(prefix string) string {
	id := uuid.New().String()
	// Remove hyphens and take first 26 chars to fit varchar(32) with prefix
	clean := strings.ReplaceAll(id, "-", "")
	if len(prefix) > 0 {
		return prefix + "_" + clean[:min(26, len(clean))]
	}
	return clean
}

func generateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func isValidEmail(email string) bool {
	if len(email) < 3 || len(email) > 255 {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		return false
	}
	// Check domain has at least one dot
	if !strings.Contains(parts[1], ".") {
		return false
	}
	return true
}
