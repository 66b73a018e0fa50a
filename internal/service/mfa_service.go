package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/sourcery-io/sourcery/internal/config"
	"github.com/sourcery-io/sourcery/internal/logger"
	"github.com/sourcery-io/sourcery/internal/model"
	"github.com/sourcery-io/sourcery/internal/repository"
)

// MFA service errors
var (
	ErrMFAAlreadyEnrolled = errors.New("MFA method already enrolled")
	ErrMFANotEnrolled     = errors.New("MFA method not enrolled")
	ErrMFAInvalidCode     = errors.New("invalid MFA code")
	ErrMFANoBackupCodes   = errors.New("no backup codes remaining")
)

const (
	backupCodeCount  = 10
	backupCodeLength = 8
)

// MFAService handles TOTP enrollment and backup codes.
type MFAService struct {
	mfaRepo  *repository.MFARepository
	userRepo *repository.UserRepository
	cfg      *config.Config
	log      *logger.Logger
}

// NewMFAService creates a new MFAService
func NewMFAService(
	mfaRepo *repository.MFARepository,
	userRepo *repository.UserRepository,
	cfg *config.Config,
	log *logger.Logger,
) *MFAService {
	return &MFAService{
		mfaRepo:  mfaRepo,
		userRepo: userRepo,
		cfg:      cfg,
		log:      log.WithComponent("mfa_service"),
	}
}

// SetupTOTP generates a TOTP secret and a provisioning QR code. The secret
// is stored immediately and confirmed by the first successful VerifyTOTP.
func (s *MFAService) SetupTOTP(ctx context.Context, userID string) (*model.MFASetupResponse, error) {
	_, err := s.mfaRepo.GetMethodByUserAndType(ctx, userID, model.MFAMethodTOTP)
	if err == nil {
		return nil, ErrMFAAlreadyEnrolled
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check TOTP enrollment: %w", err)
	}

	// Account name in the authenticator app is the user's email
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	issuer := s.cfg.MFA.TOTP.Issuer
	if issuer == "" {
		issuer = "Sourcery"
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: user.Email,
		Period:      uint(s.cfg.MFA.TOTP.Period),
		Digits:      otp.Digits(s.cfg.MFA.TOTP.Digits),
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	method := &model.MFAMethod{
		ID:        generateID("mfa"),
		UserID:    userID,
		Method:    model.MFAMethodTOTP,
		Secret:    []byte(key.Secret()),
		CreatedAt: time.Now(),
	}
	if err := s.mfaRepo.CreateMethod(ctx, method); err != nil {
		return nil, fmt.Errorf("failed to store TOTP method: %w", err)
	}

	s.log.Info().Str("user_id", userID).Msg("TOTP setup initiated")

	return &model.MFASetupResponse{
		Secret:    key.Secret(),
		QRCode:    base64.StdEncoding.EncodeToString(qrPNG),
		Issuer:    issuer,
		AccountID: user.Email,
	}, nil
}

// VerifyTOTP validates a TOTP code, for setup confirmation or login.
func (s *MFAService) VerifyTOTP(ctx context.Context, userID, code string) error {
	method, err := s.mfaRepo.GetMethodByUserAndType(ctx, userID, model.MFAMethodTOTP)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMFANotEnrolled
		}
		return fmt.Errorf("failed to get TOTP method: %w", err)
	}

	if !totp.Validate(code, string(method.Secret)) {
		return ErrMFAInvalidCode
	}

	if err := s.mfaRepo.UpdateMethodLastUsed(ctx, method.ID); err != nil {
		s.log.Error().Err(err).Msg("failed to update TOTP last used")
	}

	return nil
}

// GenerateBackupCodes replaces the user's backup codes with a fresh set.
// Plain codes go to the caller once; only hashes persist.
func (s *MFAService) GenerateBackupCodes(ctx context.Context, userID string) (*model.BackupCodesResponse, error) {
	hasMFA, err := s.mfaRepo.HasAnyMethod(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check MFA methods: %w", err)
	}
	if !hasMFA {
		return nil, ErrMFANotEnrolled
	}

	if err := s.mfaRepo.DeleteAllBackupCodes(ctx, userID); err != nil {
		s.log.Error().Err(err).Msg("failed to delete existing backup codes")
	}

	now := time.Now()
	plainCodes := make([]string, backupCodeCount)
	dbCodes := make([]*model.BackupCode, backupCodeCount)

	for i := range plainCodes {
		code := generateBackupCode()
		plainCodes[i] = code
		dbCodes[i] = &model.BackupCode{
			ID:        generateID("bkp"),
			UserID:    userID,
			CodeHash:  hashBackupCode(code),
			CreatedAt: now,
		}
	}

	if err := s.mfaRepo.CreateBackupCodes(ctx, dbCodes); err != nil {
		return nil, fmt.Errorf("failed to store backup codes: %w", err)
	}

	s.log.Info().Str("user_id", userID).Int("count", backupCodeCount).Msg("backup codes generated")

	return &model.BackupCodesResponse{
		Codes: plainCodes,
		Count: backupCodeCount,
	}, nil
}

// VerifyBackupCode validates and consumes a backup code.
func (s *MFAService) VerifyBackupCode(ctx context.Context, userID, code string) error {
	codes, err := s.mfaRepo.GetUnusedBackupCodes(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get backup codes: %w", err)
	}
	if len(codes) == 0 {
		return ErrMFANoBackupCodes
	}

	inputHash := hashBackupCode(code)
	for _, c := range codes {
		if subtle.ConstantTimeCompare([]byte(c.CodeHash), []byte(inputHash)) == 1 {
			if err := s.mfaRepo.MarkBackupCodeUsed(ctx, c.ID); err != nil {
				return fmt.Errorf("failed to mark backup code as used: %w", err)
			}
			s.log.Info().Str("user_id", userID).Msg("backup code used")
			return nil
		}
	}

	return ErrMFAInvalidCode
}

// GetMFAStatus returns the user's MFA configuration
func (s *MFAService) GetMFAStatus(ctx context.Context, userID string) (*model.MFAStatusResponse, error) {
	methods, err := s.mfaRepo.GetMethodsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get MFA methods: %w", err)
	}

	backupCount, err := s.mfaRepo.CountUnusedBackupCodes(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count backup codes")
	}

	resp := &model.MFAStatusResponse{
		MFAEnabled:           len(methods) > 0,
		EnrolledMethods:      make([]model.MFAMethodType, 0, len(methods)),
		BackupCodesRemaining: backupCount,
	}
	for _, m := range methods {
		resp.EnrolledMethods = append(resp.EnrolledMethods, m.Method)
	}
	return resp, nil
}

// DisableMFAMethod removes an MFA method. When the last method goes, backup
// codes go with it.
func (s *MFAService) DisableMFAMethod(ctx context.Context, userID string, method model.MFAMethodType) error {
	if err := s.mfaRepo.DeleteMethod(ctx, userID, method); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMFANotEnrolled
		}
		return fmt.Errorf("failed to delete MFA method: %w", err)
	}

	hasMFA, err := s.mfaRepo.HasAnyMethod(ctx, userID)
	if err == nil && !hasMFA {
		s.mfaRepo.DeleteAllBackupCodes(ctx, userID)
	}

	s.log.Info().Str("user_id", userID).Str("method", string(method)).Msg("MFA method disabled")
	return nil
}

// HasMFA checks if a user has any MFA method enrolled
func (s *MFAService) HasMFA(ctx context.Context, userID string) (bool, error) {
	return s.mfaRepo.HasAnyMethod(ctx, userID)
}

func generateBackupCode() string {
	const charset = "0123456789abcdefghjkmnpqrstuvwxyz" // no i, l, o to avoid confusion
	b := make([]byte, backupCodeLength)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random bytes for backup code")
	}
	code := make([]byte, backupCodeLength)
	for i := range code {
		code[i] = charset[int(b[i])%len(charset)]
	}
	// xxxx-xxxx
	return string(code[:4]) + "-" + string(code[4:])
}

// hashBackupCode normalizes (case, dashes, whitespace) then hashes, so codes
// verify however the user types them back.
func hashBackupCode(code string) string {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(code), "-", ""))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
