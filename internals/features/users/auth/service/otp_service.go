// internals/features/users/auth/service/otp_service.go
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"edumet_backend/internals/configs"
	authModel "edumet_backend/internals/features/users/auth/model"
)

var (
	ErrOTPNotFound = errors.New("no otp issued for this user")
	ErrOTPExpired  = errors.New("otp expired")
	ErrOTPMismatch = errors.New("incorrect otp")
)

const otpTTL = 10 * time.Minute

// OTPService issues and verifies the 6-digit login codes. Codes are
// stored fernet-encrypted; at most one active code per user, replaced
// on resend and deleted on successful verification.
type OTPService struct {
	DB *gorm.DB
}

func NewOTPService(db *gorm.DB) *OTPService {
	return &OTPService{DB: db}
}

// Issue generates a fresh code for the user, upserting the single
// per-user row, and returns the plaintext code for delivery.
func (s *OTPService) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	code, err := generateOTP()
	if err != nil {
		return "", err
	}
	encrypted, err := encryptOTP(code)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	var row authModel.EmailOTPModel
	err = s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = authModel.EmailOTPModel{
			UserID:       userID,
			OTPEncrypted: encrypted,
			ExpiresAt:    now.Add(otpTTL),
		}
		if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
			return "", err
		}
	case err != nil:
		return "", err
	default:
		row.OTPEncrypted = encrypted
		row.ExpiresAt = now.Add(otpTTL)
		if err := s.DB.WithContext(ctx).Save(&row).Error; err != nil {
			return "", err
		}
	}
	return code, nil
}

// Verify checks the submitted code and deletes the row on success so a
// code can never be replayed.
func (s *OTPService) Verify(ctx context.Context, userID uuid.UUID, submitted string) error {
	var row authModel.EmailOTPModel
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOTPNotFound
	}
	if err != nil {
		return err
	}

	if time.Now().UTC().After(row.ExpiresAt) {
		_ = s.DB.WithContext(ctx).Delete(&row).Error
		return ErrOTPExpired
	}

	stored, err := decryptOTP(row.OTPEncrypted)
	if err != nil {
		return err
	}
	if stored != submitted {
		return ErrOTPMismatch
	}

	return s.DB.WithContext(ctx).Delete(&row).Error
}

/* ===================== CRYPTO ===================== */

func otpKey() (*fernet.Key, error) {
	key, err := fernet.DecodeKey(configs.OTPKey)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP_FERNET_KEY: %w", err)
	}
	return key, nil
}

func encryptOTP(code string) (string, error) {
	key, err := otpKey()
	if err != nil {
		return "", err
	}
	tok, err := fernet.EncryptAndSign([]byte(code), key)
	if err != nil {
		return "", err
	}
	return string(tok), nil
}

func decryptOTP(token string) (string, error) {
	key, err := otpKey()
	if err != nil {
		return "", err
	}
	msg := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{key})
	if msg == nil {
		return "", errors.New("otp token failed verification")
	}
	return string(msg), nil
}

// generateOTP draws a uniform 6-digit code from crypto/rand.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
