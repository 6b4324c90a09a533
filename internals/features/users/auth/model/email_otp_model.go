// internals/features/users/auth/model/email_otp_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmailOTPModel holds the encrypted one-time login code, one row per
// user, upserted on every (re)issue. A row is deleted on first
// successful verification.
type EmailOTPModel struct {
	OTPID        uuid.UUID `json:"otp_id"        gorm:"column:otp_id;type:uuid;primaryKey"`
	UserID       uuid.UUID `json:"user_id"       gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	OTPEncrypted string    `json:"-"             gorm:"column:otp_encrypted;type:text;not null"`
	ExpiresAt    time.Time `json:"expires_at"    gorm:"column:expires_at;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (EmailOTPModel) TableName() string {
	return "email_otps"
}

func (m *EmailOTPModel) BeforeCreate(tx *gorm.DB) error {
	if m.OTPID == uuid.Nil {
		m.OTPID = uuid.New()
	}
	return nil
}
