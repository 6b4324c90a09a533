// internals/features/users/auth/service/otp_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"edumet_backend/internals/configs"
	authModel "edumet_backend/internals/features/users/auth/model"
)

func setupOTPTest(t *testing.T) (*OTPService, uuid.UUID) {
	t.Helper()

	var key fernet.Key
	require.NoError(t, key.Generate())
	configs.OTPKey = key.Encode()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&authModel.UserModel{}, &authModel.EmailOTPModel{}))

	user := authModel.UserModel{
		UserName: "ashateacher",
		Email:    "asha@school.example",
		Password: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return NewOTPService(db), user.UserID
}

func TestOTPIssueAndVerify(t *testing.T) {
	svc, userID := setupOTPTest(t)
	ctx := context.Background()

	code, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	require.Len(t, code, 6)

	require.NoError(t, svc.Verify(ctx, userID, code))

	// Single use: the second attempt finds nothing.
	err = svc.Verify(ctx, userID, code)
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestOTPWrongCode(t *testing.T) {
	svc, userID := setupOTPTest(t)
	ctx := context.Background()

	code, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	assert.ErrorIs(t, svc.Verify(ctx, userID, wrong), ErrOTPMismatch)

	// The code survives a failed attempt.
	require.NoError(t, svc.Verify(ctx, userID, code))
}

func TestOTPReissueReplacesPreviousCode(t *testing.T) {
	svc, userID := setupOTPTest(t)
	ctx := context.Background()

	first, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	second, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	var rows int64
	require.NoError(t, svc.DB.Model(&authModel.EmailOTPModel{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	if first != second {
		assert.ErrorIs(t, svc.Verify(ctx, userID, first), ErrOTPMismatch)
	}
	require.NoError(t, svc.Verify(ctx, userID, second))
}

func TestOTPExpiry(t *testing.T) {
	svc, userID := setupOTPTest(t)
	ctx := context.Background()

	code, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, svc.DB.Model(&authModel.EmailOTPModel{}).
		Where("user_id = ?", userID).
		Update("expires_at", time.Now().UTC().Add(-time.Minute)).Error)

	assert.ErrorIs(t, svc.Verify(ctx, userID, code), ErrOTPExpired)

	// Expired rows are discarded, not kept around.
	var rows int64
	require.NoError(t, svc.DB.Model(&authModel.EmailOTPModel{}).Count(&rows).Error)
	assert.Equal(t, int64(0), rows)
}
