// internals/features/users/auth/controller/auth_controller.go
package controller

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"edumet_backend/internals/constants"
	teacherModel "edumet_backend/internals/features/school/teachers/model"
	"edumet_backend/internals/features/users/auth/dto"
	authModel "edumet_backend/internals/features/users/auth/model"
	authService "edumet_backend/internals/features/users/auth/service"
	helper "edumet_backend/internals/helpers"
	"edumet_backend/internals/services/mailer"
)

type AuthController struct {
	DB  *gorm.DB
	OTP *authService.OTPService
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db, OTP: authService.NewOTPService(db)}
}

/* ===================== LOGIN ===================== */

// POST /api/auth/login
// Password check first; accounts with MFA enabled get an emailed OTP
// instead of tokens.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	var user authModel.UserModel
	err := ac.DB.Where("user_name = ?", strings.ToLower(req.Username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid username or password")
	}
	if err != nil {
		log.Println("[ERROR] Login lookup failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Login failed")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Account is inactive")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid username or password")
	}

	role, teacherID, mfaEnabled, err := ac.resolveProfile(&user)
	if err != nil {
		log.Println("[ERROR] Login profile lookup failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Login failed")
	}

	if mfaEnabled {
		if err := ac.sendOTP(&user); err != nil {
			log.Println("[ERROR] OTP issue failed:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to send OTP")
		}
		return helper.JsonOK(c, "OTP sent to registered email", dto.LoginResponse{
			OTPRequired: true,
			UserID:      user.UserID.String(),
		})
	}

	pair, err := authService.IssueTokenPair(user.UserID, role, teacherID)
	if err != nil {
		log.Println("[ERROR] Token signing failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Login failed")
	}
	log.Printf("[INFO] Login success user=%s role=%s", user.UserName, role)
	return helper.JsonOK(c, "Login successful", dto.LoginResponse{
		OTPRequired:  false,
		UserID:       user.UserID.String(),
		Role:         role,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

/* ===================== OTP ===================== */

// POST /api/auth/verify-otp
func (ac *AuthController) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user_id")
	}

	if err := ac.OTP.Verify(c.Context(), userID, req.OTP); err != nil {
		switch {
		case errors.Is(err, authService.ErrOTPNotFound):
			return helper.JsonError(c, fiber.StatusBadRequest, "No OTP requested for this user")
		case errors.Is(err, authService.ErrOTPExpired):
			return helper.JsonError(c, fiber.StatusBadRequest, "OTP has expired, please request a new one")
		case errors.Is(err, authService.ErrOTPMismatch):
			return helper.JsonError(c, fiber.StatusUnauthorized, "Incorrect OTP")
		default:
			log.Println("[ERROR] OTP verify failed:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "OTP verification failed")
		}
	}

	var user authModel.UserModel
	if err := ac.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}
	role, teacherID, _, err := ac.resolveProfile(&user)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Login failed")
	}
	pair, err := authService.IssueTokenPair(user.UserID, role, teacherID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Login failed")
	}
	return helper.JsonOK(c, "OTP verified", dto.TokenResponse{
		UserID:       user.UserID.String(),
		Role:         role,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// POST /api/auth/resend-otp
func (ac *AuthController) ResendOTP(c *fiber.Ctx) error {
	var req dto.ResendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user_id")
	}
	var user authModel.UserModel
	if err := ac.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}
	_, _, mfaEnabled, err := ac.resolveProfile(&user)
	if err != nil {
		log.Println("[ERROR] OTP resend profile lookup failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to send OTP")
	}
	if !mfaEnabled {
		return helper.JsonError(c, fiber.StatusBadRequest, "OTP is not enabled for this account")
	}
	if err := ac.sendOTP(&user); err != nil {
		log.Println("[ERROR] OTP resend failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to send OTP")
	}
	return helper.JsonOK(c, "OTP resent to registered email", fiber.Map{
		"user_id": user.UserID.String(),
	})
}

/* ===================== TOKENS ===================== */

// POST /api/auth/refresh-token
func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	userID, err := authService.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid or expired refresh token")
	}

	var user authModel.UserModel
	if err := ac.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid or expired refresh token")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Account is inactive")
	}
	role, teacherID, _, err := ac.resolveProfile(&user)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Token refresh failed")
	}
	pair, err := authService.IssueTokenPair(user.UserID, role, teacherID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Token refresh failed")
	}
	return helper.JsonOK(c, "Token refreshed", dto.TokenResponse{
		UserID:       user.UserID.String(),
		Role:         role,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// GET /api/auth/validate-token — behind the auth middleware; reaching
// here means the token is good.
func (ac *AuthController) ValidateToken(c *fiber.Ctx) error {
	return helper.JsonOK(c, "Token is valid", fiber.Map{
		"user_id": c.Locals(helper.LocUserID),
		"role":    c.Locals(helper.LocRole),
	})
}

/* ===================== PASSWORD ===================== */

// PUT /api/auth/update-password
func (ac *AuthController) UpdatePassword(c *fiber.Ctx) error {
	var req dto.UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var user authModel.UserModel
	if err := ac.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)) != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Old password is incorrect")
	}
	if req.NewPassword != req.ConfirmPassword {
		return helper.JsonError(c, fiber.StatusBadRequest, "New password and confirmation do not match")
	}
	if req.NewPassword == req.OldPassword {
		return helper.JsonError(c, fiber.StatusBadRequest, "New password must differ from the old password")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update password")
	}
	if err := ac.DB.Model(&user).Update("password", string(hashed)).Error; err != nil {
		log.Println("[ERROR] Password update failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update password")
	}
	log.Printf("[INFO] Password updated user=%s", user.UserName)
	return helper.JsonUpdated(c, "Password updated successfully", nil)
}

/* ===================== INTERNAL ===================== */

// resolveProfile maps a user row to (role, teacher_id, mfa). Superusers
// without a staff profile act as admins.
func (ac *AuthController) resolveProfile(user *authModel.UserModel) (string, uuid.UUID, bool, error) {
	var teacher teacherModel.TeacherModel
	err := ac.DB.Where("teacher_user_id = ?", user.UserID).First(&teacher).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if user.IsSuperuser {
			return constants.RoleAdmin, uuid.Nil, false, nil
		}
		return "", uuid.Nil, false, errors.New("no staff profile for user")
	}
	if err != nil {
		return "", uuid.Nil, false, err
	}
	return teacher.TeacherType, teacher.TeacherID, teacher.TeacherMFAEnabled, nil
}

func (ac *AuthController) sendOTP(user *authModel.UserModel) error {
	code, err := ac.OTP.Issue(context.Background(), user.UserID)
	if err != nil {
		return err
	}
	mailer.SendBackground("Your EduMet login code", mailer.TemplateOTP, mailer.Context{
		"name": user.UserName,
		"otp":  code,
	}, user.Email)
	return nil
}
