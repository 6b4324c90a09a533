// internals/features/users/auth/dto/auth_request_dto.go
package dto

/* ===================== REQUESTS ===================== */

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type VerifyOTPRequest struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
	OTP    string `json:"otp"     validate:"required,len=6,numeric"`
}

type ResendOTPRequest struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UpdatePasswordRequest struct {
	OldPassword     string `json:"old_password"     validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

/* ===================== RESPONSES ===================== */

// LoginResponse is the MFA fork: when OTP is required the tokens are
// withheld until verification.
type LoginResponse struct {
	OTPRequired  bool   `json:"otp_required"`
	UserID       string `json:"user_id"`
	Role         string `json:"role,omitempty"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type TokenResponse struct {
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
