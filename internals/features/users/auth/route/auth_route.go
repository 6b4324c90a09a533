// internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"edumet_backend/internals/features/users/auth/controller"
	"edumet_backend/internals/middlewares"
	authMiddleware "edumet_backend/internals/middlewares/auth"
)

// AuthRoutes mounts /api/auth. Login and the OTP endpoints are public
// behind the stricter login limiter; the rest require a valid token.
func AuthRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAuthController(db)

	auth := api.Group("/auth")
	auth.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	auth.Post("/verify-otp", middlewares.LoginRateLimiter(), ctrl.VerifyOTP)
	auth.Post("/resend-otp", middlewares.LoginRateLimiter(), ctrl.ResendOTP)
	auth.Post("/refresh-token", ctrl.RefreshToken)

	protected := auth.Group("", authMiddleware.AuthMiddleware())
	protected.Get("/validate-token", ctrl.ValidateToken)
	protected.Put("/update-password", ctrl.UpdatePassword)
}
