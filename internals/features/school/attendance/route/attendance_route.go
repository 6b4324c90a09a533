// internals/features/school/attendance/route/attendance_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"edumet_backend/internals/features/school/attendance/controller"
	authMiddleware "edumet_backend/internals/middlewares/auth"
)

func AttendanceRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAttendanceController(db)

	attendance := api.Group("/attendance", authMiddleware.AuthMiddleware())
	attendance.Post("/", ctrl.AddAttendance)
	attendance.Put("/", ctrl.UpdateAttendance)
	attendance.Get("/", ctrl.GetAttendance)
	attendance.Post("/alert", ctrl.SendAttendanceAlert)
}
