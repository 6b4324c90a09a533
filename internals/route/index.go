// internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceRoute "edumet_backend/internals/features/school/attendance/route"
	classRoute "edumet_backend/internals/features/school/classes/route"
	predictionRoute "edumet_backend/internals/features/school/predictions/route"
	schoolRoute "edumet_backend/internals/features/school/schools/route"
	studentRoute "edumet_backend/internals/features/school/students/route"
	teacherRoute "edumet_backend/internals/features/school/teachers/route"
	authRoute "edumet_backend/internals/features/users/auth/route"
)

var startTime time.Time

// SetupRoutes mounts every feature group under /api.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()
	api := app.Group("/api")

	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(api, db)

	log.Println("[INFO] Setting up SchoolRoutes...")
	schoolRoute.SchoolRoutes(api, db)

	log.Println("[INFO] Setting up TeacherRoutes...")
	teacherRoute.TeacherRoutes(api, db)

	log.Println("[INFO] Setting up ClassRoutes...")
	classRoute.ClassRoutes(api, db)

	log.Println("[INFO] Setting up AttendanceRoutes...")
	attendanceRoute.AttendanceRoutes(api, db)

	log.Println("[INFO] Setting up StudentRoutes...")
	studentRoute.StudentRoutes(api, db)

	log.Println("[INFO] Setting up PredictionRoutes...")
	predictionRoute.PredictionRoutes(api, db)

	api.Get("/uptime", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"uptime": time.Since(startTime).String()})
	})
}
