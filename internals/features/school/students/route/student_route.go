// internals/features/school/students/route/student_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"edumet_backend/internals/features/school/students/controller"
	authMiddleware "edumet_backend/internals/middlewares/auth"
)

func StudentRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewStudentController(db)

	students := api.Group("/students", authMiddleware.AuthMiddleware())
	students.Get("/", ctrl.GetAllStudents)
	students.Post("/", ctrl.AddStudent)
	students.Get("/export", ctrl.ExportStudents)
	students.Post("/import", ctrl.ImportStudents)
	students.Get("/class/:class_number", ctrl.GetClassStudents)
	students.Get("/:id", ctrl.GetStudent)
	students.Put("/:id", ctrl.UpdateStudent)
	students.Delete("/:id", ctrl.DeleteStudent)
}
