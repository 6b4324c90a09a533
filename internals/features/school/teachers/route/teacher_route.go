// internals/features/school/teachers/route/teacher_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"edumet_backend/internals/constants"
	"edumet_backend/internals/features/school/teachers/controller"
	authMiddleware "edumet_backend/internals/middlewares/auth"
)

// TeacherRoutes mounts /api/principals and /api/teachers. Principal
// management is admin/principal territory; class-teacher management is
// open to principals as well.
func TeacherRoutes(api fiber.Router, db *gorm.DB) {
	principals := api.Group("/principals", authMiddleware.AuthMiddleware())
	mount(principals, controller.NewPrincipalController(db),
		constants.RoleAdmin)

	teachers := api.Group("/teachers", authMiddleware.AuthMiddleware())
	mount(teachers, controller.NewClassTeacherController(db),
		constants.RoleAdmin, constants.RolePrincipal)
}

func mount(g fiber.Router, ctrl *controller.TeacherController, managerRoles ...string) {
	g.Get("/me", ctrl.Me)
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.Get)

	manage := authMiddleware.RequireRoles(managerRoles...)
	g.Post("/", manage, ctrl.Create)
	g.Put("/:id", manage, ctrl.Update)
	g.Delete("/:id", manage, ctrl.Delete)
}
