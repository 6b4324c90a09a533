// internals/features/school/classes/route/class_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"edumet_backend/internals/constants"
	"edumet_backend/internals/features/school/classes/controller"
	authMiddleware "edumet_backend/internals/middlewares/auth"
)

func ClassRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewClassController(db)

	classes := api.Group("/classes", authMiddleware.AuthMiddleware())
	classes.Post("/",
		authMiddleware.RequireRoles(constants.RoleAdmin, constants.RolePrincipal),
		ctrl.CreateClass)
	classes.Get("/assigned", ctrl.GetAssignedClass)
	classes.Put("/assigned", ctrl.UpdateAssignedClass)
	classes.Get("/:class_number", ctrl.GetClassDetails)
}
