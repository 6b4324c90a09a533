// internals/features/school/schools/route/school_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"edumet_backend/internals/constants"
	"edumet_backend/internals/features/school/schools/controller"
	authMiddleware "edumet_backend/internals/middlewares/auth"
)

// SchoolRoutes mounts /api/schools. Registration and the name listing
// are public (onboarding happens before any login exists); everything
// else is staff-only.
func SchoolRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewSchoolController(db)

	schools := api.Group("/schools")
	schools.Post("/", ctrl.CreateSchool)
	schools.Get("/names", ctrl.GetSchoolNames)

	protected := schools.Group("", authMiddleware.AuthMiddleware())
	protected.Get("/", ctrl.GetAllSchools)
	protected.Get("/:id", ctrl.GetSchool)
	protected.Put("/:id",
		authMiddleware.RequireRoles(constants.RoleAdmin, constants.RolePrincipal),
		ctrl.UpdateSchool)
	protected.Delete("/:id",
		authMiddleware.RequireRoles(constants.RoleAdmin),
		ctrl.DeleteSchool)
}
