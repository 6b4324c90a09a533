// internals/features/school/predictions/route/prediction_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"edumet_backend/internals/features/school/predictions/controller"
	authMiddleware "edumet_backend/internals/middlewares/auth"
)

func PredictionRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPredictionController(db)

	predict := api.Group("/predict", authMiddleware.AuthMiddleware())
	predict.Get("/", ctrl.PredictFinalGrade)
	predict.Post("/bulk", ctrl.PredictBulkFinalGrades)
	predict.Post("/reset", ctrl.ResetFinalGrades)
	predict.Post("/adhoc", ctrl.PredictAdhoc)
}
