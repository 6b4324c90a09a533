// internals/features/school/schools/controller/school_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"edumet_backend/internals/features/school/schools/dto"
	"edumet_backend/internals/features/school/schools/model"
	helper "edumet_backend/internals/helpers"
)

type SchoolController struct {
	DB *gorm.DB
}

func NewSchoolController(db *gorm.DB) *SchoolController {
	return &SchoolController{DB: db}
}

// POST /api/schools
func (sc *SchoolController) CreateSchool(c *fiber.Ctx) error {
	var req dto.CreateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	school := req.ToModel()
	if err := sc.DB.Create(school).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusBadRequest, "A school with this registration number already exists")
		}
		log.Println("[ERROR] Failed to create school:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create school")
	}
	log.Printf("[INFO] School registered: %s (%s)", school.SchoolName, school.SchoolRegistrationNumber)
	return helper.JsonCreated(c, "School registered successfully", school)
}

// GET /api/schools
func (sc *SchoolController) GetAllSchools(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)
	var total int64
	if err := sc.DB.Model(&model.SchoolModel{}).Count(&total).Error; err != nil {
		log.Println("[ERROR] Failed to count schools:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve schools")
	}
	var schools []model.SchoolModel
	if err := sc.DB.Order("school_name").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&schools).Error; err != nil {
		log.Println("[ERROR] Failed to fetch schools:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve schools")
	}
	return helper.JsonList(c, "Schools fetched successfully", schools,
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GET /api/schools/names — public, feeds the login/school pickers.
func (sc *SchoolController) GetSchoolNames(c *fiber.Ctx) error {
	var schools []model.SchoolModel
	if err := sc.DB.Select("school_id", "school_name").Order("school_name").Find(&schools).Error; err != nil {
		log.Println("[ERROR] Failed to fetch school names:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve schools")
	}
	out := make([]dto.SchoolNameResponse, 0, len(schools))
	for _, s := range schools {
		out = append(out, dto.SchoolNameResponse{ID: s.SchoolID.String(), Name: s.SchoolName})
	}
	return helper.JsonOK(c, "Schools fetched successfully", out)
}

// GET /api/schools/:id
func (sc *SchoolController) GetSchool(c *fiber.Ctx) error {
	school, err := sc.findByParam(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "School fetched successfully", school)
}

// PUT /api/schools/:id
func (sc *SchoolController) UpdateSchool(c *fiber.Ctx) error {
	school, err := sc.findByParam(c)
	if err != nil {
		return err
	}

	var req dto.UpdateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	req.ApplyToModel(school)
	if err := sc.DB.Save(school).Error; err != nil {
		log.Println("[ERROR] Failed to update school:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update school")
	}
	return helper.JsonUpdated(c, "School updated successfully", school)
}

// DELETE /api/schools/:id
func (sc *SchoolController) DeleteSchool(c *fiber.Ctx) error {
	school, err := sc.findByParam(c)
	if err != nil {
		return err
	}
	if err := sc.DB.Delete(school).Error; err != nil {
		log.Println("[ERROR] Failed to delete school:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete school")
	}
	return helper.JsonDeleted(c, "School deleted successfully", fiber.Map{"id": school.SchoolID})
}

func (sc *SchoolController) findByParam(c *fiber.Ctx) (*model.SchoolModel, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}
	var school model.SchoolModel
	if err := sc.DB.Where("school_id = ?", id).First(&school).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, "School not found")
		}
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve school")
	}
	return &school, nil
}
