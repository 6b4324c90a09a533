// internals/features/school/teachers/controller/teacher_controller.go
package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"edumet_backend/internals/constants"
	classModel "edumet_backend/internals/features/school/classes/model"
	"edumet_backend/internals/features/school/teachers/dto"
	"edumet_backend/internals/features/school/teachers/model"
	"edumet_backend/internals/features/school/teachers/service"
	helper "edumet_backend/internals/helpers"
)

// TeacherController serves one staff variant; the principal and
// class-teacher route groups each mount their own instance.
type TeacherController struct {
	DB        *gorm.DB
	Provision *service.ProvisionService
	Type      string // constants.RolePrincipal or RoleClassTeacher
	Label     string // used in messages, e.g. "Principal"
}

func NewPrincipalController(db *gorm.DB) *TeacherController {
	return &TeacherController{
		DB:        db,
		Provision: service.NewProvisionService(db),
		Type:      constants.RolePrincipal,
		Label:     "Principal",
	}
}

func NewClassTeacherController(db *gorm.DB) *TeacherController {
	return &TeacherController{
		DB:        db,
		Provision: service.NewProvisionService(db),
		Type:      constants.RoleClassTeacher,
		Label:     "Class Teacher",
	}
}

// GET /
func (tc *TeacherController) List(c *fiber.Ctx) error {
	q := tc.DB.Model(&model.TeacherModel{}).Where("teacher_type = ?", tc.Type)
	if schoolID := c.Query("school_id"); schoolID != "" {
		q = q.Where("teacher_school_id = ?", schoolID)
	}

	paging := helper.ResolvePaging(c, 20, 100)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] Failed to count %ss: %v", tc.Label, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve "+tc.Label+"s")
	}
	var teachers []model.TeacherModel
	if err := q.Order("teacher_name").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&teachers).Error; err != nil {
		log.Printf("[ERROR] Failed to list %ss: %v", tc.Label, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve "+tc.Label+"s")
	}
	return helper.JsonList(c, tc.Label+"s fetched successfully", teachers,
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// POST /
func (tc *TeacherController) Create(c *fiber.Ctx) error {
	var req dto.CreateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	base, err := req.ToModel()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date_of_birth, expected YYYY-MM-DD")
	}

	var teacher model.TeacherModel
	switch tc.Type {
	case constants.RoleClassTeacher:
		teacher, err = model.NewClassTeacher(base, req.ClassAssigned)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "class_assigned is required for a class teacher")
		}
		taken, err := tc.Provision.ClassAssignmentTaken(teacher.TeacherSchoolID, teacher.TeacherClassAssigned)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to add "+tc.Label)
		}
		if taken {
			return helper.JsonError(c, fiber.StatusBadRequest,
				"Class "+teacher.TeacherClassAssigned+" already has a class teacher")
		}
	default:
		teacher = model.NewPrincipal(base)
	}

	created, err := tc.Provision.CreateStaff(teacher)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return helper.JsonError(c, fiber.StatusBadRequest, "User with this email already exists")
		}
		log.Printf("[ERROR] Failed to provision %s: %v", tc.Label, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to add "+tc.Label)
	}

	if created.IsClassTeacher() {
		if err := tc.ensureClass(created); err != nil {
			log.Printf("[WARN] Class row for %s/%s not created: %v",
				created.TeacherSchoolID, created.TeacherClassAssigned, err)
		}
	}
	return helper.JsonCreated(c, tc.Label+" credentials sent to their mail address!", created)
}

// GET /:id
func (tc *TeacherController) Get(c *fiber.Ctx) error {
	teacher, err := tc.findByParam(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, tc.Label+" fetched successfully", teacher)
}

// PUT /:id
func (tc *TeacherController) Update(c *fiber.Ctx) error {
	teacher, err := tc.findByParam(c)
	if err != nil {
		return err
	}

	var req dto.UpdateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}
	if err := req.ApplyToModel(teacher); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date_of_birth, expected YYYY-MM-DD")
	}

	if err := tc.DB.Save(teacher).Error; err != nil {
		log.Printf("[ERROR] Failed to update %s: %v", tc.Label, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update "+tc.Label)
	}
	if err := tc.Provision.SyncLogin(teacher); err != nil {
		log.Printf("[WARN] Login sync failed for %s %s: %v", tc.Label, teacher.TeacherID, err)
	}
	return helper.JsonUpdated(c, tc.Label+" updated successfully!", teacher)
}

// DELETE /:id
func (tc *TeacherController) Delete(c *fiber.Ctx) error {
	teacher, err := tc.findByParam(c)
	if err != nil {
		return err
	}
	if err := tc.Provision.DeleteStaff(teacher); err != nil {
		log.Printf("[ERROR] Failed to delete %s: %v", tc.Label, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete "+tc.Label)
	}
	if teacher.IsClassTeacher() {
		if err := tc.DB.
			Where("class_school_id = ? AND class_number = ?", teacher.TeacherSchoolID, teacher.TeacherClassAssigned).
			Delete(&classModel.ClassModel{}).Error; err != nil {
			log.Printf("[WARN] Class row for %s/%s not removed: %v",
				teacher.TeacherSchoolID, teacher.TeacherClassAssigned, err)
		}
	}
	return helper.JsonDeleted(c, tc.Label+" deleted successfully", fiber.Map{"id": teacher.TeacherID})
}

// GET /me — profile behind the access token.
func (tc *TeacherController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var teacher model.TeacherModel
	if err := tc.DB.Where("teacher_user_id = ? AND teacher_type = ?", userID, tc.Type).First(&teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, tc.Label+" not found or you are not a "+tc.Label)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve profile")
	}
	return helper.JsonOK(c, tc.Label+" profile fetched successfully", teacher)
}

// ensureClass lazily creates the classes row a new class teacher is
// assigned to. Start date defaults to today; the principal can move it
// later through the class endpoints.
func (tc *TeacherController) ensureClass(teacher *model.TeacherModel) error {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return tc.DB.
		Where("class_school_id = ? AND class_number = ?", teacher.TeacherSchoolID, teacher.TeacherClassAssigned).
		Attrs(classModel.ClassModel{
			ClassSchoolID:  teacher.TeacherSchoolID,
			ClassNumber:    teacher.TeacherClassAssigned,
			ClassStartDate: today,
			ClassThreshold: 75,
		}).
		FirstOrCreate(&classModel.ClassModel{}).Error
}

func (tc *TeacherController) findByParam(c *fiber.Ctx) (*model.TeacherModel, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, "Invalid id")
	}
	var teacher model.TeacherModel
	if err := tc.DB.Where("teacher_id = ? AND teacher_type = ?", id, tc.Type).First(&teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, tc.Label+" not found")
		}
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve "+tc.Label)
	}
	return &teacher, nil
}
