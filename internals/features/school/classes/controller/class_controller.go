// internals/features/school/classes/controller/class_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceService "edumet_backend/internals/features/school/attendance/service"
	"edumet_backend/internals/features/school/classes/dto"
	"edumet_backend/internals/features/school/classes/model"
	teacherModel "edumet_backend/internals/features/school/teachers/model"
	helper "edumet_backend/internals/helpers"
)

type ClassController struct {
	DB         *gorm.DB
	Attendance *attendanceService.AttendanceService
}

func NewClassController(db *gorm.DB) *ClassController {
	return &ClassController{DB: db, Attendance: attendanceService.NewAttendanceService(db)}
}

// POST /api/classes
func (cc *ClassController) CreateClass(c *fiber.Ctx) error {
	var req dto.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	class, err := req.ToModel()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid start_date, expected YYYY-MM-DD")
	}
	if err := cc.DB.Create(class).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusBadRequest, "This class already exists for the school")
		}
		log.Println("[ERROR] Failed to create class:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create class")
	}
	return helper.JsonCreated(c, "Class created successfully", class)
}

// GET /api/classes/assigned — the calling class teacher's own class,
// with the working-day total refreshed from the calendar.
func (cc *ClassController) GetAssignedClass(c *fiber.Ctx) error {
	teacher, err := cc.callerClassTeacher(c)
	if err != nil {
		return err
	}
	class, err := cc.findClass(c, teacher.TeacherSchoolID, teacher.TeacherClassAssigned)
	if err != nil {
		return err
	}
	if err := cc.Attendance.RefreshWorkingDays(c.Context(), class); err != nil {
		log.Println("[WARN] Working-day refresh failed:", err)
	}
	return helper.JsonOK(c, "Class details fetched successfully", class)
}

// PUT /api/classes/assigned
func (cc *ClassController) UpdateAssignedClass(c *fiber.Ctx) error {
	teacher, err := cc.callerClassTeacher(c)
	if err != nil {
		return err
	}
	class, err := cc.findClass(c, teacher.TeacherSchoolID, teacher.TeacherClassAssigned)
	if err != nil {
		return err
	}

	var req dto.UpdateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}
	if err := req.ApplyToModel(class); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid start_date, expected YYYY-MM-DD")
	}

	if err := cc.DB.Save(class).Error; err != nil {
		log.Println("[ERROR] Failed to update class:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update class")
	}
	return helper.JsonUpdated(c, "Class Details updated successfully", class)
}

// GET /api/classes/:class_number — any staff member, scoped to their
// own school.
func (cc *ClassController) GetClassDetails(c *fiber.Ctx) error {
	teacher, err := cc.callerProfile(c)
	if err != nil {
		return err
	}
	class, err := cc.findClass(c, teacher.TeacherSchoolID, c.Params("class_number"))
	if err != nil {
		return err
	}
	if err := cc.Attendance.RefreshWorkingDays(c.Context(), class); err != nil {
		log.Println("[WARN] Working-day refresh failed:", err)
	}
	return helper.JsonOK(c, "Class details fetched successfully", class)
}

/* ===================== INTERNAL ===================== */

func (cc *ClassController) callerProfile(c *fiber.Ctx) (*teacherModel.TeacherModel, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return nil, err
	}
	var teacher teacherModel.TeacherModel
	if err := cc.DB.Where("teacher_user_id = ?", userID).First(&teacher).Error; err != nil {
		return nil, helper.JsonError(c, fiber.StatusForbidden, "No staff profile for this account")
	}
	return &teacher, nil
}

func (cc *ClassController) callerClassTeacher(c *fiber.Ctx) (*teacherModel.TeacherModel, error) {
	teacher, err := cc.callerProfile(c)
	if err != nil {
		return nil, err
	}
	if !teacher.IsClassTeacher() {
		return nil, helper.JsonError(c, fiber.StatusForbidden, "You are not a class teacher")
	}
	if teacher.TeacherClassAssigned == "" {
		return nil, helper.JsonError(c, fiber.StatusNotFound, "No class assigned to this teacher")
	}
	return teacher, nil
}

func (cc *ClassController) findClass(c *fiber.Ctx, schoolID, classNumber string) (*model.ClassModel, error) {
	var class model.ClassModel
	err := cc.DB.Where("class_school_id = ? AND class_number = ?", schoolID, classNumber).First(&class).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.JsonError(c, fiber.StatusNotFound, "Class not found")
	}
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve class")
	}
	return &class, nil
}
