// internals/features/school/attendance/controller/attendance_controller.go
package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"edumet_backend/internals/features/school/attendance/dto"
	attendanceModel "edumet_backend/internals/features/school/attendance/model"
	"edumet_backend/internals/features/school/attendance/service"
	classModel "edumet_backend/internals/features/school/classes/model"
	studentModel "edumet_backend/internals/features/school/students/model"
	helper "edumet_backend/internals/helpers"
	"edumet_backend/internals/services/mailer"
)

type AttendanceController struct {
	DB      *gorm.DB
	Service *service.AttendanceService
}

func NewAttendanceController(db *gorm.DB) *AttendanceController {
	return &AttendanceController{DB: db, Service: service.NewAttendanceService(db)}
}

// POST /api/attendance — merge students into a day's record.
func (ac *AttendanceController) AddAttendance(c *fiber.Ctx) error {
	var req dto.AddAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}
	date, err := time.Parse(attendanceModel.DateLayout, req.Date)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
	}

	att, created, err := ac.Service.AddAttendance(c.Context(), req.SchoolID, req.ClassNumber, date, dto.ToStatusUpdates(req.Students))
	if err != nil {
		return ac.mapServiceError(c, err, "Failed to save attendance")
	}
	if created {
		return helper.JsonCreated(c, "Attendance saved successfully", att)
	}
	return helper.JsonOK(c, "Attendance saved successfully", att)
}

// PUT /api/attendance — mark statuses and reconcile the aggregates.
func (ac *AttendanceController) UpdateAttendance(c *fiber.Ctx) error {
	var req dto.UpdateAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}
	date, err := time.Parse(attendanceModel.DateLayout, req.Date)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
	}

	att, err := ac.Service.MarkAttendance(c.Context(), req.SchoolID, req.ClassNumber, date, dto.ToStatusUpdates(req.Students))
	if err != nil {
		return ac.mapServiceError(c, err, "Failed to update attendance")
	}
	return helper.JsonUpdated(c, "Attendance updated successfully", att)
}

// GET /api/attendance?school_id=&class_number=&date=
// Missing day rows and missing roster entries are created on the way
// out, so the client always sees the full class.
func (ac *AttendanceController) GetAttendance(c *fiber.Ctx) error {
	schoolID := c.Query("school_id")
	classNumber := c.Query("class_number")
	rawDate := c.Query("date")
	if schoolID == "" || classNumber == "" || rawDate == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "school_id, class_number and date are required")
	}
	date, err := time.Parse(attendanceModel.DateLayout, rawDate)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
	}

	att, _, err := ac.Service.FetchAttendance(c.Context(), schoolID, classNumber, date)
	if err != nil {
		return ac.mapServiceError(c, err, "Failed to retrieve attendance")
	}
	return helper.JsonOK(c, "Attendance fetched successfully", att)
}

// POST /api/attendance/alert — low attendance notice to the student's
// registered email. The caller supplies the numbers it showed the
// teacher; the working-day total comes from the class row.
func (ac *AttendanceController) SendAttendanceAlert(c *fiber.Ctx) error {
	var req dto.AttendanceAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	var student studentModel.StudentModel
	err := ac.DB.Where("student_id = ?", req.StudentID).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve student")
	}

	totalWorkingDays := 0
	var class classModel.ClassModel
	if err := ac.DB.Where("class_school_id = ? AND class_number = ?", student.StudentSchoolID, student.StudentClassAssigned).
		First(&class).Error; err == nil {
		totalWorkingDays = class.ClassTotalWorkingDays
	}

	if err := mailer.SendSync("Low Attendance Alert from EduMet", mailer.TemplateLowAttendance, mailer.Context{
		"name":               student.StudentFullName,
		"student_id":         student.StudentID,
		"present_count":      *req.PresentCount,
		"total_working_days": totalWorkingDays,
		"percentage":         *req.Percentage,
		"current_year":       time.Now().Year(),
	}, student.StudentEmail); err != nil {
		log.Println("[ERROR] Low attendance alert failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to send alert")
	}
	return helper.JsonOK(c, "Low attendance alert sent to "+student.StudentEmail, nil)
}

func (ac *AttendanceController) mapServiceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrClassNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Class not found")
	case errors.Is(err, service.ErrSchoolNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "School not found")
	case errors.Is(err, service.ErrFutureDate):
		return helper.JsonError(c, fiber.StatusBadRequest, "Cannot add attendance for future dates")
	case errors.Is(err, service.ErrBeforeClassStart):
		return helper.JsonError(c, fiber.StatusBadRequest, "Attendance can only be added from class start date onwards")
	case errors.Is(err, service.ErrMissingStatus):
		return helper.JsonError(c, fiber.StatusBadRequest, "student_id and status are required for each student")
	case errors.Is(err, service.ErrInvalidStatus):
		return helper.JsonError(c, fiber.StatusBadRequest, "Status must be one of present, absent, not_marked")
	case errors.Is(err, service.ErrMarkConflict):
		return helper.JsonError(c, fiber.StatusInternalServerError, "Attendance update conflicted repeatedly, please try again")
	default:
		log.Println("[ERROR]", fallback+":", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
	}
}
