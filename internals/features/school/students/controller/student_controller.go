// internals/features/school/students/controller/student_controller.go
package controller

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	attendanceService "edumet_backend/internals/features/school/attendance/service"
	classModel "edumet_backend/internals/features/school/classes/model"
	"edumet_backend/internals/features/school/students/dto"
	"edumet_backend/internals/features/school/students/model"
	"edumet_backend/internals/features/school/students/service"
	teacherModel "edumet_backend/internals/features/school/teachers/model"
	helper "edumet_backend/internals/helpers"
)

type StudentController struct {
	DB         *gorm.DB
	CSV        *service.CSVService
	Attendance *attendanceService.AttendanceService
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{
		DB:         db,
		CSV:        service.NewCSVService(db),
		Attendance: attendanceService.NewAttendanceService(db),
	}
}

// GET /api/students — everyone in the caller's school.
func (sc *StudentController) GetAllStudents(c *fiber.Ctx) error {
	teacher, err := sc.callerProfile(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 20, 100)
	q := sc.DB.Model(&model.StudentModel{}).Where("student_school_id = ?", teacher.TeacherSchoolID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Println("[ERROR] Failed to count students:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve students")
	}
	var students []model.StudentModel
	if err := q.Order("student_full_name").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&students).Error; err != nil {
		log.Println("[ERROR] Failed to list students:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve students")
	}
	return helper.JsonList(c, "Students fetched successfully", students,
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GET /api/students/class/:class_number
func (sc *StudentController) GetClassStudents(c *fiber.Ctx) error {
	teacher, err := sc.callerProfile(c)
	if err != nil {
		return err
	}
	var students []model.StudentModel
	if err := sc.DB.
		Where("student_school_id = ? AND student_class_assigned = ?", teacher.TeacherSchoolID, c.Params("class_number")).
		Order("student_full_name").Find(&students).Error; err != nil {
		log.Println("[ERROR] Failed to list class students:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve students")
	}
	return helper.JsonOK(c, "Students fetched successfully", students)
}

// POST /api/students — the new student also lands on today's
// attendance list when the class has already started.
func (sc *StudentController) AddStudent(c *fiber.Ctx) error {
	teacher, err := sc.callerProfile(c)
	if err != nil {
		return err
	}

	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	student := req.ToModel(teacher.TeacherSchool, teacher.TeacherSchoolID)
	if err := sc.DB.Create(student).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusBadRequest, "A student with this student_id already exists")
		}
		log.Println("[ERROR] Failed to add student:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to add student")
	}

	var class classModel.ClassModel
	err = sc.DB.Where("class_school_id = ? AND class_number = ?", student.StudentSchoolID, student.StudentClassAssigned).
		First(&class).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, fmt.Sprintf("Class %s not found", student.StudentClassAssigned))
	}
	if err == nil && !attendanceService.Today().Before(attendanceService.Truncate(class.ClassStartDate)) {
		if err := sc.Attendance.AppendStudentToToday(c.Context(), student); err != nil {
			log.Println("[WARN] Could not append student to today's attendance:", err)
		}
	}
	return helper.JsonCreated(c, "Student added successfully.", student)
}

// GET /api/students/:id
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	student, err := sc.findByParam(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Student fetched successfully", student)
}

// PUT /api/students/:id
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	student, err := sc.findByParam(c)
	if err != nil {
		return err
	}

	var req dto.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	req.ApplyToModel(student)
	if err := sc.DB.Save(student).Error; err != nil {
		log.Println("[ERROR] Failed to update student:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update student")
	}
	return helper.JsonUpdated(c, "Student updated successfully.", student)
}

// DELETE /api/students/:id — the student's entries are pruned from
// every historical attendance day as well.
func (sc *StudentController) DeleteStudent(c *fiber.Ctx) error {
	student, err := sc.findByParam(c)
	if err != nil {
		return err
	}
	if err := sc.Attendance.PruneStudent(c.Context(), student.StudentID); err != nil {
		log.Println("[ERROR] Failed to prune attendance entries:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete student")
	}
	if err := sc.DB.Delete(student).Error; err != nil {
		log.Println("[ERROR] Failed to delete student:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete student")
	}
	return helper.JsonDeleted(c, "Student deleted successfully.", fiber.Map{"student_id": student.StudentID})
}

/* ===================== CSV ===================== */

// GET /api/students/export — the caller's own class as CSV.
func (sc *StudentController) ExportStudents(c *fiber.Ctx) error {
	teacher, err := sc.callerProfile(c)
	if err != nil {
		return err
	}

	var students []model.StudentModel
	if err := sc.DB.
		Where("student_school_id = ? AND student_class_assigned = ?", teacher.TeacherSchoolID, teacher.TeacherClassAssigned).
		Order("student_full_name").Find(&students).Error; err != nil {
		log.Println("[ERROR] Failed to export students:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to export students")
	}

	out, err := sc.CSV.Export(students)
	if err != nil {
		log.Println("[ERROR] CSV render failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to export students")
	}

	filename := fmt.Sprintf("students_export_%s_%s.csv", teacher.TeacherSchoolID, teacher.TeacherClassAssigned)
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Send(out)
}

// POST /api/students/import — multipart upload, field name "file".
func (sc *StudentController) ImportStudents(c *fiber.Ctx) error {
	teacher, err := sc.callerProfile(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "No file uploaded")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		return helper.JsonError(c, fiber.StatusBadRequest, "File must be a CSV")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Could not read uploaded file")
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(file); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Could not read uploaded file")
	}

	results, err := sc.CSV.Import(&buf, teacher.TeacherSchool, teacher.TeacherSchoolID, func(st *model.StudentModel) {
		var class classModel.ClassModel
		err := sc.DB.Where("class_school_id = ? AND class_number = ?", st.StudentSchoolID, st.StudentClassAssigned).
			First(&class).Error
		if err != nil {
			return
		}
		if attendanceService.Today().Before(attendanceService.Truncate(class.ClassStartDate)) {
			return
		}
		if err := sc.Attendance.AppendStudentToToday(c.Context(), st); err != nil {
			log.Println("[WARN] Could not append imported student to today's attendance:", err)
		}
	})
	if err != nil {
		log.Println("[ERROR] CSV import failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to import students")
	}

	log.Printf("[INFO] CSV import done: %d ok, %d failed", results.Success, results.Failed)
	return helper.JsonOK(c, "Import completed", results)
}

/* ===================== INTERNAL ===================== */

func (sc *StudentController) callerProfile(c *fiber.Ctx) (*teacherModel.TeacherModel, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return nil, err
	}
	var teacher teacherModel.TeacherModel
	if err := sc.DB.Where("teacher_user_id = ?", userID).First(&teacher).Error; err != nil {
		return nil, helper.JsonError(c, fiber.StatusNotFound, "Teacher not found")
	}
	return &teacher, nil
}

func (sc *StudentController) findByParam(c *fiber.Ctx) (*model.StudentModel, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, "Invalid student id")
	}
	var student model.StudentModel
	if err := sc.DB.Where("id = ?", id).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, "Student not found")
		}
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve student")
	}
	return &student, nil
}
