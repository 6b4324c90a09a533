// internals/features/school/predictions/controller/prediction_controller.go
package controller

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	studentModel "edumet_backend/internals/features/school/students/model"
	teacherModel "edumet_backend/internals/features/school/teachers/model"
	helper "edumet_backend/internals/helpers"
	"edumet_backend/internals/services/predictor"
)

type PredictionController struct {
	DB        *gorm.DB
	Predictor *predictor.Client
}

func NewPredictionController(db *gorm.DB) *PredictionController {
	return &PredictionController{DB: db, Predictor: predictor.NewClient()}
}

// GET /api/predict?student_id= — score one student from their stored
// features and persist the result.
func (pc *PredictionController) PredictFinalGrade(c *fiber.Ctx) error {
	studentID := c.Query("student_id")
	if studentID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "student_id is required.")
	}

	var student studentModel.StudentModel
	err := pc.DB.Where("student_id = ?", studentID).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found.")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve student")
	}

	grade, err := pc.Predictor.PredictSingle(c.Context(), predictor.FromStudent(&student))
	if err != nil {
		log.Println("[ERROR] Single prediction failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Prediction failed.")
	}

	student.FinalGrade = grade
	if err := pc.DB.Model(&student).Update("final_grade", grade).Error; err != nil {
		log.Println("[ERROR] Failed to persist prediction:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Prediction failed.")
	}
	return helper.JsonOK(c, "Final grade predicted successfully", student)
}

// POST /api/predict/bulk?school_id= — multipart CSV of feature rows.
// Predictions are written back to students matched by student_id
// within the given school; rows without a match are skipped.
func (pc *PredictionController) PredictBulkFinalGrades(c *fiber.Ctx) error {
	schoolID := c.Query("school_id")
	if schoolID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "school_id is required.")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "No file uploaded.")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Could not read uploaded file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid CSV file format.")
	}
	if len(records) < 2 {
		return helper.JsonError(c, fiber.StatusBadRequest, "The CSV file is empty.")
	}

	col := map[string]int{}
	for i, name := range records[0] {
		col[strings.TrimSpace(name)] = i
	}

	studentIDs := make([]string, 0, len(records)-1)
	rows := make([]predictor.Features, 0, len(records)-1)
	for _, record := range records[1:] {
		get := func(name string) string {
			if i, ok := col[name]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}
		studentIDs = append(studentIDs, get("student_id"))
		rows = append(rows, predictor.Features{
			AttendancePercentage: parseFloat(get("attendance_percentage")),
			ParentalEducation:    parseInt(get("parental_education")),
			StudyHoursPerWeek:    parseInt(get("study_hours")),
			Failures:             parseInt(get("failures")),
			ExtraCurricular:      parseInt(get("extracurricular")),
			ParticipationScore:   parseInt(get("participation")),
			TeacherRating:        parseInt(get("rating")),
			DisciplineIssues:     parseInt(get("discipline")),
			LateSubmissions:      parseInt(get("late_submissions")),
			PreviousGrade1:       parseFloat(get("prev_grade1")),
			PreviousGrade2:       parseFloat(get("prev_grade2")),
		})
	}

	grades, err := pc.Predictor.PredictBulk(c.Context(), rows)
	if err != nil {
		log.Println("[ERROR] Bulk prediction failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Bulk prediction failed.")
	}

	type predictedRow struct {
		StudentID  string             `json:"student_id"`
		Features   predictor.Features `json:"features"`
		FinalGrade float64            `json:"final_grade"`
	}
	out := make([]predictedRow, 0, len(rows))

	successCount := 0
	for i, studentID := range studentIDs {
		out = append(out, predictedRow{StudentID: studentID, Features: rows[i], FinalGrade: grades[i]})
		if studentID == "" {
			continue
		}
		res := pc.DB.Model(&studentModel.StudentModel{}).
			Where("student_id = ? AND student_school_id = ?", studentID, schoolID).
			Update("final_grade", grades[i])
		if res.Error == nil && res.RowsAffected > 0 {
			successCount++
		}
	}

	return helper.JsonOK(c,
		fmt.Sprintf("Successfully predicted grades for %d/%d students", successCount, len(rows)),
		out)
}

// POST /api/predict/reset?school_id=&class_number=
func (pc *PredictionController) ResetFinalGrades(c *fiber.Ctx) error {
	schoolID := c.Query("school_id")
	classNumber := c.Query("class_number")
	if schoolID == "" || classNumber == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Both 'school_id' and 'class_number' query parameters are required.")
	}

	res := pc.DB.Model(&studentModel.StudentModel{}).
		Where("student_school_id = ? AND student_class_assigned = ?", schoolID, classNumber).
		Update("final_grade", 0)
	if res.Error != nil {
		log.Println("[ERROR] Grade reset failed:", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reset final grades")
	}
	return helper.JsonOK(c, fmt.Sprintf("Final grades reset to 0 for %d students.", res.RowsAffected), nil)
}

// POST /api/predict/adhoc — score a raw feature payload without
// touching any student row; used by the what-if explorer.
func (pc *PredictionController) PredictAdhoc(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var teacher teacherModel.TeacherModel
	if err := pc.DB.Where("teacher_user_id = ?", userID).First(&teacher).Error; err != nil {
		return helper.JsonError(c, fiber.StatusForbidden, "Only teachers can access this API.")
	}

	var features predictor.Features
	if err := c.BodyParser(&features); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	grade, err := pc.Predictor.PredictSingle(c.Context(), features)
	if err != nil {
		log.Println("[ERROR] Adhoc prediction failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Prediction failed.")
	}
	return helper.JsonOK(c, "Successfully predicted the grade.", fiber.Map{
		"features":    features,
		"final_grade": grade,
	})
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
