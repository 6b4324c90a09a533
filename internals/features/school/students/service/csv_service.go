// internals/features/school/students/service/csv_service.go
package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"edumet_backend/internals/features/school/students/model"
)

// csvHeader is the roster exchange format, shared by export and
// import. Column order matters to the companion spreadsheet templates.
var csvHeader = []string{
	"full_name", "student_id", "email", "phone", "class_assigned", "attendance_percentage",
	"parental_education", "study_hours", "failures",
	"extracurricular", "participation", "rating", "discipline",
	"late_submissions", "prev_grade1", "prev_grade2", "final_grade",
}

// ImportResults summarizes one CSV import run.
type ImportResults struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []any    `json:"errors"`
	Created []string `json:"created"`
	Updated []string `json:"updated"`
}

// CSVService moves class rosters in and out as CSV.
type CSVService struct {
	DB *gorm.DB
}

func NewCSVService(db *gorm.DB) *CSVService {
	return &CSVService{DB: db}
}

/* ===================== EXPORT ===================== */

// Export renders the students as a CSV document.
func (s *CSVService) Export(students []model.StudentModel) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, st := range students {
		record := []string{
			st.StudentFullName,
			st.StudentID,
			st.StudentEmail,
			st.StudentPhone,
			st.StudentClassAssigned,
			formatFloat(st.AttendancePercentage),
			strconv.Itoa(st.ParentalEducation),
			strconv.Itoa(st.StudyHours),
			strconv.Itoa(st.Failures),
			strconv.Itoa(st.Extracurricular),
			strconv.Itoa(st.Participation),
			strconv.Itoa(st.Rating),
			strconv.Itoa(st.Discipline),
			strconv.Itoa(st.LateSubmissions),
			formatFloat(st.PrevGrade1),
			formatFloat(st.PrevGrade2),
			formatFloat(st.FinalGrade),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

/* ===================== IMPORT ===================== */

// Import upserts students keyed by student_id, scoping every row to
// the importing teacher's school. A malformed row is recorded and
// skipped; the rest of the file still goes through. onCreated is
// invoked for each new student so the caller can append them to
// today's attendance.
func (s *CSVService) Import(r io.Reader, school, schoolID string, onCreated func(*model.StudentModel)) (*ImportResults, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("empty or unreadable csv: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	results := &ImportResults{
		Errors:  []any{},
		Created: []string{},
		Updated: []string{},
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				results.Failed++
				results.Errors = append(results.Errors, fmt.Sprintf("unreadable row: %v", err))
				continue
			}

			row := newRowScanner(record, col)
			student := model.StudentModel{
				StudentFullName:      row.str("full_name"),
				StudentID:            row.str("student_id"),
				StudentEmail:         row.str("email"),
				StudentPhone:         row.str("phone"),
				StudentClassAssigned: row.str("class_assigned"),
				StudentSchool:        school,
				StudentSchoolID:      schoolID,
				AttendancePercentage: row.float("attendance_percentage"),
				ParentalEducation:    row.int("parental_education"),
				StudyHours:           row.int("study_hours"),
				Failures:             row.int("failures"),
				Extracurricular:      row.int("extracurricular"),
				Participation:        row.int("participation"),
				Rating:               row.int("rating"),
				Discipline:           row.int("discipline"),
				LateSubmissions:      row.int("late_submissions"),
				PrevGrade1:           row.float("prev_grade1"),
				PrevGrade2:           row.float("prev_grade2"),
				FinalGrade:           row.float("final_grade"),
			}

			if row.err != nil {
				results.Failed++
				results.Errors = append(results.Errors, map[string]any{
					"student_id": orNA(student.StudentID),
					"errors":     row.err.Error(),
				})
				continue
			}
			if student.StudentID == "" || student.StudentFullName == "" {
				results.Failed++
				results.Errors = append(results.Errors, map[string]any{
					"student_id": orNA(student.StudentID),
					"errors":     "full_name and student_id are required",
				})
				continue
			}

			var existing model.StudentModel
			lookupErr := tx.Where("student_id = ?", student.StudentID).First(&existing).Error
			switch {
			case lookupErr == nil:
				student.ID = existing.ID
				if err := tx.Model(&existing).Updates(&student).Error; err != nil {
					results.Failed++
					results.Errors = append(results.Errors, map[string]any{
						"student_id": student.StudentID,
						"errors":     err.Error(),
					})
					continue
				}
				results.Updated = append(results.Updated, student.StudentID)
				results.Success++
			case errors.Is(lookupErr, gorm.ErrRecordNotFound):
				if err := tx.Create(&student).Error; err != nil {
					results.Failed++
					results.Errors = append(results.Errors, map[string]any{
						"student_id": student.StudentID,
						"errors":     err.Error(),
					})
					continue
				}
				results.Created = append(results.Created, student.StudentID)
				results.Success++
				if onCreated != nil {
					onCreated(&student)
				}
			default:
				return lookupErr
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

/* ===================== ROW PARSING ===================== */

type rowScanner struct {
	record []string
	col    map[string]int
	err    error
}

func newRowScanner(record []string, col map[string]int) *rowScanner {
	return &rowScanner{record: record, col: col}
}

func (r *rowScanner) str(name string) string {
	i, ok := r.col[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r *rowScanner) int(name string) int {
	raw := r.str(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%s: %q is not a whole number", name, raw)
	}
	return v
}

func (r *rowScanner) float(name string) float64 {
	raw := r.str(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%s: %q is not a number", name, raw)
	}
	return v
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
