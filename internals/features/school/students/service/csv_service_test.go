// internals/features/school/students/service/csv_service_test.go
package service

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"edumet_backend/internals/features/school/students/model"
)

func setupCSVTest(t *testing.T) *CSVService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.StudentModel{}))
	return NewCSVService(db)
}

func TestExportHeaderAndRows(t *testing.T) {
	svc := setupCSVTest(t)

	out, err := svc.Export([]model.StudentModel{{
		StudentFullName:      "Asha Rao",
		StudentID:            "S001",
		StudentEmail:         "asha@students.example",
		StudentPhone:         "8888888888",
		StudentClassAssigned: "8",
		AttendancePercentage: 91.67,
		StudyHours:           12,
		PrevGrade1:           78.5,
		FinalGrade:           81,
	}})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{
		"full_name", "student_id", "email", "phone", "class_assigned", "attendance_percentage",
		"parental_education", "study_hours", "failures",
		"extracurricular", "participation", "rating", "discipline",
		"late_submissions", "prev_grade1", "prev_grade2", "final_grade",
	}, records[0])

	row := records[1]
	assert.Equal(t, "Asha Rao", row[0])
	assert.Equal(t, "S001", row[1])
	assert.Equal(t, "91.67", row[5])
	assert.Equal(t, "12", row[7])
	assert.Equal(t, "78.5", row[14])
	assert.Equal(t, "81", row[16])
}

func TestImportCreatesAndUpdates(t *testing.T) {
	svc := setupCSVTest(t)

	existing := model.StudentModel{
		StudentFullName:      "Old Name",
		StudentID:            "S001",
		StudentEmail:         "old@students.example",
		StudentPhone:         "1111111111",
		StudentClassAssigned: "8",
		StudentSchoolID:      "school-1",
	}
	require.NoError(t, svc.DB.Create(&existing).Error)

	input := strings.Join([]string{
		"full_name,student_id,email,phone,class_assigned,study_hours,prev_grade1",
		"Asha Rao,S001,asha@students.example,8888888888,8,10,75.5",
		"Vikram Iyer,S002,vikram@students.example,9999999999,8,8,68",
	}, "\n")

	var createdIDs []string
	results, err := svc.Import(strings.NewReader(input), "Green Valley High", "school-1", func(st *model.StudentModel) {
		createdIDs = append(createdIDs, st.StudentID)
	})
	require.NoError(t, err)

	assert.Equal(t, 2, results.Success)
	assert.Equal(t, 0, results.Failed)
	assert.Equal(t, []string{"S001"}, results.Updated)
	assert.Equal(t, []string{"S002"}, results.Created)
	assert.Equal(t, []string{"S002"}, createdIDs)

	var updated model.StudentModel
	require.NoError(t, svc.DB.Where("student_id = ?", "S001").First(&updated).Error)
	assert.Equal(t, "Asha Rao", updated.StudentFullName)
	assert.Equal(t, 10, updated.StudyHours)
}

func TestImportIsolatesMalformedRows(t *testing.T) {
	svc := setupCSVTest(t)

	input := strings.Join([]string{
		"full_name,student_id,email,phone,class_assigned,study_hours",
		"Asha Rao,S001,asha@students.example,8888888888,8,10",
		"Broken Row,S002,broken@students.example,9999999999,8,not-a-number",
		",S003,missing-name@students.example,7777777777,8,5",
		"Meera Shah,S004,meera@students.example,6666666666,8,9",
	}, "\n")

	results, err := svc.Import(strings.NewReader(input), "Green Valley High", "school-1", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, results.Success)
	assert.Equal(t, 2, results.Failed)
	assert.Len(t, results.Errors, 2)
	assert.ElementsMatch(t, []string{"S001", "S004"}, results.Created)

	// The bad rows left nothing behind; the good rows landed.
	var count int64
	require.NoError(t, svc.DB.Model(&model.StudentModel{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
