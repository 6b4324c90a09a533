// internals/features/school/students/model/student_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentModel holds the roster profile plus the predictor feature
// fields consumed by the grade-prediction bridge. student_id is the
// school-issued identifier and is globally unique; it is the key used
// by attendance entries and CSV upserts.
type StudentModel struct {
	ID uuid.UUID `json:"id" gorm:"column:id;type:uuid;primaryKey"`

	StudentFullName string `json:"full_name"  gorm:"column:student_full_name;type:varchar(100);not null"`
	StudentID       string `json:"student_id" gorm:"column:student_id;type:varchar(100);not null;uniqueIndex"`
	StudentEmail    string `json:"email"      gorm:"column:student_email;type:varchar(255);not null"`
	StudentPhone    string `json:"phone"      gorm:"column:student_phone;type:varchar(15);not null"`

	StudentClassAssigned string `json:"class_assigned" gorm:"column:student_class_assigned;type:varchar(20);not null;index:idx_students_school_class"`
	StudentSchool        string `json:"school"         gorm:"column:student_school;type:varchar(100)"`
	StudentSchoolID      string `json:"school_id"      gorm:"column:student_school_id;type:varchar(100);not null;index:idx_students_school_class"`

	// Predictor features
	AttendancePercentage float64 `json:"attendance_percentage" gorm:"column:attendance_percentage;not null;default:0"`
	ParentalEducation    int     `json:"parental_education"    gorm:"column:parental_education;not null;default:0"`
	StudyHours           int     `json:"study_hours"           gorm:"column:study_hours;not null;default:0"`
	Failures             int     `json:"failures"              gorm:"column:failures;not null;default:0"`
	Extracurricular      int     `json:"extracurricular"       gorm:"column:extracurricular;not null;default:0"`
	Participation        int     `json:"participation"         gorm:"column:participation;not null;default:0"`
	Rating               int     `json:"rating"                gorm:"column:rating;not null;default:0"`
	Discipline           int     `json:"discipline"            gorm:"column:discipline;not null;default:0"`
	LateSubmissions      int     `json:"late_submissions"      gorm:"column:late_submissions;not null;default:0"`
	PrevGrade1           float64 `json:"prev_grade1"           gorm:"column:prev_grade1;not null;default:0"`
	PrevGrade2           float64 `json:"prev_grade2"           gorm:"column:prev_grade2;not null;default:0"`
	FinalGrade           float64 `json:"final_grade"           gorm:"column:final_grade;not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (StudentModel) TableName() string {
	return "students"
}

func (m *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
