// internals/features/school/attendance/model/attendance_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the ISO form used for attendance dates and the
// working-day calendar keys.
const DateLayout = "2006-01-02"

// AttendanceModel is one row per (school_id, class_number, date). The
// per-student entries live in attendance_entries (normalized child
// table), not in an embedded JSON list.
type AttendanceModel struct {
	AttendanceID uuid.UUID `json:"id" gorm:"column:attendance_id;type:uuid;primaryKey"`

	AttendanceSchool   string `json:"school"       gorm:"column:attendance_school;type:varchar(100)"`
	AttendanceSchoolID string `json:"school_id"    gorm:"column:attendance_school_id;type:varchar(100);not null;uniqueIndex:uq_attendances_day"`
	AttendanceClass    string `json:"class_number" gorm:"column:attendance_class_number;type:varchar(20);not null;uniqueIndex:uq_attendances_day"`

	AttendanceDate time.Time `json:"date" gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendances_day"`

	Entries []AttendanceEntryModel `json:"students" gorm:"foreignKey:EntryAttendanceID;references:AttendanceID"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (AttendanceModel) TableName() string {
	return "attendances"
}

func (m *AttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceID == uuid.Nil {
		m.AttendanceID = uuid.New()
	}
	return nil
}
