// internals/features/school/attendance/model/attendance_entry_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"edumet_backend/internals/constants"
)

// AttendanceEntryModel is the per-student line of one attendance day.
// (attendance_id, student_id) is unique; present_count and percentage
// are denormalized running aggregates recomputed by the aggregator on
// every mark.
type AttendanceEntryModel struct {
	EntryID           uuid.UUID `json:"-"          gorm:"column:entry_id;type:uuid;primaryKey"`
	EntryAttendanceID uuid.UUID `json:"-"          gorm:"column:entry_attendance_id;type:uuid;not null;uniqueIndex:uq_entries_day_student;index"`
	EntryStudentID    string    `json:"student_id" gorm:"column:entry_student_id;type:varchar(100);not null;uniqueIndex:uq_entries_day_student;index"`

	EntryName  string `json:"name"  gorm:"column:entry_name;type:varchar(100)"`
	EntryEmail string `json:"email" gorm:"column:entry_email;type:varchar(255)"`
	EntryPhone string `json:"phone" gorm:"column:entry_phone;type:varchar(15)"`

	EntryStatus       string  `json:"status"        gorm:"column:entry_status;type:varchar(20);not null;default:not_marked"`
	EntryPresentCount int     `json:"present_count" gorm:"column:entry_present_count;not null;default:0"`
	EntryPercentage   float64 `json:"percentage"    gorm:"column:entry_percentage;not null;default:0"`

	CreatedAt time.Time `json:"-" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `json:"-" gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (AttendanceEntryModel) TableName() string {
	return "attendance_entries"
}

func (m *AttendanceEntryModel) BeforeCreate(tx *gorm.DB) error {
	if m.EntryID == uuid.Nil {
		m.EntryID = uuid.New()
	}
	if m.EntryStatus == "" {
		m.EntryStatus = constants.StatusNotMarked
	}
	return nil
}
