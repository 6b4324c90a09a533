// internals/features/school/classes/model/class_working_day_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ClassWorkingDayModel is the calendar ground truth: one row per
// (school_id, class_number), mapping ISO date → "was this day fully
// marked". Total working days is the count of true values.
type ClassWorkingDayModel struct {
	WorkingDayID uuid.UUID `json:"id" gorm:"column:working_day_id;type:uuid;primaryKey"`

	WorkingDaySchoolID string `json:"school_id"    gorm:"column:working_day_school_id;type:varchar(100);not null;uniqueIndex:uq_working_days_school_class"`
	WorkingDayClass    string `json:"class_number" gorm:"column:working_day_class_number;type:varchar(20);not null;uniqueIndex:uq_working_days_school_class"`
	WorkingDaySchool   string `json:"school"       gorm:"column:working_day_school;type:varchar(100)"`

	WorkingDays datatypes.JSONType[map[string]bool] `json:"working_days" gorm:"column:working_days"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (ClassWorkingDayModel) TableName() string {
	return "class_working_days"
}

func (m *ClassWorkingDayModel) BeforeCreate(tx *gorm.DB) error {
	if m.WorkingDayID == uuid.Nil {
		m.WorkingDayID = uuid.New()
	}
	return nil
}

// Days returns the calendar map, never nil.
func (m *ClassWorkingDayModel) Days() map[string]bool {
	days := m.WorkingDays.Data()
	if days == nil {
		days = map[string]bool{}
	}
	return days
}

// SetDays replaces the calendar map.
func (m *ClassWorkingDayModel) SetDays(days map[string]bool) {
	m.WorkingDays = datatypes.NewJSONType(days)
}

// CountTrue is the working-day count over all recorded dates.
func (m *ClassWorkingDayModel) CountTrue() int {
	n := 0
	for _, marked := range m.Days() {
		if marked {
			n++
		}
	}
	return n
}

// CountTrueInRange restricts the count to [from, to] inclusive,
// comparing ISO date keys lexicographically.
func (m *ClassWorkingDayModel) CountTrueInRange(from, to string) int {
	n := 0
	for day, marked := range m.Days() {
		if marked && day >= from && day <= to {
			n++
		}
	}
	return n
}
