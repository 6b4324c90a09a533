// internals/features/school/classes/model/class_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassModel is one row per (school_id, class_number). Created lazily
// when a class teacher is assigned or on the first attendance action.
// class_total_working_days is derived from the working-day calendar.
type ClassModel struct {
	ClassID uuid.UUID `json:"id" gorm:"column:class_id;type:uuid;primaryKey"`

	ClassSchoolID string `json:"school_id"    gorm:"column:class_school_id;type:varchar(100);not null;uniqueIndex:uq_classes_school_class"`
	ClassNumber   string `json:"class_number" gorm:"column:class_number;type:varchar(20);not null;uniqueIndex:uq_classes_school_class"`

	ClassStartDate        time.Time `json:"start_date"         gorm:"column:class_start_date;type:date;not null"`
	ClassThreshold        float64   `json:"threshold"          gorm:"column:class_threshold;not null;default:75"`
	ClassTotalWorkingDays int       `json:"total_working_days" gorm:"column:class_total_working_days;not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (ClassModel) TableName() string {
	return "classes"
}

func (m *ClassModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassID == uuid.Nil {
		m.ClassID = uuid.New()
	}
	return nil
}
