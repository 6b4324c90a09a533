// internals/features/school/schools/model/school_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SchoolModel represents the `schools` table. Other entities reference
// it by the string form of school_id; that link is intentionally not a
// foreign key (the companion clients send it as an opaque id).
type SchoolModel struct {
	SchoolID uuid.UUID `json:"id" gorm:"column:school_id;type:uuid;primaryKey"`

	SchoolName               string `json:"name"                gorm:"column:school_name;type:varchar(100);not null"`
	SchoolType               string `json:"school_type"         gorm:"column:school_type;type:varchar(50);not null"`
	SchoolBoard              string `json:"board"               gorm:"column:school_board;type:varchar(50);not null"`
	SchoolMedium             string `json:"medium"              gorm:"column:school_medium;type:varchar(50);not null"`
	SchoolRegistrationNumber string `json:"registration_number" gorm:"column:school_registration_number;type:varchar(50);not null;uniqueIndex"`

	SchoolEmail   string `json:"email"   gorm:"column:school_email;type:varchar(255);not null"`
	SchoolPhone   string `json:"phone"   gorm:"column:school_phone;type:varchar(15);not null"`
	SchoolAddress string `json:"address" gorm:"column:school_address;type:text;not null"`
	SchoolCity    string `json:"city"    gorm:"column:school_city;type:varchar(50);not null"`
	SchoolState   string `json:"state"   gorm:"column:school_state;type:varchar(50);not null"`
	SchoolPincode string `json:"pincode" gorm:"column:school_pincode;type:varchar(10);not null"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (SchoolModel) TableName() string {
	return "schools"
}

func (m *SchoolModel) BeforeCreate(tx *gorm.DB) error {
	if m.SchoolID == uuid.Nil {
		m.SchoolID = uuid.New()
	}
	return nil
}
