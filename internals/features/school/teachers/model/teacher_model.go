// internals/features/school/teachers/model/teacher_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"edumet_backend/internals/constants"
)

// TeacherModel is the staff profile of variant {admin, principal,
// class_teacher}, linked 1:1 to a users row. class_assigned is only
// meaningful for the class_teacher variant; validity is enforced by the
// role constructors below, not by convention at the call sites.
type TeacherModel struct {
	TeacherID     uuid.UUID `json:"id"      gorm:"column:teacher_id;type:uuid;primaryKey"`
	TeacherUserID uuid.UUID `json:"user_id" gorm:"column:teacher_user_id;type:uuid;not null;uniqueIndex"`

	TeacherName string `json:"name" gorm:"column:teacher_name;type:varchar(100);not null"`
	TeacherType string `json:"type" gorm:"column:teacher_type;type:varchar(20);not null;index"`

	TeacherEmail       string    `json:"email"         gorm:"column:teacher_email;type:varchar(255);not null"`
	TeacherPhone       string    `json:"phone"         gorm:"column:teacher_phone;type:varchar(15);not null"`
	TeacherDateOfBirth time.Time `json:"date_of_birth" gorm:"column:teacher_date_of_birth;type:date;not null"`

	TeacherSchool   string `json:"school"    gorm:"column:teacher_school;type:varchar(100);not null"`
	TeacherSchoolID string `json:"school_id" gorm:"column:teacher_school_id;type:varchar(100);not null;index"`

	TeacherAddress string `json:"address" gorm:"column:teacher_address;type:text;not null"`
	TeacherCity    string `json:"city"    gorm:"column:teacher_city;type:varchar(50);not null"`
	TeacherState   string `json:"state"   gorm:"column:teacher_state;type:varchar(50);not null"`
	TeacherPincode string `json:"pincode" gorm:"column:teacher_pincode;type:varchar(10);not null"`

	TeacherProfileImageURL *string `json:"profile_image,omitempty" gorm:"column:teacher_profile_image_url;type:text"`

	// class_teacher only; empty for admin/principal
	TeacherClassAssigned string `json:"class_assigned" gorm:"column:teacher_class_assigned;type:varchar(20)"`

	TeacherMFAEnabled bool `json:"mfa_enabled" gorm:"column:teacher_mfa_enabled;not null;default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (TeacherModel) TableName() string {
	return "teachers"
}

func (m *TeacherModel) BeforeCreate(tx *gorm.DB) error {
	if m.TeacherID == uuid.Nil {
		m.TeacherID = uuid.New()
	}
	return nil
}

/* ===================== ROLE CONSTRUCTORS ===================== */

// NewPrincipal builds a principal row; class_assigned is cleared no
// matter what the payload carried.
func NewPrincipal(base TeacherModel) TeacherModel {
	base.TeacherType = constants.RolePrincipal
	base.TeacherClassAssigned = ""
	return base
}

// NewClassTeacher builds a class_teacher row; classNumber is required.
func NewClassTeacher(base TeacherModel, classNumber string) (TeacherModel, error) {
	if classNumber == "" {
		return TeacherModel{}, gorm.ErrInvalidData
	}
	base.TeacherType = constants.RoleClassTeacher
	base.TeacherClassAssigned = classNumber
	return base, nil
}

// NewAdmin builds the admin row used by the provisioning path.
func NewAdmin(base TeacherModel) TeacherModel {
	base.TeacherType = constants.RoleAdmin
	base.TeacherClassAssigned = ""
	return base
}

func (m *TeacherModel) IsClassTeacher() bool {
	return m.TeacherType == constants.RoleClassTeacher
}
