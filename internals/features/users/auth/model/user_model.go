// internals/features/users/auth/model/user_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel is the login credential row. Staff profiles live in
// teachers and link back 1:1 via teacher_user_id.
type UserModel struct {
	UserID      uuid.UUID `json:"user_id"       gorm:"column:user_id;type:uuid;primaryKey"`
	UserName    string    `json:"user_name"     gorm:"column:user_name;type:varchar(100);not null"`
	Email       string    `json:"email"         gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	Password    string    `json:"-"             gorm:"column:password;type:varchar(255);not null"`
	IsActive    bool      `json:"is_active"     gorm:"column:is_active;not null;default:true"`
	IsSuperuser bool      `json:"is_superuser"  gorm:"column:is_superuser;not null;default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.UserID == uuid.Nil {
		m.UserID = uuid.New()
	}
	return nil
}
