// internals/features/school/teachers/service/admin_provision.go
package service

import (
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	teacherModel "edumet_backend/internals/features/school/teachers/model"
	authModel "edumet_backend/internals/features/users/auth/model"
)

// ProvisionAdmin creates the platform admin login and its staff
// profile as one explicit step (run at boot when ADMIN_EMAIL is set).
// Idempotent: an existing user with the email is left untouched.
func (s *ProvisionService) ProvisionAdmin(email, password string) error {
	if email == "" || password == "" {
		return errors.New("admin email and password are required")
	}

	var existing authModel.UserModel
	err := s.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		user := authModel.UserModel{
			UserName:    "admin",
			Email:       email,
			Password:    string(hashed),
			IsActive:    true,
			IsSuperuser: true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		profile := teacherModel.NewAdmin(teacherModel.TeacherModel{
			TeacherUserID:      user.UserID,
			TeacherName:        "Admin",
			TeacherEmail:       email,
			TeacherPhone:       "0000000000",
			TeacherDateOfBirth: time.Date(2005, time.November, 25, 0, 0, 0, 0, time.UTC),
			TeacherSchool:      "edumet",
			TeacherSchoolID:    "0",
			TeacherAddress:     "Onsite",
			TeacherCity:        "administry",
			TeacherState:       "administration",
			TeacherPincode:     "000000",
			TeacherMFAEnabled:  true,
		})
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		log.Printf("[INFO] 🚀 Admin account provisioned (%s)", email)
		return nil
	})
}
