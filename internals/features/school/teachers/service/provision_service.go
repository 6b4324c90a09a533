// internals/features/school/teachers/service/provision_service.go
package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"edumet_backend/internals/constants"
	teacherModel "edumet_backend/internals/features/school/teachers/model"
	authModel "edumet_backend/internals/features/users/auth/model"
	"edumet_backend/internals/services/mailer"
)

var ErrEmailTaken = errors.New("user with this email already exists")

// ProvisionService creates the users row behind a staff profile,
// generates the first-login credentials, and emails them. Both steps
// run in one transaction so a failed insert never leaves an orphan
// login.
type ProvisionService struct {
	DB *gorm.DB
}

func NewProvisionService(db *gorm.DB) *ProvisionService {
	return &ProvisionService{DB: db}
}

// CreateStaff persists the user + teacher pair and sends the welcome
// email in the background. The teacher value must already carry its
// role from one of the model constructors.
func (s *ProvisionService) CreateStaff(teacher teacherModel.TeacherModel) (*teacherModel.TeacherModel, error) {
	username := Username(teacher.TeacherName)
	email := teacher.TeacherEmail

	var count int64
	if err := s.DB.Model(&authModel.UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	var password string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		user := authModel.UserModel{
			UserName: username,
			Email:    email,
			Password: "*", // replaced below once the teacher id exists
			IsActive: true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		teacher.TeacherUserID = user.UserID
		if err := tx.Create(&teacher).Error; err != nil {
			return err
		}

		password = FirstLoginPassword(teacher.TeacherName, teacher.TeacherDateOfBirth, teacher.TeacherID.String())
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		return tx.Model(&user).Update("password", string(hashed)).Error
	})
	if err != nil {
		return nil, err
	}

	mailer.SendBackground("EduMet Account Login Credentials", mailer.TemplateWelcome, mailer.Context{
		"type":         roleLabel(teacher.TeacherType),
		"name":         teacher.TeacherName,
		"email":        teacher.TeacherEmail,
		"username":     username,
		"password":     password,
		"school":       teacher.TeacherSchool,
		"current_year": time.Now().Year(),
	}, email)

	log.Printf("[INFO] Provisioned %s %s (user=%s)", teacher.TeacherType, teacher.TeacherName, username)
	return &teacher, nil
}

// DeleteStaff removes the profile and its login, then sends the
// account-removed notice.
func (s *ProvisionService) DeleteStaff(teacher *teacherModel.TeacherModel) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(teacher).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", teacher.TeacherUserID).Delete(&authModel.UserModel{}).Error
	})
	if err != nil {
		return err
	}

	mailer.SendBackground("Goodbye from EduMet - Account Has Been Permanently Removed", mailer.TemplateDeleteTeacher, mailer.Context{
		"name":         teacher.TeacherName,
		"email":        teacher.TeacherEmail,
		"current_year": time.Now().Year(),
	}, teacher.TeacherEmail)
	return nil
}

// ClassAssignmentTaken reports whether an active class teacher already
// holds the (school, class) pair.
func (s *ProvisionService) ClassAssignmentTaken(schoolID, classNumber string) (bool, error) {
	var count int64
	err := s.DB.Model(&teacherModel.TeacherModel{}).
		Where("teacher_school_id = ? AND teacher_class_assigned = ? AND teacher_type = ?",
			schoolID, classNumber, constants.RoleClassTeacher).
		Count(&count).Error
	return count > 0, err
}

// SyncLogin pushes a profile's name/email changes down to its login.
func (s *ProvisionService) SyncLogin(teacher *teacherModel.TeacherModel) error {
	return s.DB.Model(&authModel.UserModel{}).
		Where("user_id = ?", teacher.TeacherUserID).
		Updates(map[string]any{
			"user_name": Username(teacher.TeacherName),
			"email":     teacher.TeacherEmail,
		}).Error
}

/* ===================== CREDENTIAL RULES ===================== */

// Username is the lowercased full name with spaces removed.
func Username(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "")
}

// FirstLoginPassword is "<FirstName>@<birthYear><idSuffix>", where the
// suffix is a short slice of the teacher's id to keep the generated
// credential unique per staff member.
func FirstLoginPassword(name string, dob time.Time, teacherID string) string {
	first := name
	if i := strings.IndexByte(name, ' '); i > 0 {
		first = name[:i]
	}
	suffix := strings.ReplaceAll(teacherID, "-", "")
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return first + "@" + dob.Format("2006") + suffix
}

func roleLabel(teacherType string) string {
	switch teacherType {
	case "principal":
		return "Principal"
	case "class_teacher":
		return "Class Teacher"
	default:
		return "Admin"
	}
}
