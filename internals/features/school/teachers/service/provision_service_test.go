// internals/features/school/teachers/service/provision_service_test.go
package service

import (
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"edumet_backend/internals/constants"
	teacherModel "edumet_backend/internals/features/school/teachers/model"
	authModel "edumet_backend/internals/features/users/auth/model"
)

func setupProvisionTest(t *testing.T) *ProvisionService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&authModel.UserModel{}, &teacherModel.TeacherModel{}))
	return NewProvisionService(db)
}

func profileBase() teacherModel.TeacherModel {
	return teacherModel.TeacherModel{
		TeacherName:        "Priya Nair",
		TeacherEmail:       "priya@school.example",
		TeacherPhone:       "9000000001",
		TeacherDateOfBirth: time.Date(1988, time.March, 14, 0, 0, 0, 0, time.UTC),
		TeacherSchool:      "Green Valley High",
		TeacherSchoolID:    "school-1",
		TeacherAddress:     "2 Hill Road",
		TeacherCity:        "Pune",
		TeacherState:       "MH",
		TeacherPincode:     "411001",
	}
}

func TestCredentialRules(t *testing.T) {
	assert.Equal(t, "priyanair", Username("Priya Nair"))
	assert.Equal(t, "priya", Username("Priya"))

	dob := time.Date(1988, time.March, 14, 0, 0, 0, 0, time.UTC)
	pw := FirstLoginPassword("Priya Nair", dob, "a1b2c3d4-e5f6-0000-0000-000000000000")
	assert.True(t, strings.HasPrefix(pw, "Priya@1988"))
	assert.Equal(t, "Priya@1988a1b2c3", pw)
}

func TestCreateStaffProvisionsLogin(t *testing.T) {
	svc := setupProvisionTest(t)

	teacher, err := teacherModel.NewClassTeacher(profileBase(), "8")
	require.NoError(t, err)
	created, err := svc.CreateStaff(teacher)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleClassTeacher, created.TeacherType)
	assert.Equal(t, "8", created.TeacherClassAssigned)

	var user authModel.UserModel
	require.NoError(t, svc.DB.Where("user_id = ?", created.TeacherUserID).First(&user).Error)
	assert.Equal(t, "priyanair", user.UserName)
	assert.Equal(t, "priya@school.example", user.Email)

	// Stored password is the bcrypt hash of the generated credential.
	expected := FirstLoginPassword(created.TeacherName, created.TeacherDateOfBirth, created.TeacherID.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(expected)))
}

func TestCreateStaffRejectsDuplicateEmail(t *testing.T) {
	svc := setupProvisionTest(t)

	_, err := svc.CreateStaff(teacherModel.NewPrincipal(profileBase()))
	require.NoError(t, err)

	_, err = svc.CreateStaff(teacherModel.NewPrincipal(profileBase()))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestClassAssignmentTaken(t *testing.T) {
	svc := setupProvisionTest(t)

	teacher, err := teacherModel.NewClassTeacher(profileBase(), "8")
	require.NoError(t, err)
	_, err = svc.CreateStaff(teacher)
	require.NoError(t, err)

	taken, err := svc.ClassAssignmentTaken("school-1", "8")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = svc.ClassAssignmentTaken("school-1", "9")
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = svc.ClassAssignmentTaken("school-2", "8")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestDeleteStaffRemovesLogin(t *testing.T) {
	svc := setupProvisionTest(t)

	created, err := svc.CreateStaff(teacherModel.NewPrincipal(profileBase()))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteStaff(created))

	var users, teachers int64
	require.NoError(t, svc.DB.Model(&authModel.UserModel{}).Count(&users).Error)
	require.NoError(t, svc.DB.Model(&teacherModel.TeacherModel{}).Count(&teachers).Error)
	assert.Equal(t, int64(0), users)
	assert.Equal(t, int64(0), teachers)
}

func TestRoleConstructors(t *testing.T) {
	base := profileBase()
	base.TeacherClassAssigned = "9" // must be cleared for a principal

	principal := teacherModel.NewPrincipal(base)
	assert.Equal(t, constants.RolePrincipal, principal.TeacherType)
	assert.Empty(t, principal.TeacherClassAssigned)

	_, err := teacherModel.NewClassTeacher(profileBase(), "")
	assert.Error(t, err)

	admin := teacherModel.NewAdmin(profileBase())
	assert.Equal(t, constants.RoleAdmin, admin.TeacherType)
}

func TestProvisionAdminIsIdempotent(t *testing.T) {
	svc := setupProvisionTest(t)

	require.NoError(t, svc.ProvisionAdmin("root@edumet.example", "super-secret-1"))
	require.NoError(t, svc.ProvisionAdmin("root@edumet.example", "different-password"))

	var users int64
	require.NoError(t, svc.DB.Model(&authModel.UserModel{}).Where("is_superuser = ?", true).Count(&users).Error)
	assert.Equal(t, int64(1), users)

	var profile teacherModel.TeacherModel
	require.NoError(t, svc.DB.Where("teacher_type = ?", constants.RoleAdmin).First(&profile).Error)
	assert.True(t, profile.TeacherMFAEnabled)
}
