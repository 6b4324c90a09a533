// internals/features/school/teachers/dto/teacher_dto.go
package dto

import (
	"strings"
	"time"

	"edumet_backend/internals/features/school/teachers/model"
)

const dateOfBirthLayout = "2006-01-02"

type CreateTeacherRequest struct {
	Name        string  `json:"name"          validate:"required,max=100"`
	Email       string  `json:"email"         validate:"required,email"`
	Phone       string  `json:"phone"         validate:"required,max=15"`
	DateOfBirth string  `json:"date_of_birth" validate:"required"`
	School      string  `json:"school"        validate:"required,max=100"`
	SchoolID    string  `json:"school_id"     validate:"required"`
	Address     string  `json:"address"       validate:"required"`
	City        string  `json:"city"          validate:"required,max=50"`
	State       string  `json:"state"         validate:"required,max=50"`
	Pincode     string  `json:"pincode"       validate:"required,max=10"`
	ProfileImg  *string `json:"profile_image"`

	// class_teacher only
	ClassAssigned string `json:"class_assigned"`
}

// ToModel builds the profile base; the role constructors in the model
// package stamp the type and the class assignment.
func (r *CreateTeacherRequest) ToModel() (model.TeacherModel, error) {
	dob, err := time.Parse(dateOfBirthLayout, r.DateOfBirth)
	if err != nil {
		return model.TeacherModel{}, err
	}
	return model.TeacherModel{
		TeacherName:            titleCase(r.Name),
		TeacherEmail:           strings.TrimSpace(strings.ToLower(r.Email)),
		TeacherPhone:           r.Phone,
		TeacherDateOfBirth:     dob,
		TeacherSchool:          r.School,
		TeacherSchoolID:        r.SchoolID,
		TeacherAddress:         r.Address,
		TeacherCity:            r.City,
		TeacherState:           r.State,
		TeacherPincode:         r.Pincode,
		TeacherProfileImageURL: r.ProfileImg,
	}, nil
}

type UpdateTeacherRequest struct {
	Name        *string `json:"name"          validate:"omitempty,max=100"`
	Email       *string `json:"email"         validate:"omitempty,email"`
	Phone       *string `json:"phone"         validate:"omitempty,max=15"`
	DateOfBirth *string `json:"date_of_birth"`
	Address     *string `json:"address"`
	City        *string `json:"city"          validate:"omitempty,max=50"`
	State       *string `json:"state"         validate:"omitempty,max=50"`
	Pincode     *string `json:"pincode"       validate:"omitempty,max=10"`
	ProfileImg  *string `json:"profile_image"`
	MFAEnabled  *bool   `json:"mfa_enabled"`

	// class_teacher only
	ClassAssigned *string `json:"class_assigned"`
}

func (r *UpdateTeacherRequest) ApplyToModel(m *model.TeacherModel) error {
	if r.Name != nil {
		m.TeacherName = titleCase(*r.Name)
	}
	if r.Email != nil {
		m.TeacherEmail = strings.TrimSpace(strings.ToLower(*r.Email))
	}
	if r.Phone != nil {
		m.TeacherPhone = *r.Phone
	}
	if r.DateOfBirth != nil {
		dob, err := time.Parse(dateOfBirthLayout, *r.DateOfBirth)
		if err != nil {
			return err
		}
		m.TeacherDateOfBirth = dob
	}
	if r.Address != nil {
		m.TeacherAddress = *r.Address
	}
	if r.City != nil {
		m.TeacherCity = *r.City
	}
	if r.State != nil {
		m.TeacherState = *r.State
	}
	if r.Pincode != nil {
		m.TeacherPincode = *r.Pincode
	}
	if r.ProfileImg != nil {
		m.TeacherProfileImageURL = r.ProfileImg
	}
	if r.MFAEnabled != nil {
		m.TeacherMFAEnabled = *r.MFAEnabled
	}
	if r.ClassAssigned != nil && m.IsClassTeacher() {
		m.TeacherClassAssigned = *r.ClassAssigned
	}
	return nil
}

// titleCase capitalizes each space-separated word the way the welcome
// email and the generated credentials expect.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
