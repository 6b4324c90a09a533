// internals/features/school/students/dto/student_dto.go
package dto

import (
	"edumet_backend/internals/features/school/students/model"
)

type CreateStudentRequest struct {
	FullName      string `json:"full_name"      validate:"required,max=100"`
	StudentID     string `json:"student_id"     validate:"required,max=100"`
	Email         string `json:"email"          validate:"required,email"`
	Phone         string `json:"phone"          validate:"required,max=15"`
	ClassAssigned string `json:"class_assigned" validate:"required,max=20"`

	AttendancePercentage float64 `json:"attendance_percentage"`
	ParentalEducation    int     `json:"parental_education"`
	StudyHours           int     `json:"study_hours"`
	Failures             int     `json:"failures"`
	Extracurricular      int     `json:"extracurricular"`
	Participation        int     `json:"participation"`
	Rating               int     `json:"rating"`
	Discipline           int     `json:"discipline"`
	LateSubmissions      int     `json:"late_submissions"`
	PrevGrade1           float64 `json:"prev_grade1"`
	PrevGrade2           float64 `json:"prev_grade2"`
}

// ToModel stamps the importing teacher's school onto the row; clients
// never choose the school themselves.
func (r *CreateStudentRequest) ToModel(school, schoolID string) *model.StudentModel {
	return &model.StudentModel{
		StudentFullName:      r.FullName,
		StudentID:            r.StudentID,
		StudentEmail:         r.Email,
		StudentPhone:         r.Phone,
		StudentClassAssigned: r.ClassAssigned,
		StudentSchool:        school,
		StudentSchoolID:      schoolID,
		AttendancePercentage: r.AttendancePercentage,
		ParentalEducation:    r.ParentalEducation,
		StudyHours:           r.StudyHours,
		Failures:             r.Failures,
		Extracurricular:      r.Extracurricular,
		Participation:        r.Participation,
		Rating:               r.Rating,
		Discipline:           r.Discipline,
		LateSubmissions:      r.LateSubmissions,
		PrevGrade1:           r.PrevGrade1,
		PrevGrade2:           r.PrevGrade2,
	}
}

type UpdateStudentRequest struct {
	FullName      *string `json:"full_name"      validate:"omitempty,max=100"`
	Email         *string `json:"email"          validate:"omitempty,email"`
	Phone         *string `json:"phone"          validate:"omitempty,max=15"`
	ClassAssigned *string `json:"class_assigned" validate:"omitempty,max=20"`

	AttendancePercentage *float64 `json:"attendance_percentage"`
	ParentalEducation    *int     `json:"parental_education"`
	StudyHours           *int     `json:"study_hours"`
	Failures             *int     `json:"failures"`
	Extracurricular      *int     `json:"extracurricular"`
	Participation        *int     `json:"participation"`
	Rating               *int     `json:"rating"`
	Discipline           *int     `json:"discipline"`
	LateSubmissions      *int     `json:"late_submissions"`
	PrevGrade1           *float64 `json:"prev_grade1"`
	PrevGrade2           *float64 `json:"prev_grade2"`
	FinalGrade           *float64 `json:"final_grade"`
}

func (r *UpdateStudentRequest) ApplyToModel(m *model.StudentModel) {
	if r.FullName != nil {
		m.StudentFullName = *r.FullName
	}
	if r.Email != nil {
		m.StudentEmail = *r.Email
	}
	if r.Phone != nil {
		m.StudentPhone = *r.Phone
	}
	if r.ClassAssigned != nil {
		m.StudentClassAssigned = *r.ClassAssigned
	}
	if r.AttendancePercentage != nil {
		m.AttendancePercentage = *r.AttendancePercentage
	}
	if r.ParentalEducation != nil {
		m.ParentalEducation = *r.ParentalEducation
	}
	if r.StudyHours != nil {
		m.StudyHours = *r.StudyHours
	}
	if r.Failures != nil {
		m.Failures = *r.Failures
	}
	if r.Extracurricular != nil {
		m.Extracurricular = *r.Extracurricular
	}
	if r.Participation != nil {
		m.Participation = *r.Participation
	}
	if r.Rating != nil {
		m.Rating = *r.Rating
	}
	if r.Discipline != nil {
		m.Discipline = *r.Discipline
	}
	if r.LateSubmissions != nil {
		m.LateSubmissions = *r.LateSubmissions
	}
	if r.PrevGrade1 != nil {
		m.PrevGrade1 = *r.PrevGrade1
	}
	if r.PrevGrade2 != nil {
		m.PrevGrade2 = *r.PrevGrade2
	}
	if r.FinalGrade != nil {
		m.FinalGrade = *r.FinalGrade
	}
}
