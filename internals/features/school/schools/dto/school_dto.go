// internals/features/school/schools/dto/school_dto.go
package dto

import (
	"edumet_backend/internals/features/school/schools/model"
)

type CreateSchoolRequest struct {
	Name               string `json:"name"                validate:"required,max=100"`
	SchoolType         string `json:"school_type"         validate:"required,max=50"`
	Board              string `json:"board"               validate:"required,max=50"`
	Medium             string `json:"medium"              validate:"required,max=50"`
	RegistrationNumber string `json:"registration_number" validate:"required,max=50"`
	Email              string `json:"email"               validate:"required,email"`
	Phone              string `json:"phone"               validate:"required,max=15"`
	Address            string `json:"address"             validate:"required"`
	City               string `json:"city"                validate:"required,max=50"`
	State              string `json:"state"               validate:"required,max=50"`
	Pincode            string `json:"pincode"             validate:"required,max=10"`
}

func (r *CreateSchoolRequest) ToModel() *model.SchoolModel {
	return &model.SchoolModel{
		SchoolName:               r.Name,
		SchoolType:               r.SchoolType,
		SchoolBoard:              r.Board,
		SchoolMedium:             r.Medium,
		SchoolRegistrationNumber: r.RegistrationNumber,
		SchoolEmail:              r.Email,
		SchoolPhone:              r.Phone,
		SchoolAddress:            r.Address,
		SchoolCity:               r.City,
		SchoolState:              r.State,
		SchoolPincode:            r.Pincode,
	}
}

// UpdateSchoolRequest applies only the fields the client sent.
type UpdateSchoolRequest struct {
	Name       *string `json:"name"        validate:"omitempty,max=100"`
	SchoolType *string `json:"school_type" validate:"omitempty,max=50"`
	Board      *string `json:"board"       validate:"omitempty,max=50"`
	Medium     *string `json:"medium"      validate:"omitempty,max=50"`
	Email      *string `json:"email"       validate:"omitempty,email"`
	Phone      *string `json:"phone"       validate:"omitempty,max=15"`
	Address    *string `json:"address"     validate:"omitempty"`
	City       *string `json:"city"        validate:"omitempty,max=50"`
	State      *string `json:"state"       validate:"omitempty,max=50"`
	Pincode    *string `json:"pincode"     validate:"omitempty,max=10"`
}

func (r *UpdateSchoolRequest) ApplyToModel(m *model.SchoolModel) {
	if r.Name != nil {
		m.SchoolName = *r.Name
	}
	if r.SchoolType != nil {
		m.SchoolType = *r.SchoolType
	}
	if r.Board != nil {
		m.SchoolBoard = *r.Board
	}
	if r.Medium != nil {
		m.SchoolMedium = *r.Medium
	}
	if r.Email != nil {
		m.SchoolEmail = *r.Email
	}
	if r.Phone != nil {
		m.SchoolPhone = *r.Phone
	}
	if r.Address != nil {
		m.SchoolAddress = *r.Address
	}
	if r.City != nil {
		m.SchoolCity = *r.City
	}
	if r.State != nil {
		m.SchoolState = *r.State
	}
	if r.Pincode != nil {
		m.SchoolPincode = *r.Pincode
	}
}

// SchoolNameResponse backs the public school picker on the login page.
type SchoolNameResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
