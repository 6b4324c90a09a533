// internals/features/school/classes/dto/class_dto.go
package dto

import (
	"time"

	"edumet_backend/internals/features/school/classes/model"
)

const startDateLayout = "2006-01-02"

type CreateClassRequest struct {
	SchoolID    string  `json:"school_id"    validate:"required"`
	ClassNumber string  `json:"class_number" validate:"required,max=20"`
	StartDate   string  `json:"start_date"   validate:"required"`
	Threshold   float64 `json:"threshold"    validate:"omitempty,gte=0,lte=100"`
}

func (r *CreateClassRequest) ToModel() (*model.ClassModel, error) {
	start, err := time.Parse(startDateLayout, r.StartDate)
	if err != nil {
		return nil, err
	}
	threshold := r.Threshold
	if threshold == 0 {
		threshold = 75
	}
	return &model.ClassModel{
		ClassSchoolID:  r.SchoolID,
		ClassNumber:    r.ClassNumber,
		ClassStartDate: start,
		ClassThreshold: threshold,
	}, nil
}

// UpdateClassRequest covers the two teacher-editable fields.
type UpdateClassRequest struct {
	StartDate *string  `json:"start_date"`
	Threshold *float64 `json:"threshold" validate:"omitempty,gte=0,lte=100"`
}

func (r *UpdateClassRequest) ApplyToModel(m *model.ClassModel) error {
	if r.StartDate != nil {
		start, err := time.Parse(startDateLayout, *r.StartDate)
		if err != nil {
			return err
		}
		m.ClassStartDate = start
	}
	if r.Threshold != nil {
		m.ClassThreshold = *r.Threshold
	}
	return nil
}
