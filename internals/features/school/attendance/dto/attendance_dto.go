// internals/features/school/attendance/dto/attendance_dto.go
package dto

import (
	"edumet_backend/internals/features/school/attendance/service"
)

// StudentStatusItem is one line in an add/mark payload. Profile fields
// are optional on the mark path; student_id always identifies the row.
type StudentStatusItem struct {
	StudentID string `json:"student_id" validate:"required"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Status    string `json:"status"`
}

type AddAttendanceRequest struct {
	SchoolID    string              `json:"school_id"    validate:"required"`
	ClassNumber string              `json:"class_number" validate:"required"`
	Date        string              `json:"date"         validate:"required"`
	Students    []StudentStatusItem `json:"students"     validate:"required,dive"`
}

type UpdateAttendanceRequest struct {
	SchoolID    string              `json:"school_id"    validate:"required"`
	ClassNumber string              `json:"class_number" validate:"required"`
	Date        string              `json:"date"         validate:"required"`
	Students    []StudentStatusItem `json:"students"     validate:"required,min=1,dive"`
}

type AttendanceAlertRequest struct {
	StudentID    string   `json:"student_id"    validate:"required"`
	PresentCount *int     `json:"present_count" validate:"required"`
	Percentage   *float64 `json:"percentage"    validate:"required"`
}

func ToStatusUpdates(items []StudentStatusItem) []service.StatusUpdate {
	out := make([]service.StatusUpdate, 0, len(items))
	for _, it := range items {
		out = append(out, service.StatusUpdate{
			StudentID: it.StudentID,
			Name:      it.Name,
			Email:     it.Email,
			Phone:     it.Phone,
			Status:    it.Status,
		})
	}
	return out
}
