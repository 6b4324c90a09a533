// internals/services/predictor/client.go
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"edumet_backend/internals/configs"
	studentModel "edumet_backend/internals/features/school/students/model"
)

var ErrPredictionFailed = errors.New("prediction service returned no result")

// Features is the model input schema; the JSON keys are fixed by the
// scoring service and differ from the roster column names.
type Features struct {
	AttendancePercentage float64 `json:"Attendance_Percentage"`
	ParentalEducation    int     `json:"Parental_Education"`
	StudyHoursPerWeek    int     `json:"Study_Hours_Per_Week"`
	Failures             int     `json:"Failures"`
	ExtraCurricular      int     `json:"Extra_Curricular"`
	ParticipationScore   int     `json:"Participation_Score"`
	TeacherRating        int     `json:"Teacher_Rating"`
	DisciplineIssues     int     `json:"Discipline_Issues"`
	LateSubmissions      int     `json:"Late_Submissions"`
	PreviousGrade1       float64 `json:"Previous_Grade_1"`
	PreviousGrade2       float64 `json:"Previous_Grade_2"`
}

// FromStudent maps a roster row onto the scoring schema.
func FromStudent(st *studentModel.StudentModel) Features {
	return Features{
		AttendancePercentage: st.AttendancePercentage,
		ParentalEducation:    st.ParentalEducation,
		StudyHoursPerWeek:    st.StudyHours,
		Failures:             st.Failures,
		ExtraCurricular:      st.Extracurricular,
		ParticipationScore:   st.Participation,
		TeacherRating:        st.Rating,
		DisciplineIssues:     st.Discipline,
		LateSubmissions:      st.LateSubmissions,
		PreviousGrade1:       st.PrevGrade1,
		PreviousGrade2:       st.PrevGrade2,
	}
}

// Client talks to the grade scoring service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL: configs.PredictorBaseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type singleResponse struct {
	PredictedFinalGrade *float64 `json:"predicted_final_grade"`
}

type bulkRequest struct {
	Rows []Features `json:"rows"`
}

type bulkResponse struct {
	Predictions []float64 `json:"predictions"`
}

// PredictSingle scores one feature row.
func (c *Client) PredictSingle(ctx context.Context, f Features) (float64, error) {
	var out singleResponse
	if err := c.post(ctx, "/predict", f, &out); err != nil {
		return 0, err
	}
	if out.PredictedFinalGrade == nil {
		return 0, ErrPredictionFailed
	}
	return *out.PredictedFinalGrade, nil
}

// PredictBulk scores many rows in one round trip; the result order
// matches the input order.
func (c *Client) PredictBulk(ctx context.Context, rows []Features) ([]float64, error) {
	var out bulkResponse
	if err := c.post(ctx, "/predict/bulk", bulkRequest{Rows: rows}, &out); err != nil {
		return nil, err
	}
	if len(out.Predictions) != len(rows) {
		return nil, ErrPredictionFailed
	}
	return out.Predictions, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("prediction service responded %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
