// internals/services/predictor/client_test.go
package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	studentModel "edumet_backend/internals/features/school/students/model"
)

func testClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTP: &http.Client{Timeout: 5 * time.Second}}
}

func TestPredictSingle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/predict", r.URL.Path)

		var f Features
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f))
		assert.Equal(t, 91.67, f.AttendancePercentage)
		assert.Equal(t, 12, f.StudyHoursPerWeek)

		json.NewEncoder(w).Encode(map[string]float64{"predicted_final_grade": 82.4})
	}))
	defer srv.Close()

	student := studentModel.StudentModel{
		AttendancePercentage: 91.67,
		StudyHours:           12,
		Rating:               4,
		PrevGrade1:           78.5,
	}
	grade, err := testClient(srv.URL).PredictSingle(context.Background(), FromStudent(&student))
	require.NoError(t, err)
	assert.Equal(t, 82.4, grade)
}

func TestPredictSingleMissingResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).PredictSingle(context.Background(), Features{})
	assert.ErrorIs(t, err, ErrPredictionFailed)
}

func TestPredictBulkOrderAndLengthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/predict/bulk", r.URL.Path)

		var req struct {
			Rows []Features `json:"rows"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Rows, 2)

		json.NewEncoder(w).Encode(map[string][]float64{"predictions": {71.2, 64.9}})
	}))
	defer srv.Close()

	grades, err := testClient(srv.URL).PredictBulk(context.Background(), []Features{
		{AttendancePercentage: 90}, {AttendancePercentage: 60},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{71.2, 64.9}, grades)
}

func TestPredictBulkLengthMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string][]float64{"predictions": {71.2}})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).PredictBulk(context.Background(), []Features{{}, {}})
	assert.ErrorIs(t, err, ErrPredictionFailed)
}

func TestErrorStatusSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).PredictSingle(context.Background(), Features{})
	assert.ErrorContains(t, err, "503")
}
