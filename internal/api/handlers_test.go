package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/engine"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/risk"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/pkg/logger"
)

func testRouter() http.Handler {
	log := logger.NewNop()
	return NewRouter(NewRiskHandler(engine.New(log), log), log)
}

func postSimulate(t *testing.T, router http.Handler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/risk/simulate", &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestSimulateSuccess(t *testing.T) {
	rec := postSimulate(t, testRouter(), SimulateRequest{
		Mean:        []float64{0.001, -0.002},
		Covariance:  [][]float64{{0.04, 0.01}, {0.01, 0.09}},
		HorizonDays: 5,
		NumPaths:    500,
		Seed:        42,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var report risk.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 500, report.NumPaths)
	assert.Equal(t, 5, report.HorizonDays)
	require.Len(t, report.TailRisks, 2)
	assert.Equal(t, 0.95, report.TailRisks[0].Confidence)
	assert.NotEmpty(t, report.Drawdowns)
}

func TestSimulateDeterministicAcrossRequests(t *testing.T) {
	router := testRouter()
	body := SimulateRequest{
		Mean:        []float64{0},
		Covariance:  [][]float64{{0.01}},
		HorizonDays: 3,
		NumPaths:    100,
		Seed:        7,
	}

	var first, second risk.Report
	require.NoError(t, json.Unmarshal(postSimulate(t, router, body).Body.Bytes(), &first))
	require.NoError(t, json.Unmarshal(postSimulate(t, router, body).Body.Bytes(), &second))

	require.Len(t, second.TailRisks, len(first.TailRisks))
	for i := range first.TailRisks {
		assert.Equal(t, first.TailRisks[i].VaR, second.TailRisks[i].VaR)
		assert.Equal(t, first.TailRisks[i].CVaR, second.TailRisks[i].CVaR)
	}
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestSimulateRegularizationRecoversSingular(t *testing.T) {
	body := SimulateRequest{
		Mean:        []float64{0, 0},
		Covariance:  [][]float64{{0.01, 0.01}, {0.01, 0.01}},
		HorizonDays: 2,
		NumPaths:    50,
		Seed:        1,
	}

	// Singular without the ridge, accepted with it.
	rec := postSimulate(t, testRouter(), body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body.Regularization = 1e-8
	rec = postSimulate(t, testRouter(), body)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSimulateErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{
			name:       "malformed json",
			body:       `{"mean": [0,`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "dimension mismatch",
			body: SimulateRequest{
				Mean:        []float64{0, 0, 0},
				Covariance:  [][]float64{{1, 0}, {0, 1}},
				HorizonDays: 2,
				NumPaths:    10,
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "not positive definite",
			body: SimulateRequest{
				Mean:        []float64{0, 0},
				Covariance:  [][]float64{{1, 2}, {2, 1}},
				HorizonDays: 2,
				NumPaths:    10,
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "invalid config",
			body: SimulateRequest{
				Mean:        []float64{0},
				Covariance:  [][]float64{{1}},
				HorizonDays: 0,
				NumPaths:    10,
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "bad weights length",
			body: SimulateRequest{
				Mean:        []float64{0},
				Covariance:  [][]float64{{1}},
				HorizonDays: 2,
				NumPaths:    10,
				Weights:     []float64{0.5, 0.5},
			},
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postSimulate(t, testRouter(), tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/risk/simulate", nil)
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
