package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/contracts"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/engine"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/simulation"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/pkg/logger"
)

// RiskHandler serves simulation requests.
type RiskHandler struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewRiskHandler creates a RiskHandler.
func NewRiskHandler(eng *engine.Engine, log *logger.Logger) *RiskHandler {
	return &RiskHandler{engine: eng, logger: log}
}

// SimulateRequest is the JSON body of POST /api/v1/risk/simulate.
type SimulateRequest struct {
	Mean       []float64   `json:"mean"`
	Covariance [][]float64 `json:"covariance"`
	// Regularization is the optional explicit ridge added to the
	// covariance diagonal before factorization.
	Regularization float64 `json:"regularization,omitempty"`

	HorizonDays int    `json:"horizon_days"`
	NumPaths    int    `json:"n_paths"`
	Seed        uint64 `json:"seed,omitempty"`

	Weights      []float64 `json:"weights,omitempty"`
	InitialValue float64   `json:"initial_value,omitempty"`
	Confidences  []float64 `json:"confidences,omitempty"`
}

// Simulate runs the full pipeline for statistics supplied in the request
// body and returns the risk report.
func (h *RiskHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body: "+err.Error())
		return
	}

	var opts []simulation.Option
	if req.Regularization != 0 {
		opts = append(opts, simulation.WithRegularization(req.Regularization))
	}

	stats, err := simulation.NewReturnStatistics(req.Mean, req.Covariance, opts...)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	result, err := h.engine.Run(engine.Request{
		Stats: stats,
		Config: simulation.Config{
			HorizonDays: req.HorizonDays,
			NumPaths:    req.NumPaths,
			Seed:        req.Seed,
		},
		Weights:      req.Weights,
		InitialValue: req.InitialValue,
		Confidences:  req.Confidences,
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result.Report); err != nil {
		h.logger.WithErr(err).Error("Encode report response")
	}
}

// statusFor maps the pipeline error taxonomy to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, contracts.ErrNumerical):
		return http.StatusUnprocessableEntity
	case errors.Is(err, contracts.ErrInvalidInput),
		errors.Is(err, contracts.ErrInvalidConfig),
		errors.Is(err, contracts.ErrDimensionMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
