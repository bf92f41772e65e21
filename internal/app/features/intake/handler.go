// Package intake exposes the questionnaire intake endpoint. A completed
// questionnaire comes in as JSON, runs through the admission pipeline, and
// the assigned group comes back out.
package intake

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/triagehub/internal/app/admission"
	"github.com/dalemusser/triagehub/internal/app/roster"
	"github.com/dalemusser/triagehub/internal/app/system/timeouts"
	"github.com/dalemusser/triagehub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler holds dependencies for the intake endpoint.
type Handler struct {
	Engine *admission.Engine
	Roster []models.Clinician
	Log    *zap.Logger
}

// NewHandler constructs an intake Handler.
func NewHandler(engine *admission.Engine, clinicians []models.Clinician, logger *zap.Logger) *Handler {
	return &Handler{
		Engine: engine,
		Roster: clinicians,
		Log:    logger,
	}
}

// intakeRequest is the JSON body for POST /intake.
type intakeRequest struct {
	PatientID         string                         `json:"patient_id"`
	MainSymptoms      string                         `json:"main_symptoms"`
	Severity          string                         `json:"severity"`
	Duration          string                         `json:"duration"`
	Medications       string                         `json:"medications,omitempty"`
	Allergies         string                         `json:"allergies,omitempty"`
	PreviousTreatment string                         `json:"previous_treatment,omitempty"`
	Notes             string                         `json:"notes,omitempty"`
	Responses         []models.QuestionnaireResponse `json:"responses,omitempty"`
}

// errorResponse is the JSON structure for intake failures.
type errorResponse struct {
	Error string `json:"error"`
}

// ServeAdmit handles POST /intake.
//
// On success: 200 and the admission result (group, member, category,
// priority, clinician). A patient already in the assigned group gets the
// same group back rather than an error.
func (h *Handler) ServeAdmit(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req intakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.PatientID) == "" {
		writeError(w, http.StatusBadRequest, "patient_id is required")
		return
	}
	if strings.TrimSpace(req.MainSymptoms) == "" {
		writeError(w, http.StatusBadRequest, "main_symptoms is required")
		return
	}

	report := models.QuestionnaireReport{
		PatientID:         req.PatientID,
		MainSymptoms:      req.MainSymptoms,
		Severity:          req.Severity,
		Duration:          req.Duration,
		Medications:       req.Medications,
		Allergies:         req.Allergies,
		PreviousTreatment: req.PreviousTreatment,
		Notes:             req.Notes,
		Responses:         req.Responses,
		GeneratedAt:       time.Now().UTC(),
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "intake admission")
	defer cancel()

	result, err := h.Engine.Admit(ctx, report, h.Roster, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, roster.ErrNoCliniciansAvailable):
			h.Log.Error("intake: no clinicians on roster", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "no clinicians available")
		default:
			h.Log.Error("intake: admission failed",
				zap.String("patient_id", req.PatientID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "admission failed")
		}
		return
	}

	h.Log.Info("intake: patient admitted",
		zap.String("patient_id", req.PatientID),
		zap.String("group_id", result.Group.ID),
		zap.String("category", string(result.Category)),
		zap.Int("priority", result.Priority))

	_ = json.NewEncoder(w).Encode(result)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}
