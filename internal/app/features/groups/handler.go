// Package groups exposes read endpoints over consultation groups: group
// detail, the member roster, the pre-session summary handed to the
// clinician, and a clinician's schedule.
package groups

import (
	"encoding/json"
	"net/http"

	groupstore "github.com/dalemusser/triagehub/internal/app/store/groups"
	memberstore "github.com/dalemusser/triagehub/internal/app/store/members"
	questionnairestore "github.com/dalemusser/triagehub/internal/app/store/questionnaires"
	"github.com/dalemusser/triagehub/internal/app/summary"
	"github.com/dalemusser/triagehub/internal/app/system/timeouts"
	"github.com/dalemusser/triagehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler holds dependencies for the group endpoints.
type Handler struct {
	Groups         *groupstore.Store
	Members        *memberstore.Store
	Questionnaires *questionnairestore.Store
	Log            *zap.Logger
}

// NewHandler constructs a groups Handler.
func NewHandler(groups *groupstore.Store, members *memberstore.Store, questionnaires *questionnairestore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Groups:         groups,
		Members:        members,
		Questionnaires: questionnaires,
		Log:            logger,
	}
}

// errorResponse is the JSON structure for failures.
type errorResponse struct {
	Error string `json:"error"`
}

// ServeDetail handles GET /groups/{groupID}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "group detail")
	defer cancel()

	group, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		h.respondLookupError(w, groupID, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// ServeMembers handles GET /groups/{groupID}/members. Members come back in
// session order: highest priority first, earlier arrivals breaking ties.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "group members")
	defer cancel()

	if _, err := h.Groups.GetByID(ctx, groupID); err != nil {
		h.respondLookupError(w, groupID, err)
		return
	}

	members, err := h.Members.ListByGroup(ctx, groupID)
	if err != nil {
		h.Log.Error("failed to list group members",
			zap.String("group_id", groupID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	if members == nil {
		members = []models.GroupMember{}
	}
	writeJSON(w, http.StatusOK, members)
}

// summaryResponse pairs the structured summary with its rendered text form.
type summaryResponse struct {
	Group   models.ConsultationGroup `json:"group"`
	Summary summary.GroupSummary     `json:"summary"`
	Report  string                   `json:"report"`
}

// ServeSummary handles GET /groups/{groupID}/summary: the aggregate view a
// clinician reads before starting the session.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "group summary")
	defer cancel()

	group, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		h.respondLookupError(w, groupID, err)
		return
	}

	members, err := h.Members.ListByGroup(ctx, groupID)
	if err != nil {
		h.Log.Error("failed to list group members",
			zap.String("group_id", groupID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.QuestionnaireID)
	}
	questionnaires, err := h.Questionnaires.GetByIDs(ctx, ids)
	if err != nil {
		h.Log.Error("failed to load questionnaires",
			zap.String("group_id", groupID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	s := summary.Summarize(members, questionnaires)
	writeJSON(w, http.StatusOK, summaryResponse{
		Group:   group,
		Summary: s,
		Report:  s.Report(),
	})
}

// ServeClinicianGroups handles GET /clinicians/{clinicianID}/groups.
func (h *Handler) ServeClinicianGroups(w http.ResponseWriter, r *http.Request) {
	clinicianID := chi.URLParam(r, "clinicianID")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "clinician groups")
	defer cancel()

	groups, err := h.Groups.ListByClinician(ctx, clinicianID)
	if err != nil {
		h.Log.Error("failed to list clinician groups",
			zap.String("clinician_id", clinicianID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	if groups == nil {
		groups = []models.ConsultationGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *Handler) respondLookupError(w http.ResponseWriter, groupID string, err error) {
	if groupstore.IsNotFound(err) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "group not found"})
		return
	}
	h.Log.Error("failed to load group", zap.String("group_id", groupID), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
