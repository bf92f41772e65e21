// internal/app/features/groups/routes.go
package groups

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the group endpoints.
func Routes(h *Handler) chi.Router {
	// These are mounted under /groups.
	r := chi.NewRouter()
	r.Get("/{groupID}", h.ServeDetail)
	r.Get("/{groupID}/members", h.ServeMembers)
	r.Get("/{groupID}/summary", h.ServeSummary)
	return r
}

// ClinicianRoutes returns a subrouter for the clinician-facing endpoints.
func ClinicianRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{clinicianID}/groups", h.ServeClinicianGroups) // mounted under /clinicians
	return r
}
