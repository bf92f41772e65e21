// internal/app/features/intake/routes.go
package intake

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter that serves the intake endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeAdmit) // this will be mounted under /intake
	return r
}
