// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/dalemusser/triagehub/internal/app/admission"
	groupsfeature "github.com/dalemusser/triagehub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/triagehub/internal/app/features/health"
	intakefeature "github.com/dalemusser/triagehub/internal/app/features/intake"
	"github.com/dalemusser/triagehub/internal/app/store"
	"github.com/dalemusser/triagehub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. TriageHub wires the Mongo-backed
// admission gateway into the engine and mounts the three JSON feature
// routers: health, intake, and groups.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	gateway := store.NewGateway(deps.TriageHubMongoDatabase, logger)
	engine := admission.NewEngine(gateway, admission.Config{
		Window:          appCfg.AdmissionWindow,
		ScheduleOffset:  appCfg.ScheduleOffset,
		DefaultCapacity: appCfg.GroupCapacity,
	}, logger)

	healthHandler := healthfeature.NewHandler(deps.TriageHubMongoClient, logger)
	intakeHandler := intakefeature.NewHandler(engine, clinicianRoster, logger)
	groupsHandler := groupsfeature.NewHandler(
		gateway.Groups, gateway.Members, gateway.Questionnaires, logger)

	var intakeRoutes http.Handler = intakefeature.Routes(intakeHandler)
	if appCfg.IntakeRateLimit > 0 {
		limiter := ratelimit.New(appCfg.IntakeRateLimit, time.Minute)
		intakeRoutes = limiter.Middleware(intakeRoutes)
	}

	r := chi.NewRouter()
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Mount("/intake", intakeRoutes)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler))
	r.Mount("/clinicians", groupsfeature.ClinicianRoutes(groupsHandler))

	return r, nil
}
