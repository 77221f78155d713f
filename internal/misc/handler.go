package misc

import (
	"context"
	"net/http"
	"time"

	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const healthCheckTimeout = 2 * time.Second

// Dependency is something the service needs to answer requests, e.g. the
// history database.
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

type Handler struct {
	versionInfo  string
	dependencies []Dependency
}

func NewHandler(versionInfo string, dependencies ...Dependency) *Handler {
	return &Handler{
		versionInfo:  versionInfo,
		dependencies: dependencies,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
	mainRouter.HandleFunc("/health", handler.handleHealth).Methods("GET").Name("health")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

func (handler *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.health")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ok"}
	status := http.StatusOK
	for _, dep := range handler.dependencies {
		if resp.Dependencies == nil {
			resp.Dependencies = make(map[string]string, len(handler.dependencies))
		}
		if err := dep.Ping(ctx); err != nil {
			log.Errorf("health check, %s: %s", dep.Name, err)
			resp.Dependencies[dep.Name] = "down"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			span.SetAttributes(attribute.String("down."+dep.Name, err.Error()))
			continue
		}
		resp.Dependencies[dep.Name] = "ok"
	}

	if status == http.StatusOK {
		span.SetStatus(codes.Ok, "healthy")
	} else {
		span.SetStatus(codes.Error, "degraded")
	}
	pkg.WriteJSON(w, resp, status)
}
