package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/resumetry/backend/internal/model"
)

const serviceName = "resumetry-api"

// ApplicationStore is the repository surface the handlers call.
// A nil record with a nil error means "no such record".
type ApplicationStore interface {
	Create(ctx context.Context, n model.NewApplication) (*model.Application, error)
	Get(ctx context.Context, id string) (*model.Application, error)
	List(ctx context.Context) ([]model.Application, error)
	Update(ctx context.Context, id string, p model.Patch) (*model.Application, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type Deps struct {
	Store       ApplicationStore
	Version     string
	CORSOrigins []string
}

// NewRouter builds the HTTP surface: the application CRUD routes under
// /api/v1, a ping route, and a health probe.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/health", handleHealth)
	r.Get("/api/v1/ping", handlePing(deps.Version))

	r.Route("/api/v1/applications", func(r chi.Router) {
		r.Post("/", handleCreateApplication(deps))
		r.Get("/", handleListApplications(deps))
		r.Get("/{id}", handleGetApplication(deps))
		r.Patch("/{id}", handleUpdateApplication(deps))
		r.Delete("/{id}", handleDeleteApplication(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
	})
}

func handlePing(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "pong",
			"version": version,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// httpError writes the {"detail": ...} error payload. Internal store
// detail never leaks through here; 500s carry a generic message.
func httpError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]string{
		"detail": fmt.Sprintf(format, args...),
	})
}
