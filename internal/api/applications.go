package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/resumetry/backend/internal/model"
)

const maxRequestBodySize = 1 << 20 // 1MB

func handleCreateApplication(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var payload model.NewApplication
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}

		payload.ApplyDefaults(model.Today())
		if err := payload.Validate(); err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		app, err := deps.Store.Create(r.Context(), payload)
		if err != nil {
			slog.Error("create application failed", "error", err)
			httpError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusCreated, app)
	}
}

func handleListApplications(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apps, err := deps.Store.List(r.Context())
		if err != nil {
			slog.Error("list applications failed", "error", err)
			httpError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, apps)
	}
}

func handleGetApplication(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		app, err := deps.Store.Get(r.Context(), id)
		if err != nil {
			slog.Error("get application failed", "id", id, "error", err)
			httpError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if app == nil {
			httpError(w, http.StatusNotFound, "Application %s not found", id)
			return
		}
		writeJSON(w, http.StatusOK, app)
	}
}

func handleUpdateApplication(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var patch model.Patch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}
		if err := patch.Validate(); err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		app, err := deps.Store.Update(r.Context(), id, patch)
		if err != nil {
			slog.Error("update application failed", "id", id, "error", err)
			httpError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if app == nil {
			httpError(w, http.StatusNotFound, "Application %s not found", id)
			return
		}
		writeJSON(w, http.StatusOK, app)
	}
}

func handleDeleteApplication(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		existed, err := deps.Store.Delete(r.Context(), id)
		if err != nil {
			slog.Error("delete application failed", "id", id, "error", err)
			httpError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if !existed {
			httpError(w, http.StatusNotFound, "Application %s not found", id)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
