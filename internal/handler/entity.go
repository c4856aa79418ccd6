// internal/handler/entity.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jerent/carfleet/internal/collection"
	"github.com/jerent/carfleet/internal/middleware"
)

// EntityHandler exposes one entity collection over HTTP. Every entity page
// shares the same shape: list, fetch, create through a form session, partial
// update, and confirmed delete. Each request operates on the acting user's
// organization collection only.
type EntityHandler[T any] struct {
	name     string
	hub      *collection.Hub[T]
	validate *validator.Validate
}

func NewEntityHandler[T any](name string, hub *collection.Hub[T], validate *validator.Validate) *EntityHandler[T] {
	return &EntityHandler[T]{name: name, hub: hub, validate: validate}
}

// Mount registers the CRUD routes on the router.
func (h *EntityHandler[T]) Mount(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// controller resolves the acting user's organization controller. A false
// return means a response has already been written.
func (h *EntityHandler[T]) controller(w http.ResponseWriter, r *http.Request) (*collection.Controller[T], uuid.UUID, bool) {
	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return nil, uuid.Nil, false
	}

	ctrl, err := h.hub.For(r.Context(), actor)
	if err != nil {
		slog.ErrorContext(r.Context(), "Resolving collection failed", "collection", h.name, "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithDomainError(w, err)
		return nil, uuid.Nil, false
	}
	return ctrl, actor, true
}

type ListResponse[T any] struct {
	BaseResponse
	Rows []T `json:"rows"`
}

func (h *EntityHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	ctrl, _, ok := h.controller(w, r)
	if !ok {
		return
	}

	rows, err := ctrl.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Listing collection failed", "collection", h.name, "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ListResponse[T]{
		BaseResponse: BaseResponse{Ok: true},
		Rows:         rows,
	})
}

type RowResponse[T any] struct {
	BaseResponse
	Row T `json:"row"`
}

func (h *EntityHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	ctrl, _, ok := h.controller(w, r)
	if !ok {
		return
	}

	row, err := ctrl.Get(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, RowResponse[T]{
		BaseResponse: BaseResponse{Ok: true},
		Row:          row,
	})
}

func (h *EntityHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	ctrl, actor, ok := h.controller(w, r)
	if !ok {
		return
	}

	var rec T
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	form := collection.NewFormSession(ctrl, h.validate)
	form.SetDraft(rec)

	row, err := form.Submit(r.Context(), actor)
	if err != nil {
		slog.ErrorContext(r.Context(), "Creating record failed", "collection", h.name, "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, RowResponse[T]{
		BaseResponse: BaseResponse{Ok: true},
		Row:          row,
	})
}

func (h *EntityHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	ctrl, actor, ok := h.controller(w, r)
	if !ok {
		return
	}

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	existing, err := ctrl.Get(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	form := collection.NewFormSession(ctrl, h.validate)
	form.SeedFrom(existing, id, patch)

	row, err := form.Submit(r.Context(), actor)
	if err != nil {
		slog.ErrorContext(r.Context(), "Updating record failed", "collection", h.name, "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, RowResponse[T]{
		BaseResponse: BaseResponse{Ok: true},
		Row:          row,
	})
}

func (h *EntityHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	ctrl, _, ok := h.controller(w, r)
	if !ok {
		return
	}

	confirmed := r.URL.Query().Get("confirm") == "true"
	if err := ctrl.Remove(r.Context(), id, confirmed); err != nil {
		slog.ErrorContext(r.Context(), "Deleting record failed", "collection", h.name, "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, BaseResponse{Ok: true})
}
