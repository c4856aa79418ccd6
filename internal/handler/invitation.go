// internal/handler/invitation.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jerent/carfleet/internal/collection"
	"github.com/jerent/carfleet/internal/middleware"
	"github.com/jerent/carfleet/internal/model"
)

// InvitationHandler issues signup invitations. The token is generated
// server-side; the caller only supplies the email address.
type InvitationHandler struct {
	ctrl     *collection.Controller[model.Invitation]
	validate *validator.Validate
}

func NewInvitationHandler(ctrl *collection.Controller[model.Invitation], validate *validator.Validate) *InvitationHandler {
	return &InvitationHandler{ctrl: ctrl, validate: validate}
}

type InviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type InviteResponse struct {
	BaseResponse
	Invitation model.Invitation `json:"invitation"`
}

func (h *InvitationHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := h.ctrl.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Listing invitations failed", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ListResponse[model.Invitation]{
		BaseResponse: BaseResponse{Ok: true},
		Rows:         rows,
	})
}

func (h *InvitationHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	invitation := model.Invitation{
		Token: uuid.New(),
		Email: req.Email,
	}

	created, err := h.ctrl.Add(r.Context(), actor, invitation)
	if err != nil {
		slog.ErrorContext(r.Context(), "Creating invitation failed", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, InviteResponse{
		BaseResponse: BaseResponse{Ok: true},
		Invitation:   created,
	})
}
