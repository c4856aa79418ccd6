// internal/handler/profile.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	chmw "github.com/go-chi/chi/v5/middleware"

	"github.com/jerent/carfleet/internal/middleware"
	"github.com/jerent/carfleet/internal/model"
	"github.com/jerent/carfleet/internal/service"
)

type ProfileHandler struct {
	userService *service.UserService
}

func NewProfileHandler(userService *service.UserService) *ProfileHandler {
	return &ProfileHandler{userService: userService}
}

type ProfileResponse struct {
	BaseResponse
	User *model.User `json:"user"`
}

func (h *ProfileHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.userService.Profile(r.Context(), userID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ProfileResponse{
		BaseResponse: BaseResponse{Ok: true},
		User:         user,
	})
}

func (h *ProfileHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	user, err := h.userService.UpdateProfile(r.Context(), userID, fields)
	if err != nil {
		slog.ErrorContext(r.Context(), "Profile update error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ProfileResponse{
		BaseResponse: BaseResponse{Ok: true},
		User:         user,
	})
}
