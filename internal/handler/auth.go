// internal/handler/auth.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	chmw "github.com/go-chi/chi/v5/middleware"

	"github.com/jerent/carfleet/internal/domain"
	"github.com/jerent/carfleet/internal/middleware"
	"github.com/jerent/carfleet/internal/model"
	"github.com/jerent/carfleet/internal/service"
)

type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

type SignupResponse struct {
	BaseResponse
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (h *AuthHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var input service.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	output, err := h.userService.Signup(r.Context(), input)
	if err != nil {
		slog.ErrorContext(r.Context(), "User registration error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			respondWithError(w, http.StatusConflict, "Email already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			respondWithDomainError(w, err)
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, SignupResponse{
		BaseResponse: BaseResponse{Ok: true},
		User:         output.User,
		Token:        output.Token,
	})
}

func (h *AuthHandler) ConfirmHandler(w http.ResponseWriter, r *http.Request) {
	var input service.ConfirmInput

	query := r.URL.Query()
	input.Code = query.Get("code")
	input.UserID = query.Get("user")

	if err := h.userService.ConfirmEmail(r.Context(), input); err != nil {
		slog.ErrorContext(r.Context(), "User confirmation error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, domain.ErrInvalidConfirmationCode):
			respondWithError(w, http.StatusBadRequest, "Invalid confirmation code")
		case errors.Is(err, domain.ErrAlreadyConfirmed):
			respondWithError(w, http.StatusBadRequest, "User already confirmed")
		default:
			respondWithDomainError(w, err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Email confirmed successfully"})
}

type LoginResponse struct {
	BaseResponse
	User  *model.User `json:"user,omitempty"`
	Token string      `json:"token,omitempty"`
	Error string      `json:"error,omitempty"`
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	output, err := h.userService.Login(r.Context(), input)
	if err != nil {
		slog.ErrorContext(r.Context(), "User login error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			respondWithJSON(w, http.StatusUnauthorized, LoginResponse{
				Error: "Invalid email or password",
			})
		default:
			respondWithDomainError(w, err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, LoginResponse{
		BaseResponse: BaseResponse{Ok: true},
		User:         output.User,
		Token:        output.Token,
	})
}

func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.userService.Logout(r.Context(), service.LogoutInput{UserID: userID}); err != nil {
		slog.ErrorContext(r.Context(), "User logout error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithDomainError(w, err)
		return
	}

	expiration := time.Now().Add(-1 * time.Hour)
	http.SetCookie(w, &http.Cookie{Name: "token", Value: "", Expires: expiration})

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "User logged out successfully"})
}
