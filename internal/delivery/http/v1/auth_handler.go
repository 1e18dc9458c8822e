package v1

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sunushop-backend/internal/domain"
	"sunushop-backend/internal/usecase"
	"sunushop-backend/pkg/utils"
)

type authService interface {
	Register(ctx context.Context, req usecase.RegisterRequest) (*usecase.AuthResult, error)
	Login(ctx context.Context, req usecase.LoginRequest) (*usecase.AuthResult, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetAllUsers(ctx context.Context, limit, offset int) ([]*domain.User, int64, error)
}

type AuthHandler struct {
	auth         authService
	secureCookie bool
}

func NewAuthHandler(uc authService, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: uc, secureCookie: secureCookie}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req usecase.RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	res, err := h.auth.Register(r.Context(), req)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	h.setTokenCookie(w, res.AccessToken, res.ExpiresAt)
	utils.WriteJSON(w, http.StatusCreated, res)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req usecase.LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	slog.Info("Handler: Login", "userId", res.User.ID)
	h.setTokenCookie(w, res.AccessToken, res.ExpiresAt)
	utils.WriteJSON(w, http.StatusOK, res)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     utils.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := currentUser(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	user, err := h.auth.GetUserByID(r.Context(), claims.ID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := max(queryInt(r, "page", 1), 1)
	limit := queryInt(r, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	users, total, err := h.auth.GetAllUsers(r.Context(), limit, (page-1)*limit)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"data":       users,
		"pagination": domain.NewPagination(page, limit, total),
	})
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     utils.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
