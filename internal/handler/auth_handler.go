package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"sportspace-admin/internal/metrics"
	"sportspace-admin/internal/middleware"
	"sportspace-admin/internal/model"
	"sportspace-admin/internal/service"
	"sportspace-admin/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
	metrics *metrics.Registry
}

func NewAuthHandler(service *service.AuthService, metrics *metrics.Registry) *AuthHandler {
	return &AuthHandler{service: service, metrics: metrics}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	auth, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		h.countLogin("failure")
		writeError(w, err)
		return
	}

	h.countLogin("success")
	writeSuccess(w, http.StatusOK, auth, nil)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	payload.RefreshToken = strings.TrimSpace(payload.RefreshToken)
	if payload.RefreshToken == "" {
		writeError(w, apierror.BadRequest("refresh_token is required", "refresh_token"))
		return
	}

	auth, err := h.service.Refresh(r.Context(), payload.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, auth, nil)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RefreshRequest
	// A missing or invalid body still logs out; there is nothing to revoke.
	_ = json.NewDecoder(r.Body).Decode(&payload)

	if err := h.service.Logout(r.Context(), strings.TrimSpace(payload.RefreshToken)); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"logged_out": true}, nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	user, err := h.service.CurrentUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *AuthHandler) countLogin(outcome string) {
	if h.metrics != nil {
		h.metrics.LoginsTotal.WithLabelValues(outcome).Inc()
	}
}
