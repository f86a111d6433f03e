package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sportspace-admin/internal/middleware"
	"sportspace-admin/internal/model"
	"sportspace-admin/internal/service"
	"sportspace-admin/pkg/apierror"
)

type BookingHandler struct {
	service *service.BookingService
}

func NewBookingHandler(service *service.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	claims, _ := middleware.ClaimsFromContext(r.Context())
	booking, err := h.service.Create(r.Context(), payload, claims)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, booking, nil)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, bookings, nil)
}

func (h *BookingHandler) ListByCreator(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListByCreator(r.Context(), chi.URLParam(r, "creator_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, bookings, nil)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "booking_id"), claims); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}
