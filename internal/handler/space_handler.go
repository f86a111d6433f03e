package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sportspace-admin/internal/middleware"
	"sportspace-admin/internal/model"
	"sportspace-admin/internal/service"
	"sportspace-admin/pkg/apierror"
)

type SpaceHandler struct {
	service      *service.SpaceService
	maxImageSize int64
}

func NewSpaceHandler(service *service.SpaceService, maxImageSize int64) *SpaceHandler {
	if maxImageSize <= 0 {
		maxImageSize = 10 << 20
	}
	return &SpaceHandler{service: service, maxImageSize: maxImageSize}
}

// Create accepts multipart form data with a required "data" JSON part and an
// optional "image" file part.
func (h *SpaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageSize+1<<20)
	if err := r.ParseMultipartForm(h.maxImageSize); err != nil {
		writeError(w, apierror.BadRequest("invalid multipart form", err.Error()))
		return
	}

	var payload model.CreateSpaceRequest
	if err := json.Unmarshal([]byte(r.FormValue("data")), &payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON in data part", ""))
		return
	}

	var image io.Reader
	if file, _, err := r.FormFile("image"); err == nil {
		image = file
		defer file.Close()
	}

	claims, _ := middleware.ClaimsFromContext(r.Context())
	space, err := h.service.Create(r.Context(), payload, image, claims)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, space, nil)
}

func (h *SpaceHandler) List(w http.ResponseWriter, r *http.Request) {
	spaces, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, spaces, nil)
}

func (h *SpaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	space, err := h.service.Get(r.Context(), chi.URLParam(r, "space_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, space, nil)
}

func (h *SpaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.UpdateSpaceRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	claims, _ := middleware.ClaimsFromContext(r.Context())
	space, err := h.service.Update(r.Context(), chi.URLParam(r, "space_id"), payload, claims)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, space, nil)
}

func (h *SpaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "space_id"), claims); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

func (h *SpaceHandler) ReplaceSchedules(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.ReplaceSchedulesRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	spaceID := chi.URLParam(r, "space_id")
	claims, _ := middleware.ClaimsFromContext(r.Context())
	if err := h.service.ReplaceSchedules(r.Context(), spaceID, payload.Schedules, claims); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"space_id": spaceID, "schedules": len(payload.Schedules)}, nil)
}

func (h *SpaceHandler) Image(w http.ResponseWriter, r *http.Request) {
	file, info, err := h.service.OpenImage(r.Context(), chi.URLParam(r, "space_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	http.ServeContent(w, r, info.Name(), info.ModTime(), file)
}

func (h *SpaceHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	file, info, err := h.service.OpenThumbnail(r.Context(), chi.URLParam(r, "space_id"), size)
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	http.ServeContent(w, r, info.Name(), info.ModTime(), file)
}

func (h *SpaceHandler) CreateSport(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateSportRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	sport, err := h.service.CreateSport(r.Context(), payload.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, sport, nil)
}

func (h *SpaceHandler) ListSports(w http.ResponseWriter, r *http.Request) {
	sports, err := h.service.ListSports(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, sports, nil)
}
