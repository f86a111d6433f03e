package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"sportspace-admin/internal/model"
	"sportspace-admin/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "User not found"
	case errors.Is(err, model.ErrEmailTaken):
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "Email already registered"
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		body.Code = "INVALID_CREDENTIALS"
		body.Message = "Invalid email or password"
	case errors.Is(err, model.ErrUnauthorized):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Authentication required"
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Access denied"
	case errors.Is(err, model.ErrTokenNotFound), errors.Is(err, model.ErrTokenExpired):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Invalid or expired token"
	case errors.Is(err, model.ErrSpaceNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Sport space not found"
	case errors.Is(err, model.ErrSportNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Sport not found"
	case errors.Is(err, model.ErrSpaceInactive):
		status = http.StatusConflict
		body.Code = "SPACE_INACTIVE"
		body.Message = "Sport space is inactive"
	case errors.Is(err, model.ErrBookingNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Booking not found"
	case errors.Is(err, model.ErrBookingOverlap):
		status = http.StatusConflict
		body.Code = "CONFLICT"
		body.Message = "Booking overlaps an existing booking"
	case errors.Is(err, model.ErrOutsideSchedule):
		status = http.StatusConflict
		body.Code = "OUTSIDE_SCHEDULE"
		body.Message = "Booking is outside the space schedule"
	case errors.Is(err, model.ErrInvalidTimeWindow):
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid time window"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}
