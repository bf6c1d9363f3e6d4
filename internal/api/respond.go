package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"ms-bus-booking/internal/domain"
	"ms-bus-booking/internal/utils"
)

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidState, domain.KindConflict:
		return http.StatusConflict
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, resp utils.APIResponse) {
	resp.RequestID = middleware.GetReqID(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Logger.Error("API", fmt.Sprintf("failed to encode response: %v", err))
	}
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) {
	h.writeJSON(w, r, status, utils.SuccessResponse(message, data))
}

// respondError maps a domain error to its status. Internal details stay in the log.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind)

	message := err.Error()
	if kind == domain.KindInternal {
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
		message = "internal error"
	} else {
		h.Logger.Warn("API", fmt.Sprintf("%s: %v", op, err))
	}

	h.writeJSON(w, r, status, utils.ErrorResponse(op+" failed", string(kind), message))
}

// decode reads a JSON body into dst; malformed input is a ValidationError.
func decode(r *http.Request, dst interface{}) error {
	return decodeBody(r, dst, false)
}

// decodeOptional is decode for endpoints whose body may be empty.
func decodeOptional(r *http.Request, dst interface{}) error {
	return decodeBody(r, dst, true)
}

func decodeBody(r *http.Request, dst interface{}, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		if optional {
			return nil
		}
		return domain.Validation("body", "request body is required")
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.Validation(typeErr.Field, "must be a %s", typeErr.Type)
	}
	return domain.Validation("body", "invalid JSON: %v", err)
}
