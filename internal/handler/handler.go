// Package handler implements the JSON API handlers for the storefront.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/middleware"
)

// errorBody is the wire shape of every error response.
type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := middleware.GetLogger(r.Context())
		logger.Error("failed to encode response", "error", err, "path", r.URL.Path)
	}
}

// respondError translates a domain error into a JSON error response.
// Validation errors carry their field map so clients can highlight inputs.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	logger := middleware.GetLogger(r.Context())

	if fields := domain.GetValidationFields(err); fields != nil {
		logger.Info("request validation failed", "path", r.URL.Path, "fields", len(fields))
		respondJSON(w, r, http.StatusBadRequest, map[string]errorBody{
			"error": {
				Code:    domain.EINVALID,
				Message: "validation failed",
				Fields:  fields,
			},
		})
		return
	}

	code := domain.ErrorCode(err)
	status := middleware.ErrorCodeToHTTPStatus(code)

	if status >= 500 {
		logger.Error("request failed", "error", err, "op", domain.ErrorOp(err), "path", r.URL.Path)
	} else {
		logger.Info("request rejected", "error", err, "code", code, "path", r.URL.Path)
	}

	respondJSON(w, r, status, map[string]errorBody{
		"error": {
			Code:    code,
			Message: domain.ErrorMessage(err),
		},
	})
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Invalid("handler.decode", "invalid request body")
	}
	return nil
}

// identity pulls the authenticated user's identity out of the request
// context, responding 401 when it is missing.
func identity(w http.ResponseWriter, r *http.Request, op string) (string, bool) {
	id, err := domain.IdentityFromContext(r.Context(), op)
	if err != nil {
		respondError(w, r, err)
		return "", false
	}
	return id, true
}
