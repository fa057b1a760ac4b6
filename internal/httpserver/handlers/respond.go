package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/webmark/internal/domain"
	"github.com/MrSnakeDoc/webmark/internal/hierarchy"
	"github.com/MrSnakeDoc/webmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/webmark/internal/httpserver/mw"
	"github.com/MrSnakeDoc/webmark/internal/logger"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

const msgInternal = "internal server error"

// envelope is the response shape shared by every API route:
// {success, message?, ...payload}.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, message string, payload envelope) {
	body := envelope{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, status, body)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"success": false, "message": message})
}

// statusFor maps a failure kind to its HTTP status.
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuthorization:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// render writes a hierarchy Result. payload is only called on success.
func render[T any](w http.ResponseWriter, r *http.Request, d deps.Deps, op string, okStatus int, res hierarchy.Result[T], err error, payload func(T) envelope) {
	if d.Metrics != nil {
		kind := res.Kind
		if err != nil {
			kind = domain.KindInfrastructure
		}
		d.Metrics.ObserveOperation(op, kind)
	}

	if err != nil {
		d.Logger.Error("operation failed",
			logger.String("operation", op),
			logger.String("request_id", middleware.GetReqID(r.Context())),
			logger.Error(err))
		writeFailure(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if !res.Success {
		writeFailure(w, statusFor(res.Kind), res.Message)
		return
	}

	var body envelope
	if payload != nil {
		body = payload(res.Data)
	}
	writeSuccess(w, okStatus, res.Message, body)
}

// decode reads a JSON body into v. It writes a 400 and returns false on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		msg := "invalid JSON body"
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			msg = "request body is required"
		case errors.As(err, &tooLarge):
			msg = "request body too large"
		}
		writeFailure(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}

// userID returns the caller set by mw.RequireToken. Routes without the
// middleware get a 401.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := mw.UserID(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "missing token")
	}
	return id, ok
}
