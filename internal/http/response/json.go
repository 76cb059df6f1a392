package response

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/zeroverload/SmartLib/internal/http/request"
	"github.com/zeroverload/SmartLib/internal/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const contentTypeHeader = `application/json`

// OK creates a new JSON response with a 200 status code.
func OK(w http.ResponseWriter, r *http.Request, body interface{}) {
	writeJSON(w, r, http.StatusOK, toJSON(body))
}

// Created sends a created response to the client.
func Created(w http.ResponseWriter, r *http.Request, body interface{}) {
	writeJSON(w, r, http.StatusCreated, toJSON(body))
}

// NoContent sends a no content response to the client.
func NoContent(w http.ResponseWriter, r *http.Request) {
	builder := New(w, r)
	builder.WithStatus(http.StatusNoContent)
	builder.Write()
}

// ServerError sends an internal error to the client.
func ServerError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, http.StatusInternalServerError, err)
}

// BadRequest sends a bad request error to the client.
func BadRequest(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, http.StatusBadRequest, err)
}

// Unauthorized sends a not authorized error to the client. A nil err sends a generic message.
func Unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		err = errors.New("access unauthorized")
	}
	writeError(w, r, http.StatusUnauthorized, err)
}

// Forbidden sends a forbidden error to the client. A nil err sends a generic message.
func Forbidden(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		err = errors.New("access forbidden")
	}
	writeError(w, r, http.StatusForbidden, err)
}

// NotFound sends a not found error to the client. A nil err sends a generic message.
func NotFound(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		err = errors.New("resource not found")
	}
	writeError(w, r, http.StatusNotFound, err)
}

// Conflict reports a request that clashes with the current state of a loan,
// reservation or account.
func Conflict(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, http.StatusConflict, err)
}

// writeError logs err and sends it as {"error_message": ...}. Server errors
// are logged at error level, client errors at warn level.
func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("client_ip", request.FindClientIP(r)),
		zap.String("request.method", r.Method),
		zap.String("request.uri", r.RequestURI),
		zap.String("request.user_agent", r.UserAgent()),
		zap.Int("response.status_code", status),
	}
	if status >= http.StatusInternalServerError {
		log.Error(http.StatusText(status), fields...)
	} else {
		log.Warn(http.StatusText(status), fields...)
	}

	writeJSON(w, r, status, toJSONError(err))
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body []byte) {
	builder := New(w, r)
	builder.WithStatus(status)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.WithBody(body)
	builder.Write()
}

func toJSONError(err error) []byte {
	type errorMsg struct {
		ErrorMessage string `json:"error_message"`
	}

	return toJSON(errorMsg{ErrorMessage: err.Error()})
}

func toJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error("Unable to marshal JSON response", zap.Error(err))
		return []byte("")
	}

	return b
}
