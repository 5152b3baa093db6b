package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"estoque/internal/app"
	"estoque/internal/core"
	"estoque/internal/remote"
	"estoque/internal/session"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	body       any
	headers    map[string]string
}

func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Write sends the built response. A 204 carries no body.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.statusCode == http.StatusNoContent || b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if err := json.NewEncoder(w).Encode(b.body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// ErrorResponse creates a standard error response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Body(errorBody{Error: message})
}

func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func InternalServerError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// ErrorFor maps a domain error to its HTTP response.
func ErrorFor(err error) *JSONResponseBuilder {
	var (
		ve *core.ValidationError
		fe *remote.FetchError
	)
	switch {
	case errors.As(err, &ve):
		return NewJSONResponse().Status(http.StatusUnprocessableEntity).Body(errorBody{Error: ve.Message, Field: ve.Field})
	case errors.Is(err, core.ErrNotFound):
		return NotFoundError("not found")
	case errors.Is(err, core.ErrDuplicateID):
		return ErrorResponse(http.StatusConflict, "an item with this id already exists")
	case errors.Is(err, core.ErrInvalidIndex):
		return ErrorResponse(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, app.ErrStale):
		return ErrorResponse(http.StatusServiceUnavailable, "request superseded, try again").Header("Retry-After", "1")
	case errors.Is(err, session.ErrTokenExpired):
		return ErrorResponse(http.StatusUnauthorized, "session expired")
	case errors.As(err, &fe):
		if fe.Status == http.StatusUnauthorized {
			return ErrorResponse(http.StatusUnauthorized, "remote API rejected the session token")
		}
		return ErrorResponse(http.StatusBadGateway, "remote API unavailable")
	default:
		return InternalServerError("internal error")
	}
}
