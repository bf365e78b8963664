package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/crucial707/todo-api/internal/middleware"
	"github.com/crucial707/todo-api/internal/service"
	"github.com/go-chi/chi/v5"
)

var (
	errBodyTooLarge  = errors.New("request body too large")
	errNoData        = service.ValidationError("No data provided", "Request body must be a non-empty JSON object.")
	errNotObject     = service.ValidationError("Invalid JSON", "Request body must be a JSON object.")
	errInvalidJSON   = service.ValidationError("Invalid JSON", "Request body is not valid JSON.")
	errMissingCaller = &service.Error{Kind: service.KindAuth, Code: "Authorization required", Message: "Missing Authorization header."}
)

// readObject reads the body and checks its shape only: it must be a single,
// non-empty JSON object. Member types are left to service.DecodeFields.
func readObject(r *http.Request) (map[string]json.RawMessage, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, errBodyTooLarge
		}
		return nil, errInvalidJSON
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errNoData
	}
	if body[0] != '{' {
		return nil, errNotObject
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, errInvalidJSON
	}
	return fields, nil
}

// decodeObject reads a JSON object body and strictly decodes it into dst.
func decodeObject(r *http.Request, dst any) error {
	fields, err := readObject(r)
	if err != nil {
		return err
	}
	return service.DecodeFields(fields, dst)
}

// todoID parses the {id} URL param. Values that do not fit an int are treated as missing todos.
func todoID(r *http.Request) (int, error) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, service.NotFoundError("Todo " + idStr + " was not found.")
	}
	return id, nil
}

func callerID(r *http.Request) (int, error) {
	id, ok := middleware.GetUserID(r.Context())
	if !ok {
		return 0, errMissingCaller
	}
	return id, nil
}
