package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// DecodeFields strictly decodes the members of a JSON object into dst.
// null values, fields dst does not declare and mistyped values are
// validation errors.
func DecodeFields(fields map[string]json.RawMessage, dst any) error {
	for name, raw := range fields {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return ValidationError("Invalid data type", name+" must not be null.")
		}
	}

	body, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr):
			return ValidationError("Invalid data type", typeMessage(typeErr.Field))
		case strings.HasPrefix(err.Error(), "json: unknown field"):
			return ValidationError("Unknown field", strings.TrimPrefix(err.Error(), "json: ")+".")
		}
		return ValidationError("Invalid JSON", "Request body is not valid JSON.")
	}
	return nil
}

func typeMessage(field string) string {
	switch field {
	case "completed":
		return "completed must be true or false."
	case "":
		return "Request body has a value of the wrong type."
	}
	return field + " must be a string."
}
