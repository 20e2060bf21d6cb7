package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nhle/todolist/internal/model"
)

// ErrMalformed marks a persisted session record that cannot be used.
var ErrMalformed = errors.New("malformed session record")

const userSchemaJSON = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["id", "email", "name"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"email": {"type": "string"},
		"name": {"type": "string"},
		"is_admin": {"type": "boolean"},
		"createdAt": {"type": "string"}
	}
}`

var userSchema = jsonschema.MustCompileString("session-user.schema.json", userSchemaJSON)

// encodeUser serializes u for storage.
func encodeUser(u model.User) (string, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("encoding session record: %w", err)
	}
	return string(data), nil
}

// decodeUser parses and validates a stored record. Every failure wraps
// ErrMalformed.
func decodeUser(raw string) (model.User, error) {
	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := userSchema.Validate(doc); err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return u, nil
}
