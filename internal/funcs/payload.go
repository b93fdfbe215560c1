package funcs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// RegisterRequest is the new-function input.
type RegisterRequest struct {
	Args []string `json:"args"`
	Body string   `json:"body"`
}

// RegisterResponse is the new-function output.
type RegisterResponse struct {
	FunctionID string `json:"functionId"`
	Source     string `json:"source"`
}

// ExecuteRequest is the execute input. FunctionID and Source are both
// optional but at least one is required.
type ExecuteRequest struct {
	FunctionID string `json:"functionId,omitempty"`
	Args       []any  `json:"args,omitempty"`
	Source     string `json:"source,omitempty"`
}

// ExecuteResponse is the execute output. Result is null for a function that
// returns nothing.
type ExecuteResponse struct {
	Result any `json:"result"`
}

// ReadPayload reads all of r and parses it as one JSON document.
func ReadPayload(r io.Reader) (json.RawMessage, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	b = bytes.TrimSpace(b)
	var raw json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, invalidInput(err.Error())
	}
	return raw, nil
}

// Decode unmarshals a parsed payload into a request value.
func Decode(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return invalidInput(err.Error())
	}
	return nil
}

// WriteResponse encodes v as a single line of JSON.
func WriteResponse(w io.Writer, v any) error {
	return writeLine(w, v)
}
