package api

import "encoding/json"

// QueryResponse represents the standard query response format
type QueryResponse struct {
	Data   interface{} `json:"data"`
	Height int64       `json:"height"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

// SubmitRequest carries one message in its JSON form.
type SubmitRequest struct {
	Type string          `json:"type"`
	Msg  json.RawMessage `json:"msg"`
}

// SubmitResponse is returned for a committed message.
type SubmitResponse struct {
	Height   int64           `json:"height"`
	Response interface{}     `json:"response"`
	Events   []EventResponse `json:"events"`
}

type EventResponse struct {
	Height     int64             `json:"height,omitempty"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
