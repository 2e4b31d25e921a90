package jsonrpcx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const Version = "2.0"

// Request represents a JSON-RPC 2.0 request
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

// Response represents a JSON-RPC 2.0 response
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      any    `json:"id,omitempty"`
}

// Error represents a JSON-RPC 2.0 error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Notification is a server-initiated message without an id, pushed over SSE
type Notification struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// JSON-RPC 2.0 error codes
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603

	// Application codes
	Unauthorized     = -32001
	LecturerNotFound = -32004
)

var ErrInvalidVersion = errors.New("jsonrpc version must be 2.0")

type contextKey string

const (
	errorContextKey contextKey = "jsonrpc_error"
	errorSlotKey    contextKey = "jsonrpc_error_slot"
)

// errorSlot lets WithError reach middleware whose request pointer was
// replaced further down the chain
type errorSlot struct {
	response *Response
}

// NewErrorContext returns ctx carrying a slot that WithError fills in
func NewErrorContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, errorSlotKey, &errorSlot{})
}

// NewNotification builds a notification for method
func NewNotification(method string, params any) Notification {
	return Notification{JSONRPC: Version, Method: method, Params: params}
}

// ParseRequest parses JSON-RPC 2.0 request from HTTP request body
func ParseRequest(r *http.Request) (*Request, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	defer r.Body.Close()

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}

	if req.JSONRPC != Version {
		return nil, ErrInvalidVersion
	}

	return &req, nil
}

// DecodeParams unmarshals the request params into v
func (req *Request) DecodeParams(v any) error {
	if len(req.Params) == 0 {
		return fmt.Errorf("params are required")
	}
	return json.Unmarshal(req.Params, v)
}

// Success sends a successful JSON-RPC 2.0 response
func Success(w http.ResponseWriter, id any, result any) {
	Write(w, Response{
		JSONRPC: Version,
		Result:  result,
		ID:      id,
	})
}

// WithError attaches an error to the request context for the ErrorAdapter
// middleware. The request is overwritten in place so middleware holding the
// same pointer sees it.
func WithError(r *http.Request, id any, code int, message string) {
	response := errorResponse(id, code, message)
	if slot, ok := r.Context().Value(errorSlotKey).(*errorSlot); ok {
		slot.response = response
	}

	ctx := context.WithValue(r.Context(), errorContextKey, response)
	*r = *r.WithContext(ctx)
}

// ErrorFromContext returns the response stored by WithError, if any
func ErrorFromContext(ctx context.Context) (*Response, bool) {
	if resp, ok := ctx.Value(errorContextKey).(*Response); ok {
		return resp, true
	}
	if slot, ok := ctx.Value(errorSlotKey).(*errorSlot); ok && slot.response != nil {
		return slot.response, true
	}
	return nil, false
}

// SendError writes an error response immediately
func SendError(w http.ResponseWriter, id any, code int, message string) {
	Write(w, *errorResponse(id, code, message))
}

func errorResponse(id any, code int, message string) *Response {
	return &Response{
		JSONRPC: Version,
		Error: &Error{
			Code:    code,
			Message: message,
		},
		ID: id,
	}
}

// Write sends a JSON-RPC 2.0 response (always HTTP 200)
func Write(w http.ResponseWriter, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// Encode errors surface in the logging middleware as a short body
	_ = json.NewEncoder(w).Encode(response)
}
