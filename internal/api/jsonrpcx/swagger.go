package jsonrpcx

// Typed envelopes used only by swag annotations

// RequestT is a JSON-RPC request with typed params
type RequestT[T any] struct {
	JSONRPC string `json:"jsonrpc" example:"2.0"`
	Method  string `json:"method" example:"lecturer.Get"`
	Params  T      `json:"params"`
	ID      any    `json:"id" example:"1"`
}

// ResponseT is a successful JSON-RPC response with a typed result
type ResponseT[T any] struct {
	JSONRPC string `json:"jsonrpc" example:"2.0"`
	Result  T      `json:"result"`
	ID      any    `json:"id" example:"1"`
}

// ErrorResponse is a JSON-RPC error response
type ErrorResponse struct {
	JSONRPC string `json:"jsonrpc" example:"2.0"`
	Error   Error  `json:"error"`
	ID      any    `json:"id" example:"1"`
}
