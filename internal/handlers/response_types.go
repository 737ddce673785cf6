package handlers

import (
	"encoding/json"

	"github.com/xpanvictor/callpad/internal/call"
	"github.com/xpanvictor/callpad/internal/tools/orders"
)

// Response wrapper types for Swagger documentation

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Something went wrong"`
	Details string `json:"details,omitempty" example:"vapi error (status 400): assistantId must be a UUID"`
}

// CallStatusResponse represents the page state after an action
type CallStatusResponse struct {
	Message string      `json:"message,omitempty" example:"Call started"`
	Status  call.Status `json:"status"`
}

// ToolCallRequest is the envelope the voice service posts when the
// assistant invokes a server tool.
type ToolCallRequest struct {
	Message struct {
		Type      string     `json:"type,omitempty" example:"tool-calls"`
		ToolCalls []ToolCall `json:"toolCalls"`
	} `json:"message"`
}

type ToolCall struct {
	ID       string `json:"id" example:"call_abc123"`
	Function struct {
		Name      string          `json:"name" example:"get_orders"`
		Arguments json.RawMessage `json:"arguments" swaggertype:"object"`
	} `json:"function"`
}

// ToolCallResponse answers a tool-calls envelope
type ToolCallResponse struct {
	Results []ToolCallResult `json:"results"`
}

type ToolCallResult struct {
	ToolCallID string `json:"toolCallId"`
	Result     string `json:"result,omitempty"`
	Error      string `json:"error,omitempty"`
}

// OrderResponse is the bare order answer for callers that send no envelope
type OrderResponse = orders.Order
