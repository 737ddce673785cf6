package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/callpad/internal/tools/orders"
	"github.com/xpanvictor/callpad/pkg/Logger"
)

const maxToolBody = 1 << 20

// OrderHandler serves the order lookup tool the assistant calls mid-call
type OrderHandler struct {
	store  *orders.Store
	logger *Logger.Logger
}

func NewOrderHandler(store *orders.Store, logger *Logger.Logger) *OrderHandler {
	return &OrderHandler{
		store:  store,
		logger: logger,
	}
}

// Lookup handles order tool calls
// @Summary Order lookup tool
// @Description With a tool-calls envelope, answers each call with the requested order (or the sample order when none is named). With no body, returns the sample order.
// @Tags Tools
// @Accept json
// @Produce json
// @Param request body ToolCallRequest false "Tool-calls envelope"
// @Success 200 {object} ToolCallResponse "Per tool call results"
// @Failure 400 {object} ErrorResponse "Malformed envelope"
// @Failure 404 {object} ErrorResponse "No orders on file"
// @Router /orders [post]
func (h *OrderHandler) Lookup(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxToolBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unable to read request body", Details: err.Error()})
		return
	}

	var req ToolCallRequest
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := json.Unmarshal(raw, &req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
			return
		}
	}

	if len(req.Message.ToolCalls) == 0 {
		order, err := h.store.Lookup("")
		if err != nil {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
		return
	}

	results := make([]ToolCallResult, 0, len(req.Message.ToolCalls))
	for _, tc := range req.Message.ToolCalls {
		results = append(results, h.answer(tc))
	}
	c.JSON(http.StatusOK, ToolCallResponse{Results: results})
}

func (h *OrderHandler) answer(tc ToolCall) ToolCallResult {
	res := ToolCallResult{ToolCallID: tc.ID}

	args, err := orders.ParseLookupArgs(tc.Function.Arguments)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	order, err := h.store.Lookup(args.OrderNumber)
	if err != nil {
		h.logger.Debugf("tool call %s: %v", tc.ID, err)
		res.Error = err.Error()
		return res
	}
	b, err := json.Marshal(order)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Result = string(b)
	return res
}
