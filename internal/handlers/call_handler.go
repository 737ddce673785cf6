package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/callpad/internal/call"
	"github.com/xpanvictor/callpad/pkg/Logger"
)

// CallView is the slice of call.View the HTTP layer drives.
type CallView interface {
	StartCall(ctx context.Context) (call.Status, error)
	StopCall(ctx context.Context) (call.Status, error)
	Status() call.Status
}

// CallHandler handles the start/stop buttons
type CallHandler struct {
	view   CallView
	logger *Logger.Logger
}

// NewCallHandler creates a new call handler
func NewCallHandler(view CallView, logger *Logger.Logger) *CallHandler {
	return &CallHandler{
		view:   view,
		logger: logger,
	}
}

// Start handles the "Start Call" button
// @Summary Start a call
// @Description Ask the voice service to start a web call with the configured assistant
// @Tags Call
// @Produce json
// @Success 200 {object} CallStatusResponse "Call in progress"
// @Failure 409 {object} ErrorResponse "A call is active or being started"
// @Failure 502 {object} ErrorResponse "The voice service rejected the start"
// @Router /api/call/start [post]
func (h *CallHandler) Start(c *gin.Context) {
	status, err := h.view.StartCall(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, call.ErrStartPending):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Call is already starting"})
		case errors.Is(err, call.ErrAlreadyActive):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Call already in progress"})
		default:
			h.logger.Errorf("start call error (request %s): %v", c.GetString("requestID"), err)
			c.JSON(http.StatusBadGateway, ErrorResponse{
				Error:   "Failed to start call",
				Details: status.LastError,
			})
		}
		return
	}

	c.JSON(http.StatusOK, CallStatusResponse{
		Message: "Call started",
		Status:  status,
	})
}

// Stop handles the "Stop Call" button
// @Summary Stop the call
// @Description Mark the call ended and ask the voice service to end it. The call is reported ended even when the service fails to confirm; the failure is returned in status.lastError.
// @Tags Call
// @Produce json
// @Success 200 {object} CallStatusResponse "Call ended"
// @Failure 409 {object} ErrorResponse "No call in progress"
// @Router /api/call/stop [post]
func (h *CallHandler) Stop(c *gin.Context) {
	status, err := h.view.StopCall(c.Request.Context())
	if err != nil {
		if errors.Is(err, call.ErrNotActive) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "No call in progress"})
			return
		}
		h.logger.Warnf("stop call error (request %s): %v", c.GetString("requestID"), err)
		c.JSON(http.StatusOK, CallStatusResponse{
			Message: "Call ended locally; the voice service did not confirm",
			Status:  status,
		})
		return
	}

	c.JSON(http.StatusOK, CallStatusResponse{
		Message: "Call ended",
		Status:  status,
	})
}

// Status returns the current page state
// @Summary Call status
// @Tags Call
// @Produce json
// @Success 200 {object} CallStatusResponse
// @Router /api/call/status [get]
func (h *CallHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, CallStatusResponse{Status: h.view.Status()})
}
