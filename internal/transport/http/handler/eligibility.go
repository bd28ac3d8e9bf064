package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"propertyhub/internal/app"
	"propertyhub/internal/flow"
	"propertyhub/internal/transport/http/response"
)

type EligibilityHandler struct {
	service *app.EligibilityService
}

func NewEligibilityHandler(service *app.EligibilityService) *EligibilityHandler {
	return &EligibilityHandler{service: service}
}

type SelectAnswerRequest struct {
	Value string `json:"value" binding:"required,max=64"`
}

// Start opens a new session. An optional ?error= code from a failed sign-in
// hand-off is translated into a banner on the first view.
func (h *EligibilityHandler) Start(c *gin.Context) {
	view, err := h.service.StartSession(c.Request.Context(), c.Query("error"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "start session failed")
		return
	}
	response.OK(c, view)
}

func (h *EligibilityHandler) View(c *gin.Context) {
	view, err := h.service.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "load session failed")
		return
	}
	response.OK(c, view)
}

func (h *EligibilityHandler) Select(c *gin.Context) {
	var req SelectAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	view, err := h.service.Select(c.Request.Context(), c.Param("id"), req.Value)
	if err != nil {
		h.writeError(c, err, "select answer failed")
		return
	}
	response.OK(c, view)
}

func (h *EligibilityHandler) Confirm(c *gin.Context) {
	view, err := h.service.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "confirm answer failed")
		return
	}
	response.OK(c, view)
}

func (h *EligibilityHandler) Cancel(c *gin.Context) {
	view, err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "cancel confirmation failed")
		return
	}
	response.OK(c, view)
}

func (h *EligibilityHandler) Advance(c *gin.Context) {
	view, err := h.service.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "advance failed")
		return
	}
	response.OK(c, view)
}

func (h *EligibilityHandler) Back(c *gin.Context) {
	view, err := h.service.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "go back failed")
		return
	}
	response.OK(c, view)
}

func (h *EligibilityHandler) Restart(c *gin.Context) {
	view, err := h.service.Restart(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "restart failed")
		return
	}
	response.OK(c, view)
}

func (h *EligibilityHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrSessionUnknown):
		response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
	case errors.Is(err, app.ErrInvalidInput),
		errors.Is(err, flow.ErrUnknownOption),
		errors.Is(err, flow.ErrNoAnswer):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, flow.ErrPendingConfirm),
		errors.Is(err, flow.ErrFlowTerminal),
		errors.Is(err, app.ErrNotAwaitingConfirm):
		response.Error(c, http.StatusConflict, response.CodeConflict, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
