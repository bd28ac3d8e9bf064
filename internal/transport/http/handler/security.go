package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"propertyhub/internal/app"
	"propertyhub/internal/transport/http/response"
)

type SecurityHandler struct {
	service *app.SecurityService
}

func NewSecurityHandler(service *app.SecurityService) *SecurityHandler {
	return &SecurityHandler{service: service}
}

// Check builds the handler for one posture check; each check gets its own
// route so the dashboard can poll them individually.
func (h *SecurityHandler) Check(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := h.service.RunCheck(c.Request.Context(), name)
		if err != nil {
			if errors.Is(err, app.ErrUnknownCheck) {
				response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
				return
			}
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "run check failed")
			return
		}
		response.OK(c, result)
	}
}

// Scan runs every check and returns the aggregate report. ?force=true skips
// the cached report.
func (h *SecurityHandler) Scan(c *gin.Context) {
	force := c.Query("force") == "true"
	report, err := h.service.RunScan(c.Request.Context(), force)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "run scan failed")
		return
	}
	response.OK(c, report)
}

// Checks lists the available check names.
func (h *SecurityHandler) Checks(c *gin.Context) {
	response.OK(c, gin.H{"checks": h.service.CheckNames()})
}
