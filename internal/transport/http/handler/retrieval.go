package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"propertyhub/internal/app"
	"propertyhub/internal/transport/http/response"
)

type RetrievalHandler struct {
	service *app.RetrievalService
}

func NewRetrievalHandler(service *app.RetrievalService) *RetrievalHandler {
	return &RetrievalHandler{service: service}
}

type CreateResourceRequest struct {
	Content string `json:"content" binding:"required"`
}

type AskRequest struct {
	Question string `json:"question" binding:"required,max=2048"`
}

// CreateResource ingests a document into the knowledge base and reports the
// per-chunk outcome.
func (h *RetrievalHandler) CreateResource(c *gin.Context) {
	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	report, err := h.service.CreateResource(c.Request.Context(), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrNoContent):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ingest resource failed")
		}
		return
	}

	response.OK(c, gin.H{
		"resource_id": report.ResourceID,
		"message":     report.Message(),
		"succeeded":   report.Succeeded,
		"failed":      report.Failed,
	})
}

// ListResources returns the most recently ingested documents.
func (h *RetrievalHandler) ListResources(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	resources, err := h.service.ListResources(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list resources failed")
		return
	}
	response.OK(c, gin.H{"resources": resources})
}

func (h *RetrievalHandler) GetResource(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid resource id")
		return
	}

	resource, err := h.service.GetResource(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, app.ErrResourceNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get resource failed")
		return
	}
	response.OK(c, resource)
}

// RelevantContent returns the stored chunks most similar to the query.
func (h *RetrievalHandler) RelevantContent(c *gin.Context) {
	query := c.Query("q")
	chunks, err := h.service.FindRelevantContent(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing query")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "similarity search failed")
		return
	}
	response.OK(c, gin.H{"chunks": chunks})
}

// Ask answers a question grounded on the ingested knowledge base.
func (h *RetrievalHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.service.Ask(c.Request.Context(), req.Question)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "answer question failed")
		return
	}
	response.OK(c, result)
}
