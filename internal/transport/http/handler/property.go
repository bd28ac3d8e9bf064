package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"propertyhub/internal/app"
	"propertyhub/internal/transport/http/middleware"
	"propertyhub/internal/transport/http/response"
)

type PropertyHandler struct {
	service *app.PropertyService
}

func NewPropertyHandler(service *app.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: service}
}

type PostcodeLookupRequest struct {
	Postcode string `json:"postcode" binding:"required,max=16"`
}

type CreateEnquiryRequest struct {
	Postcode      string `json:"postcode" binding:"required,max=16"`
	AddressLine   string `json:"address_line" binding:"max=256"`
	PropertyType  string `json:"property_type" binding:"max=64"`
	Bedrooms      int    `json:"bedrooms" binding:"min=0,max=50"`
	TenureType    string `json:"tenure_type" binding:"max=64"`
	EstimateValue int64  `json:"estimate_value" binding:"min=0"`
}

type UploadDocumentRequest struct {
	FileName    string `json:"file_name" binding:"required,max=256"`
	ContentType string `json:"content_type" binding:"max=128"`
	DataBase64  string `json:"data_base64" binding:"required"`
}

// Lookup proxies a postcode search to the upstream property data provider.
func (h *PropertyHandler) Lookup(c *gin.Context) {
	var req PostcodeLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.service.LookupPostcode(c.Request.Context(), req.Postcode)
	if err != nil {
		if errors.Is(err, app.ErrInvalidPostcode) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
			return
		}
		response.Error(c, http.StatusBadGateway, response.CodeInternalServer, "postcode lookup failed")
		return
	}
	response.OK(c, result)
}

func (h *PropertyHandler) CreateEnquiry(c *gin.Context) {
	var req CreateEnquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	userID, _ := c.Get(middleware.ContextUserIDKey)
	uid, _ := userID.(uint)

	enquiry, err := h.service.CreateEnquiry(c.Request.Context(), app.CreateEnquiryInput{
		UserID:        uid,
		Postcode:      req.Postcode,
		AddressLine:   req.AddressLine,
		PropertyType:  req.PropertyType,
		Bedrooms:      req.Bedrooms,
		TenureType:    req.TenureType,
		EstimateValue: req.EstimateValue,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidPostcode) || errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create enquiry failed")
		return
	}
	response.OK(c, enquiry)
}

func (h *PropertyHandler) UploadDocument(c *gin.Context) {
	enquiryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid enquiry id")
		return
	}

	var req UploadDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	doc, err := h.service.UploadDocument(c.Request.Context(), app.UploadDocumentInput{
		EnquiryID:   uint(enquiryID),
		FileName:    req.FileName,
		ContentType: req.ContentType,
		DataBase64:  req.DataBase64,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEnquiryNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrDocumentTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodePayloadTooLarge, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "upload document failed")
		}
		return
	}
	response.OK(c, doc)
}

func (h *PropertyHandler) ListDocuments(c *gin.Context) {
	enquiryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid enquiry id")
		return
	}

	docs, err := h.service.ListDocuments(c.Request.Context(), uint(enquiryID))
	if err != nil {
		if errors.Is(err, app.ErrEnquiryNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list documents failed")
		return
	}
	response.OK(c, gin.H{"documents": docs})
}
