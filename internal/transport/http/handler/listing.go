package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"propertyhub/internal/app"
	"propertyhub/internal/model"
	"propertyhub/internal/repository"
	"propertyhub/internal/transport/http/response"
)

type ListingHandler struct {
	service *app.ListingService
}

func NewListingHandler(service *app.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

type CreateListingRequest struct {
	Make         string `json:"make" binding:"required,max=64"`
	Model        string `json:"model" binding:"required,max=64"`
	Year         int    `json:"year" binding:"required,min=1950"`
	PricePence   int64  `json:"price_pence" binding:"required,min=1"`
	Mileage      int    `json:"mileage" binding:"min=0"`
	FuelType     string `json:"fuel_type" binding:"required,max=32"`
	Transmission string `json:"transmission" binding:"required,max=32"`
	BodyType     string `json:"body_type" binding:"max=32"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url" binding:"max=512"`
}

// Create publishes a new vehicle listing.
func (h *ListingHandler) Create(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	listing := &model.Listing{
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		PricePence:   req.PricePence,
		Mileage:      req.Mileage,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		BodyType:     req.BodyType,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
	}
	if err := h.service.Create(c.Request.Context(), listing); err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create listing failed")
		return
	}
	response.OK(c, listing)
}

// List returns marketplace listings filtered by query parameters.
func (h *ListingHandler) List(c *gin.Context) {
	filter := repository.ListingFilter{
		Make:         c.Query("make"),
		Model:        c.Query("model"),
		FuelType:     c.Query("fuel_type"),
		Transmission: c.Query("transmission"),
		MinPrice:     queryInt64(c, "min_price"),
		MaxPrice:     queryInt64(c, "max_price"),
		MaxMileage:   queryInt(c, "max_mileage"),
		MinYear:      queryInt(c, "min_year"),
		Limit:        queryInt(c, "limit"),
		Offset:       queryInt(c, "offset"),
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list listings failed")
		return
	}
	response.OK(c, page)
}

func (h *ListingHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid listing id")
		return
	}

	listing, err := h.service.Get(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, app.ErrListingNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get listing failed")
		return
	}
	response.OK(c, listing)
}

func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}

func queryInt64(c *gin.Context, key string) int64 {
	v, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
