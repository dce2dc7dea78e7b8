package handler

import (
	"github.com/gin-gonic/gin"

	tradeapp "github.com/muhohoweb/shoe-app/internal/application/trade"
	"github.com/muhohoweb/shoe-app/internal/interfaces/http/middleware"
)

// DeliveryLocationHandler handles delivery location management endpoints
type DeliveryLocationHandler struct {
	BaseHandler
	locationService *tradeapp.DeliveryLocationService
}

// NewDeliveryLocationHandler creates a new DeliveryLocationHandler
func NewDeliveryLocationHandler(locationService *tradeapp.DeliveryLocationService) *DeliveryLocationHandler {
	return &DeliveryLocationHandler{locationService: locationService}
}

// Create adds a delivery location
func (h *DeliveryLocationHandler) Create(c *gin.Context) {
	var req tradeapp.DeliveryLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	location, err := h.locationService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, location)
}

// List returns all delivery locations
func (h *DeliveryLocationHandler) List(c *gin.Context) {
	locations, err := h.locationService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, locations)
}

// Update modifies a delivery location
func (h *DeliveryLocationHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	var req tradeapp.DeliveryLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	location, err := h.locationService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, location)
}

// Delete removes a delivery location
func (h *DeliveryLocationHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	if err := h.locationService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
