package handler

import (
	"net/http"

	"chauffeurtop_backend/internal/bookings/service"
	"chauffeurtop_backend/internal/bookings/transport"
	"chauffeurtop_backend/platform/httpkit"
	"chauffeurtop_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles the public booking form endpoint.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new bookings handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the public booking routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
}

// Create handles POST /api/v1/public/bookings
func (h *Handler) Create(c *gin.Context) {
	var req transport.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}
