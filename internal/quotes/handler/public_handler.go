package handler

import (
	"net/http"

	"chauffeurtop_backend/internal/quotes/service"
	"chauffeurtop_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// PublicHandler handles unauthenticated HTTP requests for the customer
// confirmation page.
type PublicHandler struct {
	svc *service.Service
}

// NewPublicHandler creates a new public quotes handler.
func NewPublicHandler(svc *service.Service) *PublicHandler {
	return &PublicHandler{svc: svc}
}

// RegisterRoutes registers the public quote routes (no auth middleware).
func (h *PublicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:token", h.GetByToken)
	rg.POST("/:token/confirm", h.Confirm)
}

// GetByToken handles GET /api/v1/public/quotes/:token
func (h *PublicHandler) GetByToken(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		httpkit.Error(c, http.StatusBadRequest, "token is required", nil)
		return
	}

	result, err := h.svc.GetByToken(c.Request.Context(), token)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Confirm handles POST /api/v1/public/quotes/:token/confirm
func (h *PublicHandler) Confirm(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		httpkit.Error(c, http.StatusBadRequest, "token is required", nil)
		return
	}

	result, err := h.svc.Confirm(c.Request.Context(), token)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
