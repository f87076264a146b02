package contact

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/furwell/clinic-api/internal/email"
	"github.com/furwell/clinic-api/internal/handler"
)

type Handler struct {
	email email.Service
}

func NewHandler(emailSvc email.Service) *Handler {
	return &Handler{email: emailSvc}
}

func (h *Handler) SubmitContactForm(c *gin.Context) {
	var msg email.ContactMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.email.SendContactMessage(c.Request.Context(), &msg); err != nil {
		c.JSON(http.StatusBadGateway, handler.NewErrorResponse("failed to deliver message"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "message sent"})
}
