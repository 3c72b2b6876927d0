package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mkamath/quotedesk/internal/http/middleware"
	"github.com/mkamath/quotedesk/internal/model"
	"github.com/mkamath/quotedesk/internal/service"
)

func (h *Handler) listEnquiries(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	enquiries, err := h.enquiries.List(c.Request.Context(), principal, c.Query("status"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, enquiries)
}

func (h *Handler) getEnquiry(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid enquiry id"})
		return
	}

	enquiry, err := h.enquiries.GetByID(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, enquiry)
}

type createEnquiryRequest struct {
	ClientID string `json:"clientId"`
	Subject  string `json:"subject" binding:"required"`
	Details  string `json:"details"`
}

func (h *Handler) createEnquiry(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createEnquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var clientID uuid.UUID
	if req.ClientID != "" {
		parsed, err := uuid.Parse(req.ClientID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
			return
		}
		clientID = parsed
	}

	enquiry, err := h.enquiries.Create(c.Request.Context(), service.CreateEnquiryInput{
		ClientID:  clientID,
		Subject:   req.Subject,
		Details:   req.Details,
		Principal: principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enquiry)
}

func (h *Handler) updateEnquiryStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid enquiry id"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.enquiries.UpdateStatus(c.Request.Context(), principal, id, model.EnquiryStatus(req.Status)); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
