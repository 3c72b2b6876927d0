package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mkamath/quotedesk/internal/http/middleware"
	"github.com/mkamath/quotedesk/internal/model"
	"github.com/mkamath/quotedesk/internal/service"
)

func (h *Handler) listInvoices(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	invoices, err := h.invoices.List(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *Handler) getInvoice(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	invoice, err := h.invoices.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

type createInvoiceRequest struct {
	OrderID             string              `json:"orderId" binding:"required"`
	ClientName          string              `json:"clientName" binding:"required"`
	ClientAddress       string              `json:"clientAddress"`
	ClientGSTIN         string              `json:"clientGstin"`
	Items               []model.InvoiceItem `json:"items" binding:"required"`
	TransportCharges    float64             `json:"transportCharges"`
	InstallationCharges float64             `json:"installationCharges"`
	CGSTEnabled         bool                `json:"cgstEnabled"`
	SGSTEnabled         bool                `json:"sgstEnabled"`
	IGSTEnabled         bool                `json:"igstEnabled"`
	InvoiceDate         string              `json:"invoiceDate"`
}

func (h *Handler) createInvoice(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var invoiceDate time.Time
	if req.InvoiceDate != "" {
		invoiceDate, err = time.Parse("2006-01-02", req.InvoiceDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice date"})
			return
		}
	}

	invoice, err := h.invoices.Create(c.Request.Context(), service.CreateInvoiceInput{
		OrderID:             orderID,
		ClientName:          req.ClientName,
		ClientAddress:       req.ClientAddress,
		ClientGSTIN:         req.ClientGSTIN,
		Items:               req.Items,
		TransportCharges:    req.TransportCharges,
		InstallationCharges: req.InstallationCharges,
		CGSTEnabled:         req.CGSTEnabled,
		SGSTEnabled:         req.SGSTEnabled,
		IGSTEnabled:         req.IGSTEnabled,
		InvoiceDate:         invoiceDate,
		Principal:           principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func (h *Handler) updateInvoiceStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.invoices.UpdateStatus(c.Request.Context(), principal, id, model.InvoiceStatus(req.Status)); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) downloadInvoice(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	result, err := h.invoices.Download(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}
