package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mkamath/quotedesk/internal/service"
	"github.com/mkamath/quotedesk/internal/workbook"
)

type Handler struct {
	quotes        *service.QuoteService
	enquiries     *service.EnquiryService
	members       *service.MemberService
	orders        *service.OrderService
	invoices      *service.InvoiceService
	notifications *service.NotificationService
	log           zerolog.Logger
}

func NewHandler(
	quotes *service.QuoteService,
	enquiries *service.EnquiryService,
	members *service.MemberService,
	orders *service.OrderService,
	invoices *service.InvoiceService,
	notifications *service.NotificationService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		quotes:        quotes,
		enquiries:     enquiries,
		members:       members,
		orders:        orders,
		invoices:      invoices,
		notifications: notifications,
		log:           log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/enquiries", h.listEnquiries)
	protected.POST("/enquiries", h.createEnquiry)
	protected.GET("/enquiries/:id", h.getEnquiry)
	protected.PATCH("/enquiries/:id/status", h.updateEnquiryStatus)

	protected.GET("/enquiries/:id/quotes", h.listQuotes)
	protected.POST("/enquiries/:id/quotes", h.createQuote)
	protected.GET("/enquiries/:id/quotes/export", h.exportQuotes)

	protected.PATCH("/quotes/:id", h.updateQuote)
	protected.POST("/quotes/:id/vendors", h.saveVendor)
	protected.DELETE("/quotes/:id/items/:itemIndex/vendors/:vendorId", h.deleteVendor)
	protected.DELETE("/quotes/:id/attachments/:index", h.deleteAttachment)
	protected.PATCH("/quotes/:id/status", h.updateQuoteStatus)
	protected.POST("/quotes/:id/convert", h.convertQuote)
	protected.POST("/quotes/import", h.importItems)

	protected.GET("/members", h.listMembers)
	protected.POST("/members", h.createMember)
	protected.GET("/members/vendors", h.listVendors)
	protected.POST("/members/:id/avatar", h.updateAvatar)

	protected.GET("/orders", h.listOrders)
	protected.GET("/orders/:id", h.getOrder)
	protected.PATCH("/orders/:id/status", h.updateOrderStatus)

	protected.GET("/invoices", h.listInvoices)
	protected.POST("/invoices", h.createInvoice)
	protected.GET("/invoices/:id", h.getInvoice)
	protected.PATCH("/invoices/:id/status", h.updateInvoiceStatus)
	protected.GET("/invoices/:id/pdf", h.downloadInvoice)

	protected.GET("/notifications", h.listNotifications)
	protected.PATCH("/notifications/:id/read", h.markNotificationRead)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoChanges):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func readUpload(header *multipart.FileHeader) (*workbook.Upload, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &workbook.Upload{Name: header.Filename, Content: content}, nil
}
