package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mkamath/quotedesk/internal/http/middleware"
	"github.com/mkamath/quotedesk/internal/service"
	"github.com/mkamath/quotedesk/internal/workbook"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) listQuotes(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	enquiryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid enquiry id"})
		return
	}

	versions, err := h.quotes.ListVersions(c.Request.Context(), principal, enquiryID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

// createQuote accepts either a JSON body or a multipart form with a
// "payload" JSON field plus any number of "attachments" files.
func (h *Handler) createQuote(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	enquiryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid enquiry id"})
		return
	}

	var draft workbook.QuoteVersion
	var uploads []workbook.Upload

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		payload := formValue(form.Value, "payload")
		if payload == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing payload field"})
			return
		}
		if err := json.Unmarshal([]byte(payload), &draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
			return
		}
		for _, header := range form.File["attachments"] {
			upload, err := readUpload(header)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			uploads = append(uploads, *upload)
		}
	} else if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.quotes.CreateVersion(c.Request.Context(), service.CreateVersionInput{
		EnquiryID:   enquiryID,
		Draft:       draft,
		Attachments: uploads,
		Principal:   principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, version)
}

// updateQuote applies a partial changeset. A multipart form carries the
// changeset in a "changeset" field and at most one "attachment" file; a
// plain JSON body is the changeset itself.
func (h *Handler) updateQuote(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote id"})
		return
	}

	var changeset workbook.Changeset
	var attachment *workbook.Upload

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if payload := formValue(form.Value, "changeset"); payload != "" {
			if err := json.Unmarshal([]byte(payload), &changeset); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid changeset: " + err.Error()})
				return
			}
		}
		if headers := form.File["attachment"]; len(headers) > 0 {
			attachment, err = readUpload(headers[0])
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
	} else if err := c.ShouldBindJSON(&changeset); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.quotes.UpdateVersion(c.Request.Context(), service.UpdateVersionInput{
		QuoteID:    quoteID,
		Changeset:  changeset,
		Attachment: attachment,
		Principal:  principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, version)
}

type saveVendorRequest struct {
	ItemIndex   int                       `json:"itemIndex"`
	VendorIndex *int                      `json:"vendorIndex"`
	Vendor      workbook.VendorAssignment `json:"vendor"`
}

func (h *Handler) saveVendor(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote id"})
		return
	}

	var req saveVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vendorIndex := -1
	if req.VendorIndex != nil {
		vendorIndex = *req.VendorIndex
	}

	err = h.quotes.SaveVendor(c.Request.Context(), service.SaveVendorInput{
		QuoteID:     quoteID,
		ItemIndex:   req.ItemIndex,
		VendorIndex: vendorIndex,
		Vendor:      req.Vendor,
		Principal:   principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) deleteVendor(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote id"})
		return
	}
	itemIndex, err := strconv.Atoi(c.Param("itemIndex"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item index"})
		return
	}
	vendorID := strings.TrimSpace(c.Param("vendorId"))
	if vendorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing vendor id"})
		return
	}

	if err := h.quotes.DeleteVendor(c.Request.Context(), principal, quoteID, itemIndex, vendorID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) deleteAttachment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote id"})
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attachment index"})
		return
	}

	if err := h.quotes.DeleteAttachment(c.Request.Context(), principal, quoteID, index); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) updateQuoteStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote id"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.quotes.UpdateStatus(c.Request.Context(), principal, quoteID, req.Status); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) exportQuotes(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	enquiryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid enquiry id"})
		return
	}

	fileName, content, err := h.quotes.Export(c.Request.Context(), principal, enquiryID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, xlsxContentType, content)
}

// importItems parses an uploaded sheet and returns line items without
// touching any stored version. The caller decides what to do with them.
func (h *Handler) importItems(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	upload, err := readUpload(header)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.quotes.ImportItems(upload.Content)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

func formValue(values map[string][]string, key string) string {
	if list, ok := values[key]; ok && len(list) > 0 {
		return list[0]
	}
	return ""
}
