package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/gstbilling/internal/audit/domain"
)

// auditDocumentType accepts the collection names used in API paths as well
// as the stored document types.
func auditDocumentType(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "quotations", auditdomain.DocumentQuotation:
		return auditdomain.DocumentQuotation
	case "invoices", auditdomain.DocumentInvoice:
		return auditdomain.DocumentInvoice
	case "purchase-orders", "purchase-order", auditdomain.DocumentPurchaseOrder:
		return auditdomain.DocumentPurchaseOrder
	default:
		return value
	}
}

func (s *Server) ListAuditEvents(c *gin.Context) {
	events, err := s.auditSvc.List(c.Request.Context(), auditDocumentType(c.Param("type")), pathID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": events})
}
