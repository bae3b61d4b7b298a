package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	documentdomain "github.com/smallbiznis/gstbilling/internal/document/domain"
	invoicedomain "github.com/smallbiznis/gstbilling/internal/invoice/domain"
)

type createInvoiceRequest struct {
	CustomerID      string                       `json:"customerId"`
	Items           []documentdomain.ItemRequest `json:"items"`
	DiscountPercent decimal.Decimal              `json:"discountPercent"`
	Date            string                       `json:"date"`
	ShipTo          *customerdomain.ShipTo       `json:"shipTo"`
	PaymentType     string                       `json:"paymentType"`
	PaidAmount      decimal.Decimal              `json:"paidAmount"`
}

type convertQuotationRequest struct {
	PaymentType string          `json:"paymentType"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
}

type renameInvoiceRequest struct {
	InvoiceNumber string `json:"invoiceNumber"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// ConvertQuotation serves both POST /quotations/:id/convert and
// POST /invoices/from-quotation/:id. The body is optional.
func (s *Server) ConvertQuotation(c *gin.Context) {
	var req convertQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.ConvertQuotation(c.Request.Context(), invoicedomain.ConvertRequest{
		QuotationID: pathID(c),
		PaymentType: req.PaymentType,
		PaidAmount:  req.PaidAmount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateRequest{
		CustomerID:      req.CustomerID,
		Items:           req.Items,
		DiscountPercent: req.DiscountPercent,
		Date:            date,
		ShipTo:          req.ShipTo,
		PaymentType:     req.PaymentType,
		PaidAmount:      req.PaidAmount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	query, ok := bindListQuery(c)
	if !ok {
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListRequest{
		PageToken:  query.PageToken,
		PageSize:   int32(query.PageSize),
		Status:     query.Status,
		CustomerID: query.CustomerID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	item, err := s.invoiceSvc.GetByID(c.Request.Context(), pathID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) RenameInvoice(c *gin.Context) {
	var req renameInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Rename(c.Request.Context(), pathID(c), req.InvoiceNumber)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateInvoiceStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.UpdateStatus(c.Request.Context(), pathID(c), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	if err := s.invoiceSvc.Delete(c.Request.Context(), pathID(c)); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) InvoicePDF(c *gin.Context) {
	signed, err := includeSignature(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.invoiceSvc.RenderPDF(c.Request.Context(), pathID(c), signed)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writePDF(c, doc.Filename, doc.Content)
}

func writePDF(c *gin.Context, filename string, content []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", content)
}
