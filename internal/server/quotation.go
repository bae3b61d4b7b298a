package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	documentdomain "github.com/smallbiznis/gstbilling/internal/document/domain"
	quotationdomain "github.com/smallbiznis/gstbilling/internal/quotation/domain"
)

type createQuotationRequest struct {
	CustomerID      string                       `json:"customerId"`
	Items           []documentdomain.ItemRequest `json:"items"`
	DiscountPercent decimal.Decimal              `json:"discountPercent"`
	Date            string                       `json:"date"`
	ExpiryDate      string                       `json:"expiryDate"`
	ShipTo          *customerdomain.ShipTo       `json:"shipTo"`
}

type renameQuotationRequest struct {
	QuoteNumber string `json:"quoteNumber"`
}

func (s *Server) CreateQuotation(c *gin.Context) {
	var req createQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	expiry, err := parseOptionalDate("expiryDate", req.ExpiryDate)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.quotationSvc.Create(c.Request.Context(), quotationdomain.CreateRequest{
		CustomerID:      req.CustomerID,
		Items:           req.Items,
		DiscountPercent: req.DiscountPercent,
		Date:            date,
		ExpiryDate:      expiry,
		ShipTo:          req.ShipTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListQuotations(c *gin.Context) {
	query, ok := bindListQuery(c)
	if !ok {
		return
	}

	resp, err := s.quotationSvc.List(c.Request.Context(), quotationdomain.ListRequest{
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

func (s *Server) GetQuotationByID(c *gin.Context) {
	resp, err := s.quotationSvc.Get(c.Request.Context(), pathID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RenameQuotation(c *gin.Context) {
	var req renameQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quotationSvc.Rename(c.Request.Context(), pathID(c), req.QuoteNumber)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteQuotation(c *gin.Context) {
	if err := s.quotationSvc.Delete(c.Request.Context(), pathID(c)); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) QuotationPDF(c *gin.Context) {
	signed, err := includeSignature(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.quotationSvc.RenderPDF(c.Request.Context(), pathID(c), signed)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writePDF(c, doc.Filename, doc.Content)
}
