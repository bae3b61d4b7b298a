package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	purchaseorderdomain "github.com/smallbiznis/gstbilling/internal/purchaseorder/domain"
)

type createPurchaseOrderRequest struct {
	PONumber             string                            `json:"poNumber"`
	SupplierID           string                            `json:"supplierId"`
	Date                 string                            `json:"date"`
	ExpectedDeliveryDate string                            `json:"expectedDeliveryDate"`
	Items                []purchaseorderdomain.ItemRequest `json:"items"`
	Remarks              string                            `json:"remarks"`
}

type renamePurchaseOrderRequest struct {
	PONumber string `json:"poNumber"`
}

func (s *Server) CreatePurchaseOrder(c *gin.Context) {
	var req createPurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	delivery, err := parseOptionalDate("expectedDeliveryDate", req.ExpectedDeliveryDate)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.purchaseOrderSvc.Create(c.Request.Context(), purchaseorderdomain.CreateRequest{
		PONumber:             req.PONumber,
		SupplierID:           req.SupplierID,
		Date:                 date,
		ExpectedDeliveryDate: delivery,
		Items:                req.Items,
		Remarks:              req.Remarks,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListPurchaseOrders(c *gin.Context) {
	query, ok := bindListQuery(c)
	if !ok {
		return
	}

	resp, err := s.purchaseOrderSvc.List(c.Request.Context(), purchaseorderdomain.ListRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Status:    query.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPurchaseOrderByID(c *gin.Context) {
	resp, err := s.purchaseOrderSvc.Get(c.Request.Context(), pathID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RenamePurchaseOrder(c *gin.Context) {
	var req renamePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.purchaseOrderSvc.Rename(c.Request.Context(), pathID(c), req.PONumber)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdatePurchaseOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.purchaseOrderSvc.UpdateStatus(c.Request.Context(), pathID(c), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeletePurchaseOrder(c *gin.Context) {
	if err := s.purchaseOrderSvc.Delete(c.Request.Context(), pathID(c)); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) PurchaseOrderPDF(c *gin.Context) {
	signed, err := includeSignature(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.purchaseOrderSvc.RenderPDF(c.Request.Context(), pathID(c), signed)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writePDF(c, doc.Filename, doc.Content)
}
