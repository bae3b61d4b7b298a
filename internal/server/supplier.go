package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	supplierdomain "github.com/smallbiznis/gstbilling/internal/supplier/domain"
)

func (s *Server) CreateSupplier(c *gin.Context) {
	var req supplierdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.supplierSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListSuppliers(c *gin.Context) {
	query, ok := bindListQuery(c)
	if !ok {
		return
	}

	resp, err := s.supplierSvc.List(c.Request.Context(), supplierdomain.ListRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Name:      query.Name,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSupplierByID(c *gin.Context) {
	resp, err := s.supplierSvc.Get(c.Request.Context(), pathID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateSupplier(c *gin.Context) {
	var req supplierdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req.CreateRequest); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = pathID(c)

	resp, err := s.supplierSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteSupplier(c *gin.Context) {
	if err := s.supplierSvc.Delete(c.Request.Context(), pathID(c)); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
