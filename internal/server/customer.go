package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
)

func (s *Server) CreateCustomer(c *gin.Context) {
	var req customerdomain.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListCustomers(c *gin.Context) {
	query, ok := bindListQuery(c)
	if !ok {
		return
	}

	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListCustomerRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Name:      query.Name,
		State:     query.State,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	resp, err := s.customerSvc.GetByID(c.Request.Context(), pathID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	var req customerdomain.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req.CreateCustomerRequest); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = pathID(c)

	resp, err := s.customerSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	if err := s.customerSvc.Delete(c.Request.Context(), pathID(c)); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
