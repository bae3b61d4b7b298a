package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
)

type listQuery struct {
	pagination.Pagination
	Name       string `form:"name"`
	State      string `form:"state"`
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
}

func bindListQuery(c *gin.Context) (listQuery, bool) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, newValidationError("query", "invalid query parameters"))
		return listQuery{}, false
	}
	query.Pagination = query.Pagination.Normalize()
	query.Name = strings.TrimSpace(query.Name)
	query.State = strings.TrimSpace(query.State)
	query.Status = strings.TrimSpace(query.Status)
	query.CustomerID = strings.TrimSpace(query.CustomerID)
	return query, true
}

func parseOptionalBool(value string) (*bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// includeSignature reads the includeSignature flag of a PDF download.
func includeSignature(c *gin.Context) (bool, error) {
	value := c.Query("includeSignature")
	if value == "" {
		value = c.Query("include_signature")
	}
	parsed, err := parseOptionalBool(value)
	if err != nil {
		return false, newValidationError("includeSignature", "must be true or false")
	}
	return parsed != nil && *parsed, nil
}

func pathID(c *gin.Context) string {
	return strings.TrimSpace(c.Param("id"))
}

const dateOnlyLayout = "2006-01-02"

// parseOptionalDate accepts RFC 3339 timestamps and plain dates.
func parseOptionalDate(field, value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &parsed, nil
	}
	if parsed, err := time.Parse(dateOnlyLayout, trimmed); err == nil {
		return &parsed, nil
	}
	return nil, newValidationError(field, "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
}
