// Package option holds composable gorm query modifiers shared by the
// repositories.
package option

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"gorm.io/gorm"
)

type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type queryFunc func(db *gorm.DB) *gorm.DB

func (f queryFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

type Operator string

const (
	EQ   Operator = "="
	NEQ  Operator = "<>"
	GT   Operator = ">"
	GTE  Operator = ">="
	LT   Operator = "<"
	LTE  Operator = "<="
	LIKE Operator = "LIKE"
)

type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

// ApplyOperator adds a single comparison. Field names are never taken from
// user input.
func ApplyOperator(cond Condition) QueryOption {
	return queryFunc(func(db *gorm.DB) *gorm.DB {
		op := cond.Operator
		if op == "" {
			op = EQ
		}
		return db.Where(fmt.Sprintf("%s %s ?", cond.Field, op), cond.Value)
	})
}

type QuerySortBy struct {
	SortBy  string
	OrderBy string
	Allow   map[string]bool
}

func WithQuerySortBy(sortBy, orderBy string, allow map[string]bool) QuerySortBy {
	return QuerySortBy{SortBy: sortBy, OrderBy: orderBy, Allow: allow}
}

// WithSortBy orders by an allow-listed column, newest first by default.
// The id tiebreaker keeps cursor pages stable.
func WithSortBy(sort QuerySortBy) QueryOption {
	return queryFunc(func(db *gorm.DB) *gorm.DB {
		column := strings.ToLower(strings.TrimSpace(sort.SortBy))
		if column == "" || !sort.Allow[column] {
			column = "created_at"
		}
		direction := "desc"
		if strings.EqualFold(strings.TrimSpace(sort.OrderBy), "asc") {
			direction = "asc"
		}
		return db.Order(fmt.Sprintf("%s %s, id %s", column, direction, direction))
	})
}

// ApplyPagination seeks past the cursor in a created_at desc, id desc
// listing and fetches one extra row so callers can detect a next page.
func ApplyPagination(page pagination.Pagination) QueryOption {
	page = page.Normalize()
	return queryFunc(func(db *gorm.DB) *gorm.DB {
		if token := strings.TrimSpace(page.PageToken); token != "" {
			if cursor, err := pagination.DecodeCursor(token); err == nil {
				db = applyCursor(db, cursor)
			}
		}
		return db.Limit(page.PageSize + 1)
	})
}

func applyCursor(db *gorm.DB, cursor *pagination.Cursor) *gorm.DB {
	createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
	if err != nil {
		return db
	}
	id, err := strconv.ParseInt(cursor.ID, 10, 64)
	if err != nil {
		return db.Where("created_at < ?", createdAt)
	}
	return db.Where("(created_at < ?) OR (created_at = ? AND id < ?)", createdAt, createdAt, id)
}
