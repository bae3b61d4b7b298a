package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, event *Event) error
	ListByDocument(ctx context.Context, db *gorm.DB, documentType, documentID string) ([]Event, error)
}
