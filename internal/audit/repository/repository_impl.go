package repository

import (
	"context"

	"github.com/smallbiznis/gstbilling/internal/audit/domain"
	"github.com/smallbiznis/gstbilling/pkg/errs"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, event *domain.Event) error {
	if event == nil {
		return nil
	}
	if err := db.WithContext(ctx).Create(event).Error; err != nil {
		return errs.Storage("insert audit event", err)
	}
	return nil
}

func (r *repo) ListByDocument(ctx context.Context, db *gorm.DB, documentType, documentID string) ([]domain.Event, error) {
	var events []domain.Event
	err := db.WithContext(ctx).
		Where("document_type = ? AND document_id = ?", documentType, documentID).
		Order("occurred_at asc, id asc").
		Find(&events).Error
	if err != nil {
		return nil, errs.Storage("list audit events", err)
	}
	return events, nil
}
