package service

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
	auditdomain "github.com/smallbiznis/gstbilling/internal/audit/domain"
	"github.com/smallbiznis/gstbilling/internal/clock"
	obscontext "github.com/smallbiznis/gstbilling/internal/observability/context"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  auditdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  auditdomain.Repository
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, entry auditdomain.Entry) error {
	entry.Action = strings.TrimSpace(entry.Action)
	if entry.Action == "" {
		return auditdomain.ErrInvalidAction
	}
	if !auditdomain.ValidDocumentType(entry.DocumentType) {
		return auditdomain.ErrInvalidDocumentType
	}
	if strings.TrimSpace(entry.DocumentID) == "" {
		return auditdomain.ErrInvalidDocumentID
	}

	occurredAt := s.clock.Now()
	event := auditdomain.Event{
		ID:             ulid.MustNew(ulid.Timestamp(occurredAt), ulid.DefaultEntropy()).String(),
		DocumentType:   entry.DocumentType,
		DocumentID:     strings.TrimSpace(entry.DocumentID),
		Action:         entry.Action,
		DocumentNumber: entry.DocumentNumber,
		RequestID:      obscontext.RequestIDFromContext(ctx),
		ClientIP:       obscontext.ClientIPFromContext(ctx),
		UserAgent:      obscontext.UserAgentFromContext(ctx),
		OccurredAt:     occurredAt,
	}

	payload := map[string]any{}
	for key, value := range entry.Metadata {
		if key == "" {
			continue
		}
		payload[key] = value
	}
	if len(payload) > 0 {
		event.Metadata = datatypes.JSONMap(payload)
	}

	if err := s.repo.Insert(ctx, s.db, &event); err != nil {
		s.log.Warn("failed to write audit event",
			zap.String("document_type", entry.DocumentType),
			zap.String("document_id", entry.DocumentID),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, documentType, documentID string) ([]auditdomain.Event, error) {
	documentType = strings.TrimSpace(documentType)
	documentID = strings.TrimSpace(documentID)
	if !auditdomain.ValidDocumentType(documentType) {
		return nil, auditdomain.ErrInvalidDocumentType
	}
	if documentID == "" {
		return nil, auditdomain.ErrInvalidDocumentID
	}
	return s.repo.ListByDocument(ctx, s.db, documentType, documentID)
}
