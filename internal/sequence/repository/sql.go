package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/smallbiznis/gstbilling/internal/sequence/domain"
	"gorm.io/gorm"
)

type sqlStore struct {
	db *gorm.DB
}

// NewSQLStore keeps counters in the sequence_counters table.
func NewSQLStore(db *gorm.DB) domain.Store {
	return &sqlStore{db: db}
}

func (s *sqlStore) Increment(ctx context.Context, counterID string) (int64, error) {
	now := time.Now().UTC()
	if s.db.Dialector.Name() == "mysql" {
		return s.incrementMySQL(ctx, counterID, now)
	}

	var value int64
	err := s.db.WithContext(ctx).Raw(
		`INSERT INTO sequence_counters (id, current_value, updated_at)
		 VALUES (?, 1, ?)
		 ON CONFLICT (id) DO UPDATE
		 SET current_value = sequence_counters.current_value + 1,
		     updated_at = excluded.updated_at
		 RETURNING current_value`,
		counterID,
		now,
	).Row().Scan(&value)
	if err != nil {
		return 0, err
	}
	return value, nil
}

// MySQL has no RETURNING; LAST_INSERT_ID(expr) stores the new value on the
// connection, so both statements must share one.
func (s *sqlStore) incrementMySQL(ctx context.Context, counterID string, now time.Time) (int64, error) {
	var value int64
	err := s.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		if err := conn.Exec(
			`INSERT INTO sequence_counters (id, current_value, updated_at)
			 VALUES (?, LAST_INSERT_ID(1), ?)
			 ON DUPLICATE KEY UPDATE
			 current_value = LAST_INSERT_ID(current_value + 1),
			 updated_at = VALUES(updated_at)`,
			counterID,
			now,
		).Error; err != nil {
			return err
		}
		return conn.Raw(`SELECT LAST_INSERT_ID()`).Row().Scan(&value)
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

func (s *sqlStore) Current(ctx context.Context, counterID string) (int64, error) {
	var value int64
	err := s.db.WithContext(ctx).Raw(
		`SELECT current_value FROM sequence_counters WHERE id = ?`,
		counterID,
	).Row().Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return value, nil
}
