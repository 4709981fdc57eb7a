package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kendall-kelly/cleanrush-laundry-api/models"
)

// GormStore keeps the order collection in one row of order_snapshots
type GormStore struct {
	db  *gorm.DB
	key string
}

// NewGormStore wraps an already migrated database
func NewGormStore(db *gorm.DB, key string) *GormStore {
	return &GormStore{db: db, key: key}
}

// Name identifies the backend
func (s *GormStore) Name() string { return s.db.Dialector.Name() }

// Load reads the snapshot row for the storage key
func (s *GormStore) Load(ctx context.Context) ([]models.Order, error) {
	var snap models.OrderSnapshot
	err := s.db.WithContext(ctx).Where(&models.OrderSnapshot{Key: s.key}).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []models.Order{}, nil
	}
	if err != nil {
		return nil, unavailable(s.Name(), "select", err)
	}
	return decodeOrders([]byte(snap.Payload), s.Name()), nil
}

// Save upserts the snapshot row in a single statement
func (s *GormStore) Save(ctx context.Context, orders []models.Order) error {
	data, err := encodeOrders(orders)
	if err != nil {
		return err
	}

	snap := models.OrderSnapshot{Key: s.key, Payload: string(data)}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&snap).Error
	if err != nil {
		return unavailable(s.Name(), "upsert", err)
	}
	return nil
}

// Clear deletes the snapshot row
func (s *GormStore) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where(&models.OrderSnapshot{Key: s.key}).Delete(&models.OrderSnapshot{}).Error; err != nil {
		return unavailable(s.Name(), "delete", err)
	}
	return nil
}

// Ping checks the underlying connection
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return unavailable(s.Name(), "get connection", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return unavailable(s.Name(), "ping", err)
	}
	return nil
}
