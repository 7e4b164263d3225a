package device_store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceEntry is one row of the postgres driver.
type DeviceEntry struct {
	DeviceID  string     `gorm:"type:varchar(64);primaryKey"`
	Key       string     `gorm:"type:varchar(64);primaryKey"`
	Value     []byte     `gorm:"type:bytea;not null"`
	ExpiresAt *time.Time `gorm:"index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

func (DeviceEntry) TableName() string {
	return "device_entries"
}

// GormStore keeps device state in a postgres table. Expired rows are treated
// as missing and removed lazily on read.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

// Migrate creates the device_entries table.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&DeviceEntry{})
}

func (s *GormStore) Get(ctx context.Context, deviceID, key string) ([]byte, error) {
	var entry DeviceEntry
	err := s.db.WithContext(ctx).
		Where("device_id = ? AND key = ?", deviceID, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if entry.ExpiresAt != nil && time.Now().After(*entry.ExpiresAt) {
		_ = s.Delete(ctx, deviceID, key)
		return nil, ErrNotFound
	}
	return entry.Value, nil
}

func (s *GormStore) Set(ctx context.Context, deviceID, key string, value []byte, ttl time.Duration) error {
	entry := DeviceEntry{DeviceID: deviceID, Key: key, Value: value}
	if ttl > 0 {
		exp := time.Now().Add(ttl).UTC()
		entry.ExpiresAt = &exp
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
}

func (s *GormStore) Delete(ctx context.Context, deviceID, key string) error {
	return s.db.WithContext(ctx).
		Where("device_id = ? AND key = ?", deviceID, key).
		Delete(&DeviceEntry{}).Error
}
