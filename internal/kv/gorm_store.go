package kv

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/minhtvo/storefront-gateway/config"
	"github.com/minhtvo/storefront-gateway/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Snapshot is one persisted key-value row
type Snapshot struct {
	Key       string     `gorm:"primaryKey;column:key;size:255"`
	Value     string     `gorm:"type:text;not null"`
	ExpiresAt *time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (Snapshot) TableName() string {
	return "snapshots"
}

// GormStore is the durable snapshot backend. Unlike Redis there is no native
// TTL, so expired rows stay until Sweep collects them.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(cfg *config.PostgresConfig) (*GormStore, error) {
	logger.Info("Initializing Postgres snapshot store", map[string]interface{}{
		"host": cfg.Host,
		"db":   cfg.DBName,
	})

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	return NewGormStoreWithDB(db)
}

// NewGormStoreWithDB wraps an existing gorm connection (tests use SQLite here)
func NewGormStoreWithDB(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Snapshot{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(ctx context.Context, key string, into interface{}) error {
	var row Snapshot
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if row.ExpiresAt != nil && time.Now().After(*row.ExpiresAt) {
		return ErrNotFound
	}
	if err := json.Unmarshal([]byte(row.Value), into); err != nil {
		return ErrCorrupt
	}
	return nil
}

func (s *GormStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	row := Snapshot{Key: key, Value: string(data)}
	if ttl > 0 {
		expires := time.Now().Add(ttl)
		row.ExpiresAt = &expires
	}

	return s.db.WithContext(ctx).Save(&row).Error
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&Snapshot{}, "key = ?", key).Error
}

func (s *GormStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).
		Model(&Snapshot{}).
		Where("key LIKE ?", prefix+"%").
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Pluck("key", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Sweep deletes expired rows and returns how many were removed
func (s *GormStore) Sweep(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now()).
		Delete(&Snapshot{})
	return result.RowsAffected, result.Error
}
