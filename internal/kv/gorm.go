package kv

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is the row type backing GormStore.
type Record struct {
	Key       string `gorm:"primaryKey;column:kv_key;size:512"`
	Value     []byte
	UpdatedAt time.Time
}

func (Record) TableName() string { return "kv_entries" }

type GormStore struct {
	DB *gorm.DB
}

// NewGormStore migrates the kv_entries table and returns a store over it.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}
	return &GormStore{DB: db}, nil
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec Record
	err := s.DB.WithContext(ctx).First(&rec, "kv_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.Value, nil
}

func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	rec := Record{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.DB.WithContext(ctx).Delete(&Record{}, "kv_key = ?", key).Error
}

func (s *GormStore) Scan(ctx context.Context, prefix string) ([]Entry, error) {
	var recs []Record
	err := s.DB.WithContext(ctx).
		Where("kv_key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Order("kv_key").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(recs))
	for _, r := range recs {
		entries = append(entries, Entry{Key: r.Key, Value: r.Value})
	}
	return entries, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
