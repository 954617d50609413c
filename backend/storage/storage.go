package storage

import (
	"errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Record is one persisted client-side value: an opaque string under a
// well-known key, the way the browser build kept localStorage entries.
type Record struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

// Keys the rest of the app reads and writes.
const (
	KeyUser  = "user"
	KeyToken = "token"
)

type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Get returns the stored value and whether the key was present at all.
func (s *Store) Get(key string) (string, bool, error) {
	var rec Record
	err := s.db.First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.Value, true, nil
}

// Set writes or overwrites the value under key.
func (s *Store) Set(key, value string) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&Record{Key: key, Value: value}).Error
}

// Delete removes the given keys. Missing keys are not an error.
func (s *Store) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.Delete(&Record{}, "key IN ?", keys).Error
}
