package settings

import (
	"errors"
	"sync"
	"time"

	apperrors "github.com/gdelafosse/seerrbridge/internal/errors"
	"github.com/gdelafosse/seerrbridge/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persisted settings capability consumed by the core.
// Implementations must return a CodeNotFound error for absent keys.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// GormStore persists settings in the application database
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a settings store backed by the given database
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get retrieves a setting value by key
func (s *GormStore) Get(key string) (string, error) {
	var setting models.Setting
	err := s.db.First(&setting, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFoundError("setting", key)
		}
		return "", apperrors.DatabaseError("failed to read setting", err)
	}
	return setting.Value, nil
}

// Set stores a setting value, inserting or updating as needed
func (s *GormStore) Set(key, value string) error {
	setting := models.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return apperrors.DatabaseError("failed to write setting", err)
	}
	return nil
}

// Delete removes a setting. Deleting an absent key is not an error.
func (s *GormStore) Delete(key string) error {
	err := s.db.Delete(&models.Setting{}, "key = ?", key).Error
	if err != nil {
		return apperrors.DatabaseError("failed to delete setting", err)
	}
	return nil
}

// MemoryStore is an in-memory settings store for tests
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory settings store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get retrieves a value by key
func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return "", apperrors.NotFoundError("setting", key)
	}
	return value, nil
}

// Set stores a value
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete removes a value
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
