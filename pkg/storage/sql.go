package storage

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cryptoriginal/signalx/pkg/core"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// SQLStorage implements core.Storage using a SQL database via GORM
type SQLStorage struct {
	db *gorm.DB
}

// FromSQL creates a new SQL storage instance
func FromSQL(dialect gorm.Dialector, opts ...gorm.Option) (*SQLStorage, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = db.AutoMigrate(&core.Suggestion{}, &core.Subscription{})
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLStorage{
		db: db,
	}, nil
}

// CreateSuggestion creates a new suggestion in the SQL database
func (s *SQLStorage) CreateSuggestion(suggestion *core.Suggestion) error {
	if suggestion.CreatedAt.IsZero() {
		suggestion.CreatedAt = time.Now().UTC()
	}

	result := s.db.Create(suggestion)
	if result.Error != nil {
		return fmt.Errorf("failed to create suggestion: %w", result.Error)
	}

	return nil
}

// Suggestions retrieves suggestions based on provided filters, ordered
// by creation time ascending
func (s *SQLStorage) Suggestions(filters ...core.SuggestionFilter) ([]*core.Suggestion, error) {
	var suggestions []*core.Suggestion

	result := s.db.Order("created_at asc").Find(&suggestions)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch suggestions: %w", result.Error)
	}

	// Apply filters in memory, same semantics as the BuntDB backend
	filtered := lo.Filter(suggestions, func(suggestion *core.Suggestion, _ int) bool {
		for _, filter := range filters {
			if !filter(*suggestion) {
				return false
			}
		}
		return true
	})

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
	})

	return filtered, nil
}

// SaveSubscription stores or updates a watch subscription
func (s *SQLStorage) SaveSubscription(subscription *core.Subscription) error {
	if subscription.CreatedAt.IsZero() {
		subscription.CreatedAt = time.Now().UTC()
	}

	result := s.db.Save(subscription)
	if result.Error != nil {
		return fmt.Errorf("failed to save subscription: %w", result.Error)
	}

	return nil
}

// DeleteSubscription removes a watch subscription
func (s *SQLStorage) DeleteSubscription(chatID int64) error {
	result := s.db.Delete(&core.Subscription{}, "chat_id = ?", chatID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("subscription %d: %w", chatID, ErrNotFound)
	}

	return nil
}

// Subscriptions returns all stored watch subscriptions
func (s *SQLStorage) Subscriptions() ([]*core.Subscription, error) {
	var subscriptions []*core.Subscription

	result := s.db.Find(&subscriptions)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch subscriptions: %w", result.Error)
	}

	return subscriptions, nil
}

// Close closes the database connection
func (s *SQLStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
