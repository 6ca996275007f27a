// Package storage persists suggestion history and watch subscriptions.
// BuntDB is the default backend, a GORM variant is available for SQL
// databases.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cryptoriginal/signalx/pkg/core"
	"github.com/tidwall/buntdb"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

const (
	suggestionPrefix   = "s:"
	subscriptionPrefix = "w:"
)

// BuntStorage implements core.Storage using BuntDB
type BuntStorage struct {
	lastID int64
	db     *buntdb.DB
}

// FromMemory creates an in-memory storage
func FromMemory() (*BuntStorage, error) {
	return NewBuntStorage(":memory:")
}

// FromFile creates a file-based storage
func FromFile(file string) (*BuntStorage, error) {
	return NewBuntStorage(file)
}

// NewBuntStorage creates a new BuntDB storage instance
func NewBuntStorage(sourceFile string) (*BuntStorage, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	err = db.CreateIndex("created_index", suggestionPrefix+"*", buntdb.IndexJSON("created_at"))
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	storage := &BuntStorage{db: db}

	// Resume the ID sequence from existing records
	err = db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(suggestionPrefix+"*", func(key, _ string) bool {
			if id, err := strconv.ParseInt(strings.TrimPrefix(key, suggestionPrefix), 10, 64); err == nil && id > storage.lastID {
				storage.lastID = id
			}
			return true
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read existing ids: %w", err)
	}

	return storage, nil
}

// getID generates a unique ID for suggestions
func (b *BuntStorage) getID() int64 {
	return atomic.AddInt64(&b.lastID, 1)
}

// CreateSuggestion stores a new suggestion in the database
func (b *BuntStorage) CreateSuggestion(suggestion *core.Suggestion) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		suggestion.ID = b.getID()
		if suggestion.CreatedAt.IsZero() {
			suggestion.CreatedAt = time.Now().UTC()
		}

		content, err := json.Marshal(suggestion)
		if err != nil {
			return fmt.Errorf("failed to marshal suggestion: %w", err)
		}

		_, _, err = tx.Set(suggestionPrefix+strconv.FormatInt(suggestion.ID, 10), string(content), nil)
		if err != nil {
			return fmt.Errorf("failed to store suggestion: %w", err)
		}

		return nil
	})
}

// Suggestions retrieves suggestions based on provided filters, ordered
// by creation time ascending
func (b *BuntStorage) Suggestions(filters ...core.SuggestionFilter) ([]*core.Suggestion, error) {
	suggestions := make([]*core.Suggestion, 0)

	err := b.db.View(func(tx *buntdb.Tx) error {
		return tx.Ascend("created_index", func(_, value string) bool {
			var suggestion core.Suggestion
			if err := json.Unmarshal([]byte(value), &suggestion); err != nil {
				return true // Skip malformed records and continue
			}

			for _, filter := range filters {
				if !filter(suggestion) {
					return true
				}
			}

			suggestions = append(suggestions, &suggestion)
			return true
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over suggestions: %w", err)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].CreatedAt.Before(suggestions[j].CreatedAt)
	})

	return suggestions, nil
}

// SaveSubscription stores or updates a watch subscription
func (b *BuntStorage) SaveSubscription(subscription *core.Subscription) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		if subscription.CreatedAt.IsZero() {
			subscription.CreatedAt = time.Now().UTC()
		}

		content, err := json.Marshal(subscription)
		if err != nil {
			return fmt.Errorf("failed to marshal subscription: %w", err)
		}

		_, _, err = tx.Set(subscriptionPrefix+strconv.FormatInt(subscription.ChatID, 10), string(content), nil)
		if err != nil {
			return fmt.Errorf("failed to store subscription: %w", err)
		}

		return nil
	})
}

// DeleteSubscription removes a watch subscription
func (b *BuntStorage) DeleteSubscription(chatID int64) error {
	err := b.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(subscriptionPrefix + strconv.FormatInt(chatID, 10))
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return fmt.Errorf("subscription %d: %w", chatID, ErrNotFound)
	}
	return err
}

// Subscriptions returns all stored watch subscriptions
func (b *BuntStorage) Subscriptions() ([]*core.Subscription, error) {
	subscriptions := make([]*core.Subscription, 0)

	err := b.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(subscriptionPrefix+"*", func(_, value string) bool {
			var subscription core.Subscription
			if err := json.Unmarshal([]byte(value), &subscription); err != nil {
				return true
			}
			subscriptions = append(subscriptions, &subscription)
			return true
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over subscriptions: %w", err)
	}

	return subscriptions, nil
}

// Close closes the database connection
func (b *BuntStorage) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
