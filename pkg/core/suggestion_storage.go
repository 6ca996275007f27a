package core

import (
	"time"
)

// SuggestionFilter defines a function type for filtering suggestions
type SuggestionFilter func(suggestion Suggestion) bool

// SuggestionStorage defines the interface for suggestion persistence
type SuggestionStorage interface {
	// CreateSuggestion stores a new suggestion
	CreateSuggestion(suggestion *Suggestion) error

	// Suggestions retrieves suggestions based on provided filters,
	// ordered by creation time ascending
	Suggestions(filters ...SuggestionFilter) ([]*Suggestion, error)
}

// Subscription is a chat subscribed to scheduled scans
type Subscription struct {
	ChatID    int64         `db:"chat_id" json:"chat_id" gorm:"primaryKey"`
	Interval  time.Duration `db:"interval" json:"interval"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// SubscriptionStorage persists scheduled scan subscriptions
type SubscriptionStorage interface {
	SaveSubscription(subscription *Subscription) error
	DeleteSubscription(chatID int64) error
	Subscriptions() ([]*Subscription, error)
}

// Storage combines all persistence concerns of the bot
type Storage interface {
	SuggestionStorage
	SubscriptionStorage
	Close() error
}

func WithPair(pair string) SuggestionFilter {
	return func(suggestion Suggestion) bool {
		return suggestion.Pair == pair
	}
}

func WithDirection(direction Direction) SuggestionFilter {
	return func(suggestion Suggestion) bool {
		return suggestion.Direction == direction
	}
}

func WithCreatedAfter(time time.Time) SuggestionFilter {
	return func(suggestion Suggestion) bool {
		return suggestion.CreatedAt.After(time)
	}
}

func WithCreatedBeforeOrEqual(time time.Time) SuggestionFilter {
	return func(suggestion Suggestion) bool {
		return !suggestion.CreatedAt.After(time)
	}
}
