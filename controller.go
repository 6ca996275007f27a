package signalx

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/cryptoriginal/signalx/pkg/core"
)

// Suggest scans the market, persists every setup found and returns them
func (b *Bot) Suggest(ctx context.Context) ([]core.Suggestion, error) {
	suggestions, err := b.scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}

	for i := range suggestions {
		if err := b.storage.CreateSuggestion(&suggestions[i]); err != nil {
			b.log.WithError(err).Error("failed to persist suggestion")
		}
	}

	b.mu.Lock()
	b.lastStats = b.scanner.Stats()
	b.lastSuggestions = suggestions
	b.mu.Unlock()

	return suggestions, nil
}

// Pairs returns the pairs currently eligible for scanning
func (b *Bot) Pairs(ctx context.Context) ([]core.PairVolume, error) {
	return b.feeder.HighVolumePairs(ctx, b.settings.Scan.MinQuoteVolume)
}

// History returns the most recent stored suggestions, newest first
func (b *Bot) History(pair string, limit int) ([]core.Suggestion, error) {
	filters := []core.SuggestionFilter{}
	if pair != "" {
		filters = append(filters, core.WithPair(pair))
	}

	stored, err := b.storage.Suggestions(filters...)
	if err != nil {
		return nil, err
	}

	suggestions := lo.Map(stored, func(suggestion *core.Suggestion, _ int) core.Suggestion {
		return *suggestion
	})
	lo.Reverse(suggestions)

	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	return suggestions, nil
}

// Watch schedules a periodic scan for the chat, replacing any previous watch
func (b *Bot) Watch(chatID int64, interval time.Duration) error {
	subscription := core.Subscription{ChatID: chatID, Interval: interval}
	if err := b.storage.SaveSubscription(&subscription); err != nil {
		return err
	}

	b.mu.Lock()
	b.watches[chatID] = interval
	b.watchSeq[chatID]++
	b.queue.Push(watchRun{
		chatID:   chatID,
		interval: interval,
		at:       time.Now(),
		seq:      b.watchSeq[chatID],
	})
	b.mu.Unlock()

	b.poke()

	b.log.WithFields(map[string]interface{}{
		"chat_id":  chatID,
		"interval": interval.String(),
	}).Info("watch scheduled")

	return nil
}

// Unwatch cancels the periodic scan for the chat
func (b *Bot) Unwatch(chatID int64) error {
	if err := b.storage.DeleteSubscription(chatID); err != nil {
		return err
	}

	b.mu.Lock()
	delete(b.watches, chatID)
	b.watchSeq[chatID]++
	b.mu.Unlock()

	b.poke()

	b.log.WithField("chat_id", chatID).Info("watch canceled")
	return nil
}

// Status reports a snapshot of the bot runtime state
func (b *Bot) Status() core.Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	return core.Status{
		StartedAt:    b.startedAt,
		LastScanAt:   b.lastStats.StartedAt,
		LastScanTook: b.lastStats.Duration,
		PairsScanned: b.lastStats.PairsScanned,
		Found:        b.lastStats.Found,
		Watches:      len(b.watches),
	}
}
