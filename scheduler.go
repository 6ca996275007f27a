package signalx

import (
	"context"
	"fmt"
	"time"

	"github.com/cryptoriginal/signalx/pkg/core"
)

// watchRun is one scheduled scan occurrence for a chat
type watchRun struct {
	chatID   int64
	interval time.Duration
	at       time.Time
	seq      int
}

// Less makes watchRun a core.Item, earliest due time first
func (w watchRun) Less(other core.Item) bool {
	return w.at.Before(other.(watchRun).at)
}

// poke wakes the scheduler after the queue has changed
func (b *Bot) poke() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// scheduler fires due watch runs one at a time, so scheduled scans
// never overlap. It returns when the context is canceled.
func (b *Bot) scheduler(ctx context.Context) {
	for {
		next, ok := b.nextRun()

		var timer *time.Timer
		var fire <-chan time.Time
		if ok {
			timer = time.NewTimer(time.Until(next.at))
			fire = timer.C
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-b.wake:
			if timer != nil {
				timer.Stop()
			}
		case <-fire:
			b.runDue(ctx)
		}
	}
}

// nextRun returns the earliest pending run, dropping stale entries
// left behind by Unwatch or a replaced watch.
func (b *Bot) nextRun() (watchRun, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for b.queue.Len() > 0 {
		run := b.queue.Peek().(watchRun)
		if b.watchSeq[run.chatID] != run.seq {
			b.queue.Pop()
			continue
		}
		return run, true
	}

	return watchRun{}, false
}

// runDue executes every run that is due now
func (b *Bot) runDue(ctx context.Context) {
	for {
		run, ok := b.popDue()
		if !ok {
			return
		}

		b.runWatch(ctx, run)
	}
}

// popDue pops the next valid due run, if any
func (b *Bot) popDue() (watchRun, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for b.queue.Len() > 0 {
		run := b.queue.Peek().(watchRun)
		if b.watchSeq[run.chatID] != run.seq {
			b.queue.Pop()
			continue
		}
		if run.at.After(time.Now()) {
			return watchRun{}, false
		}
		b.queue.Pop()
		return run, true
	}

	return watchRun{}, false
}

// runWatch executes one scheduled scan and pushes fresh setups to the
// watching chat. A pair and direction already delivered to the chat
// within the interval is not repeated.
func (b *Bot) runWatch(ctx context.Context, run watchRun) {
	b.log.WithFields(map[string]interface{}{
		"chat_id":  run.chatID,
		"interval": run.interval.String(),
	}).Info("[WATCH] Scanning")

	suggestions, err := b.Suggest(ctx)
	switch {
	case err != nil && ctx.Err() != nil:
		return
	case err != nil:
		b.log.WithError(err).Error("[WATCH] scan failed")
		b.notifyChat(run.chatID, fmt.Sprintf("❌ Error generating suggestions: %v", err))
	default:
		for _, suggestion := range suggestions {
			if b.muted(run.chatID, suggestion, run.interval) {
				continue
			}
			b.notifyChat(run.chatID, suggestion.Text())
			b.markSent(run.chatID, suggestion)
		}
	}

	// Schedule the next occurrence only after this one finished
	b.mu.Lock()
	if b.watchSeq[run.chatID] == run.seq {
		b.queue.Push(watchRun{
			chatID:   run.chatID,
			interval: run.interval,
			at:       time.Now().Add(run.interval),
			seq:      run.seq,
		})
	}
	b.mu.Unlock()
}

// muted reports whether the chat already received this pair and
// direction within the watch interval
func (b *Bot) muted(chatID int64, suggestion core.Suggestion, interval time.Duration) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	sentAt, ok := b.sent[chatID][sentKey(suggestion)]
	return ok && time.Since(sentAt) < interval
}

// markSent remembers a delivery for dedup
func (b *Bot) markSent(chatID int64, suggestion core.Suggestion) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sent[chatID] == nil {
		b.sent[chatID] = make(map[string]time.Time)
	}
	b.sent[chatID][sentKey(suggestion)] = time.Now()
}

func sentKey(suggestion core.Suggestion) string {
	return suggestion.Pair + "/" + string(suggestion.Direction)
}

// notifyChat prefers the per-chat channel and falls back to broadcast
func (b *Bot) notifyChat(chatID int64, text string) {
	if chatNotifier, ok := b.telegram.(core.ChatNotifier); ok {
		chatNotifier.NotifyChat(chatID, text)
		return
	}

	if b.notifier != nil {
		b.notifier.Notify(text)
	}
}
