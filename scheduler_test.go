package signalx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptoriginal/signalx/pkg/core"
)

func TestBot_MutedDedup(t *testing.T) {
	bot := newTestBot(t, &fakeFeeder{})

	suggestion := core.Suggestion{Pair: "BTCUSDT", Direction: core.DirectionLong}
	other := core.Suggestion{Pair: "BTCUSDT", Direction: core.DirectionShort}

	assert.False(t, bot.muted(42, suggestion, time.Hour))

	bot.markSent(42, suggestion)

	assert.True(t, bot.muted(42, suggestion, time.Hour))
	assert.False(t, bot.muted(42, other, time.Hour), "direction is part of the dedup key")
	assert.False(t, bot.muted(7, suggestion, time.Hour), "dedup is per chat")
	assert.False(t, bot.muted(42, suggestion, 0), "zero interval never mutes")
}

func TestBot_StaleRunsDropped(t *testing.T) {
	bot := newTestBot(t, &fakeFeeder{})

	require.NoError(t, bot.Watch(42, time.Hour))
	require.NoError(t, bot.Unwatch(42))

	_, ok := bot.nextRun()
	assert.False(t, ok, "canceled watch leaves no runnable entry")

	// replacing a watch invalidates the earlier scheduled run
	require.NoError(t, bot.Watch(42, time.Hour))
	require.NoError(t, bot.Watch(42, 30*time.Minute))

	run, ok := bot.nextRun()
	require.True(t, ok)
	assert.Equal(t, 30*time.Minute, run.interval)
}

func TestBot_RunDueDeliversAndReschedules(t *testing.T) {
	feeder := &fakeFeeder{
		pairs:   []core.PairVolume{{Pair: "BTCUSDT", QuoteVolume: 90_000_000}},
		candles: map[string][]core.Candle{"BTCUSDT": signalCandles("BTCUSDT")},
	}
	bot := newTestBot(t, feeder)

	ft := newFakeTelegram()
	bot.telegram = ft

	require.NoError(t, bot.Watch(42, time.Hour))
	bot.runDue(context.Background())

	messages := ft.chatMessages(42)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "📌 *BTCUSDT*")
	assert.Empty(t, ft.broadcast, "watch hits go to the chat, not the broadcast list")

	// the next occurrence is scheduled one interval out
	run, ok := bot.nextRun()
	require.True(t, ok)
	assert.True(t, run.at.After(time.Now().Add(30*time.Minute)))

	// nothing due yet, nothing delivered
	bot.runDue(context.Background())
	require.Len(t, ft.chatMessages(42), 1)

	// force an immediate rerun: the same setup within the interval is muted
	bot.mu.Lock()
	bot.queue.Push(watchRun{chatID: 42, interval: time.Hour, at: time.Now(), seq: bot.watchSeq[42]})
	bot.mu.Unlock()

	bot.runDue(context.Background())
	require.Len(t, ft.chatMessages(42), 1, "repeated setup within the interval is not resent")
}

func TestBot_RunSchedulerEndToEnd(t *testing.T) {
	feeder := &fakeFeeder{
		pairs:   []core.PairVolume{{Pair: "BTCUSDT", QuoteVolume: 90_000_000}},
		candles: map[string][]core.Candle{"BTCUSDT": quietCandles("BTCUSDT", 60)},
	}
	bot := newTestBot(t, feeder)

	ft := newFakeTelegram()
	bot.telegram = ft
	bot.notifier = ft

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- bot.Run(ctx)
	}()

	require.NoError(t, bot.Watch(7, time.Hour))

	require.Eventually(t, func() bool {
		return !bot.Status().LastScanAt.IsZero()
	}, 2*time.Second, 10*time.Millisecond, "the due watch should trigger a scan")

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.True(t, ft.started)
	assert.Contains(t, ft.broadcast, "Bot stopped.")
	assert.Empty(t, ft.chatMessages(7), "a quiet market sends nothing")
}

func TestBot_NotifyChatFallback(t *testing.T) {
	bot := newTestBot(t, &fakeFeeder{})

	ft := newFakeTelegram()
	bot.notifier = ft

	bot.notifyChat(42, "hello")

	assert.Empty(t, ft.chatMessages(42))
	assert.Contains(t, ft.broadcast, "hello")
}
