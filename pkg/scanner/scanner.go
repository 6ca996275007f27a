// Package scanner implements the market scan engine: it walks the
// high volume pairs of an exchange in volume order, evaluates the
// signal rules on each and returns the top suggestions.
package scanner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cryptoriginal/signalx/pkg/core"
	"github.com/cryptoriginal/signalx/pkg/logger"
)

// Advisor attaches an optional commentary to a detected suggestion
type Advisor interface {
	Commentary(ctx context.Context, suggestion core.Suggestion, df *core.Dataframe) (string, error)
}

// ProgressFunc is called after each pair has been processed
type ProgressFunc func(done, total int)

// Scanner runs market scans against a feeder
type Scanner struct {
	feeder   core.Feeder
	settings core.ScanSettings
	log      logger.Logger
	advisor  Advisor
	progress ProgressFunc

	mu    sync.Mutex
	stats Stats
}

// Stats describes the last completed scan
type Stats struct {
	StartedAt    time.Time
	Duration     time.Duration
	PairsTotal   int
	PairsScanned int
	PairsSkipped int
	Found        int
	Volumes      []float64
}

// Option is a function that configures a Scanner
type Option func(*Scanner)

// WithAdvisor attaches a commentary advisor to scan results
func WithAdvisor(advisor Advisor) Option {
	return func(s *Scanner) {
		s.advisor = advisor
	}
}

// WithProgress registers a progress callback, used by the CLI
func WithProgress(progress ProgressFunc) Option {
	return func(s *Scanner) {
		s.progress = progress
	}
}

// New creates a scanner with the given feeder and scan settings
func New(feeder core.Feeder, settings core.ScanSettings, log logger.Logger, options ...Option) *Scanner {
	if settings.Concurrency <= 0 {
		settings.Concurrency = 1
	}
	if settings.MaxSuggestions <= 0 {
		settings.MaxSuggestions = 1
	}

	scanner := &Scanner{
		feeder:   feeder,
		settings: settings,
		log:      log,
	}

	for _, option := range options {
		option(scanner)
	}

	return scanner
}

// Stats returns a snapshot of the last completed scan
func (s *Scanner) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Scan walks the high volume pairs in volume order and returns up to
// MaxSuggestions suggestions. Pairs keep their volume priority: a
// suggestion from a lower volume pair never displaces one from a
// higher volume pair. Finding nothing is not an error.
func (s *Scanner) Scan(ctx context.Context) ([]core.Suggestion, error) {
	started := time.Now()

	pairs, err := s.feeder.HighVolumePairs(ctx, s.settings.MinQuoteVolume)
	if err != nil {
		return nil, err
	}

	s.log.Infof("scanning %d pairs with quote volume >= %.0f", len(pairs), s.settings.MinQuoteVolume)

	results := make([]*core.Suggestion, len(pairs))
	semaphore := make(chan struct{}, s.settings.Concurrency)

	var (
		wg      sync.WaitGroup
		found   atomic.Int32
		done    atomic.Int32
		skipped atomic.Int32
	)

	launched := 0
	for i := range pairs {
		// Stop dispatching once enough suggestions are in: every pair
		// not yet launched has a lower volume than all found ones.
		if int(found.Load()) >= s.settings.MaxSuggestions {
			break
		}

		select {
		case semaphore <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		}

		launched++
		wg.Add(1)
		go func(idx int, pair core.PairVolume) {
			defer wg.Done()
			defer func() { <-semaphore }()

			suggestion, skip := s.scanPair(ctx, pair)
			switch {
			case suggestion != nil:
				results[idx] = suggestion
				found.Add(1)
			case skip:
				skipped.Add(1)
			}

			if s.progress != nil {
				s.progress(int(done.Add(1)), len(pairs))
			}

			// Politeness delay between kline fetches
			if s.settings.Politeness > 0 {
				select {
				case <-time.After(s.settings.Politeness):
				case <-ctx.Done():
				}
			}
		}(i, pairs[i])
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	suggestions := make([]core.Suggestion, 0, s.settings.MaxSuggestions)
	for _, result := range results {
		if result == nil {
			continue
		}
		suggestions = append(suggestions, *result)
		if len(suggestions) >= s.settings.MaxSuggestions {
			break
		}
	}

	s.mu.Lock()
	s.stats = Stats{
		StartedAt:    started,
		Duration:     time.Since(started),
		PairsTotal:   len(pairs),
		PairsScanned: launched,
		PairsSkipped: int(skipped.Load()),
		Found:        len(suggestions),
		Volumes:      volumesOf(pairs),
	}
	s.mu.Unlock()

	s.log.Infof("scan finished: %d suggestions from %d pairs in %s",
		len(suggestions), launched, time.Since(started).Round(time.Millisecond))

	return suggestions, nil
}

// scanPair fetches candles for one pair and evaluates it. Fetch
// failures and thin pairs are logged and reported as a skip, never
// failing the whole scan.
func (s *Scanner) scanPair(ctx context.Context, pair core.PairVolume) (suggestion *core.Suggestion, skipped bool) {
	candles, err := s.feeder.CandlesByLimit(ctx, pair.Pair, s.settings.Timeframe, s.settings.KlineLimit)
	if err != nil {
		if ctx.Err() == nil {
			s.log.WithError(err).WithField("pair", pair.Pair).Warn("kline fetch failed, skipping pair")
		}
		return nil, true
	}

	if len(candles) < MinKlines {
		return nil, true
	}

	df := core.NewDataframe(pair.Pair, candles)
	CalculateIndicators(df)

	suggestion = Evaluate(df)
	if suggestion == nil {
		return nil, false
	}

	suggestion.QuoteVolume = core.Round(pair.QuoteVolume, 2)

	if s.advisor != nil {
		s.attachCommentary(ctx, suggestion, df)
	}

	return suggestion, false
}

// attachCommentary asks the advisor for a short note on the suggestion.
// Advisor failures degrade to no commentary.
func (s *Scanner) attachCommentary(ctx context.Context, suggestion *core.Suggestion, df *core.Dataframe) {
	commentary, err := s.advisor.Commentary(ctx, *suggestion, df)
	if err != nil {
		s.log.WithError(err).WithField("pair", suggestion.Pair).Warn("advisor commentary failed")
		return
	}
	suggestion.Commentary = commentary
}

func volumesOf(pairs []core.PairVolume) []float64 {
	volumes := make([]float64, len(pairs))
	for i, pair := range pairs {
		volumes[i] = pair.QuoteVolume
	}
	return volumes
}
