package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Direction represents the side of a suggested trade
type Direction string

const (
	DirectionLong  Direction = "Long"
	DirectionShort Direction = "Short"
)

// Suggestion is a single trade idea produced by a market scan.
// Prices are quoted in the pair's quote asset.
type Suggestion struct {
	ID          int64     `db:"id" json:"id" gorm:"primaryKey,autoIncrement"`
	Pair        string    `db:"pair" json:"pair"`
	Direction   Direction `db:"direction" json:"direction"`
	Entry       float64   `db:"entry" json:"entry"`
	StopLoss    float64   `db:"stop_loss" json:"stop_loss"`
	TakeProfit  float64   `db:"take_profit" json:"take_profit"`
	RiskReward  float64   `db:"risk_reward" json:"risk_reward"`
	QuoteVolume float64   `db:"quote_volume" json:"quote_volume"`
	Reason      string    `db:"reason" json:"reason"`
	Commentary  string    `db:"commentary" json:"commentary"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// IsLong returns true for long suggestions
func (s Suggestion) IsLong() bool {
	return s.Direction == DirectionLong
}

// Risk returns the distance between entry and stop-loss
func (s Suggestion) Risk() float64 {
	return math.Abs(s.Entry - s.StopLoss)
}

// Reward returns the distance between entry and take-profit
func (s Suggestion) Reward() float64 {
	return math.Abs(s.TakeProfit - s.Entry)
}

// Text renders the suggestion as a Telegram Markdown message
func (s Suggestion) Text() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📌 *%s*  \n", s.Pair))
	sb.WriteString(fmt.Sprintf("Direction: *%s*  \n", s.Direction))
	sb.WriteString(fmt.Sprintf("Entry: `%s`  \n", FormatPrice(s.Entry)))
	sb.WriteString(fmt.Sprintf("Stop-Loss: `%s`  \n", FormatPrice(s.StopLoss)))
	sb.WriteString(fmt.Sprintf("Take-Profit: `%s`  \n", FormatPrice(s.TakeProfit)))
	sb.WriteString(fmt.Sprintf("RR: `%s`  \n", formatFloat(Round(s.RiskReward, 2))))
	sb.WriteString(fmt.Sprintf("24h Volume: `$%s`  \n", FormatQuoteVolume(s.QuoteVolume)))
	sb.WriteString(fmt.Sprintf("Reason: _%s_", s.Reason))

	if s.Commentary != "" {
		sb.WriteString(fmt.Sprintf("\n💬 %s", s.Commentary))
	}

	return sb.String()
}

func (s Suggestion) String() string {
	return fmt.Sprintf("%s %s entry %s sl %s tp %s rr %s",
		s.Pair, s.Direction,
		FormatPrice(s.Entry), FormatPrice(s.StopLoss), FormatPrice(s.TakeProfit),
		formatFloat(Round(s.RiskReward, 2)))
}

// Round rounds v to the given number of decimal places
func Round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

// FormatPrice renders a price rounded to 6 decimal places
func FormatPrice(v float64) string {
	return formatFloat(Round(v, 6))
}

// FormatQuoteVolume renders a quote volume rounded to 2 decimal places
// with thousands separators, e.g. 45,000,000.0
func FormatQuoteVolume(v float64) string {
	s := formatFloat(Round(v, 2))

	intPart, decPart, _ := strings.Cut(s, ".")

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	// Insert a comma every three digits from the right
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, ",") + "." + decPart
	if neg {
		out = "-" + out
	}
	return out
}

// formatFloat renders the shortest decimal form, always keeping at
// least one decimal digit (50000 renders as 50000.0)
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
