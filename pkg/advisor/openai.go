// Package advisor annotates detected trade setups with a short
// model-written review before they reach the user.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cryptoriginal/signalx/pkg/core"
	"github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4-turbo-preview"

// recentCandles is how much price history the model sees.
const recentCandles = 20

// OpenAI reviews setups through the OpenAI chat completion API.
type OpenAI struct {
	client  *openai.Client
	model   string
	baseURL string
}

// Option is a function that configures an OpenAI advisor
type Option func(*OpenAI)

// WithModel overrides the default completion model
func WithModel(model string) Option {
	return func(a *OpenAI) {
		if model != "" {
			a.model = model
		}
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint,
// e.g. a local gateway or proxy
func WithBaseURL(baseURL string) Option {
	return func(a *OpenAI) {
		a.baseURL = baseURL
	}
}

// NewOpenAI creates a new advisor backed by the OpenAI API
func NewOpenAI(apiKey string, options ...Option) *OpenAI {
	advisor := &OpenAI{
		model: DefaultModel,
	}

	for _, option := range options {
		option(advisor)
	}

	config := openai.DefaultConfig(apiKey)
	if advisor.baseURL != "" {
		config.BaseURL = advisor.baseURL
	}
	advisor.client = openai.NewClientWithConfig(config)

	return advisor
}

// Commentary sends the setup and recent market data to the model and
// returns a one-line verdict with reasoning.
func (a *OpenAI) Commentary(ctx context.Context, suggestion core.Suggestion, df *core.Dataframe) (string, error) {
	// Prepare market data for analysis
	marketData := a.prepareMarketData(df)

	// Create the prompt for the model
	prompt := a.createReviewPrompt(suggestion, marketData)

	// Call the chat completion API
	resp, err := a.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: a.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: a.getSystemPrompt(),
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.1, // Low temperature for more consistent responses
		},
	)

	if err != nil {
		return "", fmt.Errorf("ChatGPT API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from ChatGPT")
	}

	// Parse the response
	content := resp.Choices[0].Message.Content

	// Extract the JSON part from the response
	jsonStr := extractJSON(content)
	if jsonStr == "" {
		return "", fmt.Errorf("could not extract JSON from response: %s", content)
	}

	// Parse the JSON
	var result struct {
		Verdict    string `json:"verdict"`
		Commentary string `json:"commentary"`
	}

	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return "", fmt.Errorf("failed to parse JSON response: %w", err)
	}

	// Validate the verdict
	verdict := strings.ToLower(result.Verdict)
	if verdict != "take" && verdict != "skip" && verdict != "neutral" {
		return "", fmt.Errorf("invalid verdict: %s", result.Verdict)
	}

	return fmt.Sprintf("%s: %s", strings.ToUpper(verdict), result.Commentary), nil
}

// prepareMarketData prepares market data for analysis
func (a *OpenAI) prepareMarketData(df *core.Dataframe) map[string]any {
	// Get the last candles for analysis
	numCandles := recentCandles
	if len(df.Close) < numCandles {
		numCandles = len(df.Close)
	}

	// Extract recent price data
	recentPrices := make([]float64, numCandles)
	recentVolumes := make([]float64, numCandles)
	recentTimes := make([]string, numCandles)

	for i := 0; i < numCandles; i++ {
		idx := len(df.Close) - numCandles + i
		recentPrices[i] = df.Close[idx]
		recentVolumes[i] = df.Volume[idx]
		recentTimes[i] = df.Time[idx].Format(time.RFC3339)
	}

	// Create market data object
	return map[string]any{
		"current_price":  df.Close.Last(0),
		"recent_prices":  recentPrices,
		"recent_volumes": recentVolumes,
		"recent_times":   recentTimes,
		"indicators": map[string]any{
			"ema7":     df.Metadata["ema7"].Last(0),
			"ema30":    df.Metadata["ema30"].Last(0),
			"rsi":      df.Metadata["rsi"].Last(0),
			"vol_ma20": df.Metadata["vol_ma20"].Last(0),
		},
	}
}

// createReviewPrompt creates the prompt for the model
func (a *OpenAI) createReviewPrompt(suggestion core.Suggestion, marketData map[string]any) string {
	// Convert market data to JSON
	marketDataJSON, _ := json.MarshalIndent(marketData, "", "  ")

	return fmt.Sprintf(`Review the following %s scalp setup for %s.

Setup:
Entry: %v
Stop-Loss: %v
Take-Profit: %v
Risk/Reward: %v
Reason: %s

Market Data:
%s

Based on this data, judge whether the setup is worth taking and explain briefly.
Respond with a JSON object containing "verdict" and "commentary" fields.
`,
		suggestion.Direction,
		suggestion.Pair,
		suggestion.Entry,
		suggestion.StopLoss,
		suggestion.TakeProfit,
		suggestion.RiskReward,
		suggestion.Reason,
		string(marketDataJSON),
	)
}

// getSystemPrompt returns the system prompt for the model
func (a *OpenAI) getSystemPrompt() string {
	return `You are an expert cryptocurrency scalp trader. Your task is to review proposed trade setups against recent market data.

You should consider:
1. Technical indicators (EMA, RSI, volume)
2. Price action and patterns
3. The quality of the stop-loss and take-profit placement

For each review, provide:
1. A clear verdict: "take", "skip", or "neutral"
2. A concise commentary of one or two sentences

Your response must be in valid JSON format with the following structure:
{
  "verdict": "take|skip|neutral",
  "commentary": "Your brief assessment here"
}

Be decisive and clear in your recommendations. Focus on risk first.`
}

// extractJSON extracts JSON from a string
func extractJSON(content string) string {
	// Find the first { and the last }
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")

	if start == -1 || end == -1 || end <= start {
		return ""
	}

	return content[start : end+1]
}
