// Package classifier maps free-text status messages to attendance categories
// and extracts leave date ranges, using an OpenAI-compatible chat endpoint.
// Both capabilities degrade on failure instead of propagating errors:
// classification falls back to OTHER and date extraction to "no interval",
// so a flaky model never blocks storing the raw event.
package classifier

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/Akshit-Devx/attendance-bot/internal/category"
	"github.com/Akshit-Devx/attendance-bot/internal/dates"
	"github.com/Akshit-Devx/attendance-bot/internal/metrics"
)

const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o-mini"
	MaxRetries         = 3
	DefaultHTTPTimeout = 45 * time.Second

	logContentPreviewLen = 60
)

// Config selects the chat endpoint and model.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Classifier is an explicitly constructed capability; callers inject it
// rather than reaching for a shared client.
type Classifier struct {
	client    openaigo.Client
	model     string
	logPrefix string
}

// New builds a classifier. httpClient may be nil, in which case a client
// with a bounded timeout is created; calls never hang past the timeout.
func New(cfg Config, httpClient *http.Client, logPrefix string) (*Classifier, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("classifier config incomplete: api key is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}

	client := openaigo.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(MaxRetries),
		option.WithRequestTimeout(DefaultHTTPTimeout),
	)

	return &Classifier{client: client, model: model, logPrefix: logPrefix}, nil
}

// Classify maps text to a category. Any failure (transport, empty reply,
// unknown label) degrades to OTHER.
func (c *Classifier) Classify(ctx context.Context, text string) category.Category {
	reply, err := c.complete(ctx, categoryPrompt(text))
	if err != nil {
		metrics.ClassifierFailures.WithLabelValues("category").Inc()
		log.Printf("%s classify failed, falling back to OTHER: %v", c.logPrefix, err)
		return category.Other
	}

	cat, ok := category.Parse(reply)
	if !ok {
		log.Printf("%s classify returned unknown label %q, falling back to OTHER", c.logPrefix, preview(reply))
	}
	return cat
}

// ResolveInterval extracts an explicit leave date range from text.
// ok is false when the model fails or reports no determinable dates.
func (c *Classifier) ResolveInterval(ctx context.Context, text string, now time.Time) (dates.Interval, bool) {
	reply, err := c.complete(ctx, dateRangePrompt(text, now))
	if err != nil {
		metrics.ClassifierFailures.WithLabelValues("dates").Inc()
		log.Printf("%s date extraction failed: %v", c.logPrefix, err)
		return dates.Interval{}, false
	}

	iv, ok := parseDateRangeReply(reply, now.Location())
	if !ok {
		log.Printf("%s date extraction yielded no interval: reply=%q", c.logPrefix, preview(reply))
	}
	return iv, ok
}

func (c *Classifier) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(c.model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(prompt),
		},
		// Low temperature keeps labels stable across retries.
		Temperature: openaigo.Float(0.1),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func preview(s string) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= logContentPreviewLen {
		return string(r)
	}
	return string(r[:logContentPreviewLen]) + "…"
}
