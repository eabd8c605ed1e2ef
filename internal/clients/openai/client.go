package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"golang.org/x/sync/semaphore"

	"github.com/yungbote/projectreview-backend/internal/platform/envutil"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

// Client is the slice of the OpenAI API the review collaborators use.
type Client interface {
	// GenerateJSON asks for a structured answer matching schema and decodes it into out.
	GenerateJSON(ctx context.Context, system, user, schemaName string, schema jsonschema.Definition, out any) error
}

// RequestObserver receives one callback per completed API request.
type RequestObserver interface {
	ObserveLLMRequest(model, endpoint, status string, dur time.Duration, inputTokens, outputTokens int)
}

type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Temperature    float32
	Timeout        time.Duration
	MaxRetries     int
	MaxConcurrency int64
}

// ConfigFromEnv reads OPENAI_* variables.
func ConfigFromEnv() Config {
	return Config{
		APIKey:         envutil.String("OPENAI_API_KEY", ""),
		BaseURL:        envutil.String("OPENAI_BASE_URL", ""),
		Model:          envutil.String("OPENAI_MODEL", "gpt-4o-mini"),
		Temperature:    float32(envutil.Float("OPENAI_TEMPERATURE", 0.2)),
		Timeout:        envutil.Duration("OPENAI_TIMEOUT_SECONDS", 120*time.Second),
		MaxRetries:     envutil.Int("OPENAI_MAX_RETRIES", 3),
		MaxConcurrency: envutil.Int64("OPENAI_MAX_CONCURRENCY", 8),
	}
}

type client struct {
	log         *logger.Logger
	api         *goopenai.Client
	model       string
	temperature float32
	maxRetries  int
	sem         *semaphore.Weighted
	observer    RequestObserver
}

func NewClient(log *logger.Logger, cfg Config, observer RequestObserver) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	conf := goopenai.DefaultConfig(apiKey)
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		if !strings.HasSuffix(base, "/v1") {
			base += "/v1"
		}
		conf.BaseURL = base
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	conf.HTTPClient = &http.Client{Timeout: timeout}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	maxConc := cfg.MaxConcurrency
	if maxConc <= 0 {
		maxConc = 8
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &client{
		log:         log.With("service", "OpenAIClient"),
		api:         goopenai.NewClientWithConfig(conf),
		model:       model,
		temperature: cfg.Temperature,
		maxRetries:  retries,
		sem:         semaphore.NewWeighted(maxConc),
		observer:    observer,
	}, nil
}

func (c *client) GenerateJSON(ctx context.Context, system, user, schemaName string, schema jsonschema.Definition, out any) error {
	if schemaName == "" {
		return errors.New("schemaName required")
	}
	if out == nil {
		return errors.New("out required")
	}
	req := goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: system},
			{Role: goopenai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.temperature,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &goopenai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: &schema,
				Strict: true,
			},
		},
	}

	resp, err := c.complete(ctx, schemaName, req)
	if err != nil {
		return err
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("openai returned no choices")
	}
	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return fmt.Errorf("model refused: %s", msg.Refusal)
	}
	text := strings.TrimSpace(msg.Content)
	if text == "" {
		return fmt.Errorf("openai returned empty content")
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("failed to parse model JSON: %w", err)
	}
	return nil
}

// complete sends req, retrying 429 and 5xx with jittered backoff until
// maxRetries or ctx ends.
func (c *client) complete(ctx context.Context, endpoint string, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return goopenai.ChatCompletionResponse{}, err
	}
	defer c.sem.Release(1)

	backoff := time.Second
	for attempt := 0; ; attempt++ {
		start := time.Now()
		resp, err := c.api.CreateChatCompletion(ctx, req)
		c.observe(endpoint, resp, err, time.Since(start))
		if err == nil {
			return resp, nil
		}
		if !retryable(err) || attempt >= c.maxRetries || ctx.Err() != nil {
			return goopenai.ChatCompletionResponse{}, err
		}

		sleepFor := backoff/2 + rand.N(backoff/2+1)
		c.log.Warn("OpenAI request retrying",
			"endpoint", endpoint,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		select {
		case <-ctx.Done():
			return goopenai.ChatCompletionResponse{}, ctx.Err()
		case <-time.After(sleepFor):
		}
		backoff = min(backoff*2, 10*time.Second)
	}
}

func (c *client) observe(endpoint string, resp goopenai.ChatCompletionResponse, err error, dur time.Duration) {
	if c.observer == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
		if code := statusCode(err); code > 0 {
			status = fmt.Sprintf("%d", code)
		}
	}
	c.observer.ObserveLLMRequest(c.model, endpoint, status, dur, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
}

func statusCode(err error) int {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	code := statusCode(err)
	if code == 0 {
		// transport failure before any status
		return true
	}
	return code == http.StatusTooManyRequests || code >= 500
}
