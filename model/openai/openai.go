// Package openai provides a model.Model implementation backed by the OpenAI
// Chat Completions API via the official SDK. Pointing the adapter at a
// custom base URL also makes it front any OpenAI-compatible endpoint, such
// as a local Ollama server.
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hupe1980/reagent/model"
)

// Options configure the OpenAI model adapter. Fields mirror a minimal
// subset of Chat Completion parameters; extend via functional options
// without breaking callers.
type Options struct {
	Model       string
	BaseURL     string
	APIKey      string
	MaxTokens   int64
	Timeout     time.Duration
	MaxRetries  int
	InitBackoff time.Duration
}

// Model wraps the OpenAI Chat Completions API behind model.Model.
type Model struct {
	client openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       openai.ChatModelGPT4oMini,
		MaxTokens:   2048,
		Timeout:     120 * time.Second,
		MaxRetries:  2,
		InitBackoff: time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	// The boundary owns the retry policy; disable the SDK's own.
	clientOpts = append(clientOpts, option.WithMaxRetries(0))

	return &Model{client: openai.NewClient(clientOpts...), opts: opts}
}

// WithModel overrides the model identifier.
func WithModel(name string) func(o *Options) {
	return func(o *Options) { o.Model = name }
}

// WithBaseURL points the client at an OpenAI-compatible endpoint, e.g.
// "http://localhost:11434/v1" for Ollama.
func WithBaseURL(url string) func(o *Options) {
	return func(o *Options) { o.BaseURL = url }
}

// WithAPIKey sets an explicit API key instead of the environment default.
func WithAPIKey(key string) func(o *Options) {
	return func(o *Options) { o.APIKey = key }
}

// Complete implements model.Model. It blocks for at most the configured
// timeout per attempt and retries transient transport failures with
// exponential backoff, bounded by MaxRetries.
func (m *Model) Complete(ctx context.Context, req model.Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req.Messages),
		Model:               m.opts.Model,
		MaxCompletionTokens: openai.Int(m.opts.MaxTokens),
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(req.MaxTokens)
	}

	var lastErr error
	backoff := m.opts.InitBackoff

	for attempt := 0; attempt <= m.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		callCtx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
		resp, err := m.client.Chat.Completions.New(callCtx, params)
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("openai api error: %w", err)
			if !isRetryable(err) {
				return "", lastErr
			}
			continue
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("openai api error: no choices returned")
		}
		return resp.Choices[0].Message.Content, nil
	}

	return "", lastErr
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "openai"}
}

func buildMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case model.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

// isRetryable classifies rate limits and transient server errors; anything
// else (auth, invalid request, billing) fails immediately.
func isRetryable(err error) bool {
	s := strings.ToLower(err.Error())
	for _, marker := range []string{
		"rate limit", "too many requests", "429", "overloaded",
		"500", "502", "503", "504", "timeout", "deadline exceeded",
		"connection refused", "temporarily unavailable",
	} {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
