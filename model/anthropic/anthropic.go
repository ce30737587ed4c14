// Package anthropic provides a model.Model implementation backed by the
// Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hupe1980/reagent/model"
)

// Options configure the Anthropic model adapter.
type Options struct {
	Model      anthropic.Model
	APIKey     string
	MaxTokens  int64
	Timeout    time.Duration
	MaxRetries int
}

// Model wraps the Anthropic Messages API behind model.Model.
type Model struct {
	client anthropic.Client
	opts   Options
}

// NewModel creates a new Anthropic model using the official client.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:      anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens:  2048,
		Timeout:    120 * time.Second,
		MaxRetries: 2,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	clientOpts = append(clientOpts, option.WithMaxRetries(opts.MaxRetries))

	return &Model{client: anthropic.NewClient(clientOpts...), opts: opts}
}

// WithModel overrides the model identifier.
func WithModel(name anthropic.Model) func(o *Options) {
	return func(o *Options) { o.Model = name }
}

// WithAPIKey sets an explicit API key instead of the environment default.
func WithAPIKey(key string) func(o *Options) {
	return func(o *Options) { o.APIKey = key }
}

// Complete implements model.Model.
func (m *Model) Complete(ctx context.Context, req model.Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     m.opts.Model,
		Messages:  buildMessages(req.Messages),
		MaxTokens: m.opts.MaxTokens,
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = req.MaxTokens
	}
	if system := extractSystem(req.Messages); len(system) > 0 {
		params.System = system
	}

	callCtx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
	defer cancel()

	resp, err := m.client.Messages.New(callCtx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return sb.String(), nil
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Name: string(m.opts.Model), Provider: "anthropic"}
}

func buildMessages(messages []model.Message) []anthropic.MessageParam {
	var out []anthropic.MessageParam
	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			continue // carried separately via params.System
		case model.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return out
}

func extractSystem(messages []model.Message) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam
	for _, msg := range messages {
		if msg.Role == model.RoleSystem && msg.Content != "" {
			blocks = append(blocks, anthropic.TextBlockParam{Text: msg.Content})
		}
	}
	return blocks
}
