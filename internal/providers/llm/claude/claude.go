// Package claude adapts Anthropic's Claude models to the llm.Provider
// interface via the official anthropic-sdk-go client. This is the one
// concrete LLM adapter: the metered proxy (modules/metering) wraps it
// for cover-letter generation (C10), while extraction (C2) and score
// rationale (C9) call it directly.
package claude

import (
	"context"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jobscout/scouter/internal/providers/llm"
)

// defaultRouting is the hardcoded model table used when a request
// carries no ModelOverride. The metered proxy always sets ModelOverride
// from the admin task_routing_config table (C7), so this map applies
// only to callers that use the adapter directly, such as the enrichment
// and scoring services cmd/api wires with the unmetered adapter.
var defaultRouting = map[llm.TaskType]string{
	llm.TaskExtraction:     "claude-3-5-haiku-20241022",
	llm.TaskGhostScoring:   "claude-3-5-haiku-20241022",
	llm.TaskScoreRationale: "claude-3-5-haiku-20241022",
	llm.TaskTailoring:      "claude-3-5-sonnet-20241022",
	llm.TaskCoverLetter:    "claude-3-5-sonnet-20241022",
}

// Provider wraps an anthropic.Client to satisfy llm.Provider.
type Provider struct {
	client anthropic.Client
}

// New builds a Provider from an API key. Base URL overrides (for test
// doubles) go through opts.
func New(apiKey string, opts ...option.RequestOption) *Provider {
	reqOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Provider{client: anthropic.NewClient(reqOpts...)}
}

func (p *Provider) ProviderName() string { return "claude" }

func (p *Provider) ModelForTask(task llm.TaskType) string {
	if model, ok := defaultRouting[task]; ok {
		return model
	}
	return defaultRouting[llm.TaskExtraction]
}

func (p *Provider) Complete(ctx context.Context, messages []llm.Message, task llm.TaskType, opts llm.CompleteOptions) (*llm.Response, error) {
	model := opts.ModelOverride
	if model == "" {
		model = p.ModelForTask(task)
	}

	maxTokens := int64(opts.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 1024
	}

	var system string
	msgs := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			system += m.Content + "\n"
		case llm.RoleAssistant:
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if opts.Temperature != 0 {
		params.Temperature = anthropic.Float(opts.Temperature)
	}
	if len(opts.StopSequences) > 0 {
		params.StopSequences = opts.StopSequences
	}

	start := time.Now()
	msg, err := p.client.Messages.New(ctx, params)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return nil, classifyError(err)
	}

	var content string
	for _, block := range msg.Content {
		if text := block.Text; text != "" {
			content += text
		}
	}

	return &llm.Response{
		Content:      content,
		Model:        string(msg.Model),
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
		FinishReason: string(msg.StopReason),
		LatencyMS:    latency,
	}, nil
}

func (p *Provider) Stream(ctx context.Context, messages []llm.Message, task llm.TaskType, opts llm.CompleteOptions) (<-chan string, error) {
	// Streaming metering is deferred per SPEC_FULL.md §7 / spec.md §9's
	// open question: this module never accumulates token counts from a
	// stream, so stream() is not wired behind the metered proxy.
	ch := make(chan string)
	close(ch)
	return ch, nil
}

func classifyError(err error) error {
	var apiErr *anthropic.Error
	if ok := asAnthropicError(err, &apiErr); ok {
		switch apiErr.StatusCode {
		case 429:
			return llm.ErrRateLimit("claude", err)
		case 401, 403:
			return llm.ErrAuth("claude", err)
		case 400:
			return llm.ErrContextLength("claude", err)
		case 500, 502, 503, 504:
			return llm.ErrTransient("claude", err)
		}
	}
	return llm.ErrProvider("claude", err)
}

func asAnthropicError(err error, target **anthropic.Error) bool {
	apiErr, ok := err.(*anthropic.Error)
	if ok {
		*target = apiErr
	}
	return ok
}
