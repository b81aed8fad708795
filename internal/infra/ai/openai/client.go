package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/fintrustai/compliance-copilot/internal/domain/ai"
	"github.com/fintrustai/compliance-copilot/internal/domain/analysis"
	"github.com/fintrustai/compliance-copilot/internal/infra/ai/prompt"
)

const (
	defaultModel     = "gpt-4o"
	defaultMaxTokens = 4000
	defaultTimeout   = 30 * time.Second
)

// Client invokes the model backend. One request per call, no retries and no
// streaming; the per-call timeout bounds the completion.
type Client struct {
	api         *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

func NewClient(apiKey, model string, maxTokens int, temperature float32, timeout time.Duration) *Client {
	if model == "" {
		model = defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		api:         openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     timeout,
	}
}

func (c *Client) AnalyzeKYC(ctx context.Context, profile analysis.KYCProfile) (string, error) {
	return c.Invoke(ctx, prompt.KYCAnalysis(profile))
}

func (c *Client) AnalyzeTransaction(ctx context.Context, txn analysis.Transaction) (string, error) {
	return c.Invoke(ctx, prompt.TransactionAnalysis(txn))
}

func (c *Client) GenerateSAR(ctx context.Context, bundle analysis.SARBundle) (string, error) {
	return c.Invoke(ctx, prompt.SARGeneration(bundle))
}

// Invoke sends one rendered prompt and returns the raw completion text. Any
// backend error or timeout surfaces as ai.ErrModelUnavailable.
func (c *Client) Invoke(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	}
	// Reasoning models (o1/o3/o4/gpt-5*) take MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(c.model, "o1") || strings.HasPrefix(c.model, "o3") || strings.HasPrefix(c.model, "o4") || strings.HasPrefix(c.model, "gpt-5") {
		req.MaxCompletionTokens = c.maxTokens
	} else {
		req.MaxTokens = c.maxTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ai.ErrModelUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ai.ErrModelUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}

var _ ai.Client = (*Client)(nil)
