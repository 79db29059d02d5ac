package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/voxloop/voxloop-core/core/llms"
	"github.com/voxloop/voxloop-core/internal/utils"
	"go.opentelemetry.io/otel/codes"
)

const (
	url = "https://api.groq.com/openai/v1/chat/completions"

	defaultModel       = "llama-3.3-70b-versatile"
	defaultTemperature = 0.7
)

// Client generates chat-completion responses through the Groq API.
type Client struct {
	apiKey string
	model  string

	httpClient *http.Client
}

// NewClient creates a Groq client. The API key is read from the GROQ_API_KEY
// environment variable when not provided through options.
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		model:      defaultModel,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(client)
	}

	if client.apiKey == "" {
		apiKey, ok := os.LookupEnv("GROQ_API_KEY")
		if !ok {
			return nil, fmt.Errorf("groq api key not found")
		}
		client.apiKey = apiKey
	}

	return client, nil
}

type ClientOption func(*Client)

func WithAPIKey(apiKey string) ClientOption {
	return func(c *Client) { c.apiKey = apiKey }
}

func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

// IsLoaded reports whether the client is configured well enough to prompt.
func (c *Client) IsLoaded() bool {
	return c != nil && c.apiKey != "" && c.model != ""
}

// Prompt sends a single chat-completion request and returns the generated
// response text.
func (c *Client) Prompt(ctx context.Context, prompt string, opts ...llms.PromptOption) (string, error) {
	ctx, span := tracer.Start(ctx, "groq prompt")
	defer span.End()

	options := llms.PromptOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	// History is copied so request assembly never aliases caller-owned turns.
	var history []llms.Turn
	copier.Copy(&history, options.Turns)

	messages := []message{}
	if options.Instructions != "" {
		messages = append(messages, message{Role: messageRoleSystem, Content: options.Instructions})
	}
	for _, turn := range history {
		if turn.Prompt != "" {
			messages = append(messages, message{Role: messageRoleUser, Content: turn.Prompt})
		}
		if turn.Response != "" {
			messages = append(messages, message{Role: messageRoleAssistant, Content: turn.Response})
		}
	}
	messages = append(messages, message{Role: messageRoleUser, Content: prompt})

	reqBody := requestBody{
		Model:       c.model,
		Messages:    messages,
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
	}
	if reqBody.Temperature == nil {
		reqBody.Temperature = utils.Ptr(defaultTemperature)
	}

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return "", fmt.Errorf("error creating HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordedErr := fmt.Errorf("error sending request: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return "", recordedErr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.WarnContext(ctx, "non-OK HTTP status from groq", "status", resp.Status)
	}

	var parsed responseBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("error unmarshalling response: %w", err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("groq request failed: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("groq response contained no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
