package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"teambot/internal/logging"
)

const (
	defaultBaseURL          = "https://api.anthropic.com/v1"
	anthropicVersion        = "2023-06-01"
	anthropicVersionHeader  = "anthropic-version"
	anthropicAPIKeyHeader   = "x-api-key"
	anthropicMessagesPath   = "/messages"
	anthropicContentType    = "application/json"
	defaultRequestTimeout   = 120 * time.Second
	defaultFallbackResponse = "(응답을 생성하지 못했습니다)"
)

// Config holds the Anthropic client settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type anthropicClient struct {
	model      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// NewAnthropicClient builds a Messages API client.
func NewAnthropicClient(cfg Config, logger logging.Logger) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("anthropic client requires an API key")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("anthropic client requires a model")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &anthropicClient{
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.OrNop(logger),
	}, nil
}

func (c *anthropicClient) Model() string {
	return c.model
}

func (c *anthropicClient) buildPayload(req Request, stream bool) map[string]any {
	messages := make([]map[string]string, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, map[string]string{
			"role":    m.Role,
			"content": m.Content,
		})
	}
	payload := map[string]any{
		"model":      c.model,
		"max_tokens": req.MaxTokens,
		"messages":   messages,
	}
	system := req.System
	if req.SystemPrefix != "" {
		system = req.SystemPrefix + "\n\n" + system
	}
	if system != "" {
		payload["system"] = system
	}
	if stream {
		payload["stream"] = true
	}
	return payload
}

func (c *anthropicClient) post(ctx context.Context, payload map[string]any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	endpoint := c.baseURL + anthropicMessagesPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", anthropicContentType)
	httpReq.Header.Set(anthropicVersionHeader, anthropicVersion)
	httpReq.Header.Set(anthropicAPIKeyHeader, c.apiKey)

	c.logger.Debug("llm: POST %s model=%s", endpoint, c.model)
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llm request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer func() { _ = resp.Body.Close() }()
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		c.logger.Warn("llm: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(buf.String()))
		return nil, fmt.Errorf("llm request failed: HTTP %d", resp.StatusCode)
	}
	return resp, nil
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (c *anthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := c.post(ctx, c.buildPayload(req, false))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	var parsed struct {
		Content    []contentBlock `json:"content"`
		StopReason string         `json:"stop_reason"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	for _, block := range parsed.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return defaultFallbackResponse, nil
}

// streamEvent is the subset of Anthropic SSE payloads the client consumes.
type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *anthropicClient) CompleteStream(ctx context.Context, req Request, onDelta StreamFunc) (string, error) {
	resp, err := c.post(ctx, c.buildPayload(req, true))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	var accumulated strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}
		var event streamEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			c.logger.Debug("llm: skipping malformed stream event: %v", err)
			continue
		}
		switch event.Type {
		case "content_block_delta":
			if event.Delta.Type == "text_delta" && event.Delta.Text != "" {
				accumulated.WriteString(event.Delta.Text)
				if onDelta != nil {
					onDelta(accumulated.String())
				}
			}
		case "error":
			return "", fmt.Errorf("llm stream error: %s: %s", event.Error.Type, event.Error.Message)
		case "message_stop":
			// Terminal event; the loop drains any trailing lines.
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read stream: %w", err)
	}
	if accumulated.Len() == 0 {
		return defaultFallbackResponse, nil
	}
	return accumulated.String(), nil
}
