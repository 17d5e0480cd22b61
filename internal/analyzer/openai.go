package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ai15/dash-ingest/internal/fetcher"
)

const systemPrompt = `You are an expert academic paper analyzer. Analyze this Harvard research paper and provide a structured response with:

1. Main Topic/Field (one phrase)
2. Key Findings (2-3 bullet points)
3. Methodology (brief description)
4. Significance (1-2 sentences)
5. Keywords (5-7 relevant terms)

Format your response as clean JSON with keys: topic, findings, methodology, significance, keywords`

// OpenAIAnalyzer analyzes papers via an OpenAI-compatible chat-completions
// endpoint (Azure AI or api.openai.com).
type OpenAIAnalyzer struct {
	endpoint    string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	maxTextLen  int
	client      *http.Client
}

func NewOpenAIAnalyzer(endpoint, apiKey, model string, maxTokens int, temperature float64, maxTextLen int) *OpenAIAnalyzer {
	endpoint = strings.TrimSuffix(endpoint, "/")
	if !strings.HasSuffix(endpoint, "/v1") {
		endpoint += "/v1"
	}
	return &OpenAIAnalyzer{
		endpoint:    endpoint,
		apiKey:      apiKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		maxTextLen:  maxTextLen,
		client:      &http.Client{Timeout: 120 * time.Second},
	}
}

// Chat-completions API request/response types

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *chatError   `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (a *OpenAIAnalyzer) Analyze(ctx context.Context, paper fetcher.Paper) (*Analysis, error) {
	body, err := a.callAPI(ctx, a.buildInput(paper))
	if err != nil {
		return nil, err
	}

	return a.parseResponse(body), nil
}

// buildInput assembles the paper text sent to the model, truncating the
// summary to the configured character budget.
func (a *OpenAIAnalyzer) buildInput(paper fetcher.Paper) string {
	summary := paper.Summary
	if len(summary) > a.maxTextLen {
		summary = summary[:a.maxTextLen]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title: %s\n", paper.Title))
	sb.WriteString(fmt.Sprintf("Authors: %s\n", paper.Authors))
	sb.WriteString(fmt.Sprintf("Published: %s\n\n", paper.Published))
	sb.WriteString("Summary:\n")
	sb.WriteString(summary)
	return sb.String()
}

func (a *OpenAIAnalyzer) callAPI(ctx context.Context, input string) (string, error) {
	reqBody := chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: input},
		},
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("openai: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("openai: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("openai: failed to parse response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("openai: API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}

	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}

	return apiResp.Choices[0].Message.Content, nil
}

// parseResponse parses the model output as a five-key JSON object. When the
// output is not valid JSON it falls back to a placeholder analysis built from
// the raw text instead of failing the item.
func (a *OpenAIAnalyzer) parseResponse(body string) *Analysis {
	// Strip markdown fences if present
	body = strings.TrimSpace(body)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")
	body = strings.TrimSpace(body)

	var analysis Analysis
	if err := json.Unmarshal([]byte(body), &analysis); err != nil {
		log.Printf("WARNING: openai: model output is not valid JSON, storing placeholder analysis: %v", err)
		return fallbackAnalysis(body)
	}

	return &analysis
}

func fallbackAnalysis(raw string) *Analysis {
	return &Analysis{
		Topic:        "Academic Research",
		Findings:     []string{truncate(raw, 200)},
		Methodology:  "See summary",
		Significance: truncate(raw, 300),
		Keywords:     []string{"research", "Harvard", "academic"},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
