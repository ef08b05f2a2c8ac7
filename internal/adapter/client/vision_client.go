package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Fixed decoding parameters for the generation call. Behavior is fully
// reproducible given the same image and prompt.
const (
	generationTemperature     = 0.4
	generationTopK            = 32
	generationTopP            = 1.0
	generationMaxOutputTokens = 2048
)

// generateRequest is the provider's multimodal completion request shape
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// generateResponse is the provider's candidate list reply shape
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// VisionClient is an HTTP client for a generative vision-language model.
// Any provider exposing an equivalent multimodal completion contract works;
// the default endpoint is Google's generative language API.
type VisionClient struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewVisionClient creates a new vision model client
func NewVisionClient(baseURL, model, apiKey string, timeout time.Duration) *VisionClient {
	return &VisionClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// HasCredentials reports whether an API key is configured
func (c *VisionClient) HasCredentials() bool {
	return c.apiKey != ""
}

// Generate sends a single synchronous generation call with an inline base64
// image and a text prompt, and returns the reply text of the first
// candidate. Non-2xx responses become a *ModelError classified by status;
// a 2xx reply with no text is ErrEmptyModelOutput. No retries.
func (c *VisionClient) Generate(ctx context.Context, prompt, imageB64, mimeType string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: prompt},
				{InlineData: &inlineData{MimeType: mimeType, Data: imageB64}},
			},
		}},
		GenerationConfig: generationConfig{
			Temperature:     generationTemperature,
			TopK:            generationTopK,
			TopP:            generationTopP,
			MaxOutputTokens: generationMaxOutputTokens,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", &ModelError{
			StatusCode: resp.StatusCode,
			Reason:     classifyModelStatus(resp.StatusCode),
			Body:       string(respBody),
		}
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	text := candidateText(&result)
	if text == "" {
		return "", ErrEmptyModelOutput
	}

	return text, nil
}

func classifyModelStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ModelErrorBadRequest
	case http.StatusUnauthorized, http.StatusForbidden:
		return ModelErrorUnauthorized
	case http.StatusTooManyRequests:
		return ModelErrorRateLimited
	default:
		return ModelErrorUpstream
	}
}

func candidateText(resp *generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}
