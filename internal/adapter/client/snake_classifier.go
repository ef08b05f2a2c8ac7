package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/snakewatch-io/api-service/internal/domain/entity"
	"github.com/snakewatch-io/api-service/internal/domain/service"
)

// Static instruction for the vision model. No per-request customization, so
// results are reproducible for identical image bytes.
const classificationPrompt = `You are a snake identification expert. Analyze the snake in this image and respond with STRICT JSON only, no surrounding prose, matching this schema:
{
  "species": "common name of the snake species",
  "venomous": true or false,
  "confidence": number between 0.0 and 1.0,
  "riskLevel": "low" | "medium" | "high" | "critical",
  "description": "one or two sentences about the snake",
  "firstAid": "first aid guidance if bitten"
}
If you are unsure of the species, give your best guess and lower the confidence.`

// SnakeClassifier implements service.Classifier on top of an image fetcher
// and a vision model client.
type SnakeClassifier struct {
	fetcher *ImageFetcher
	vision  *VisionClient
	logger  *zap.Logger
}

// NewSnakeClassifier creates a new snake classifier
func NewSnakeClassifier(fetcher *ImageFetcher, vision *VisionClient, logger *zap.Logger) service.Classifier {
	return &SnakeClassifier{
		fetcher: fetcher,
		vision:  vision,
		logger:  logger,
	}
}

// Classify runs the full normalization pipeline: fetch the image, invoke the
// model, extract the embedded JSON and repair it against the schema. A reply
// that cannot be parsed is absorbed into the fixed fallback result so an
// unclassifiable snake is treated as dangerous, never as harmless. Only
// credential, fetch and provider failures propagate to the caller.
func (c *SnakeClassifier) Classify(ctx context.Context, imageURL, requestID string) (*entity.Classification, error) {
	if !c.vision.HasCredentials() {
		return nil, ErrMissingAPIKey
	}

	data, mimeType, err := c.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	encoded := base64.StdEncoding.EncodeToString(data)

	text, err := c.vision.Generate(ctx, classificationPrompt, encoded, mimeType)
	if err != nil {
		return nil, err
	}

	raw, err := extractJSON(text)
	if err != nil {
		c.logger.Warn("unparseable model reply, using fallback classification",
			zap.String("request_id", requestID),
			zap.Error(err))
		return entity.FallbackClassification(), nil
	}

	result := entity.SanitizeClassification(raw)

	c.logger.Info("image classified",
		zap.String("request_id", requestID),
		zap.String("species", result.Species),
		zap.Bool("venomous", result.Venomous),
		zap.String("risk_level", string(result.RiskLevel)))

	return result, nil
}

// extractJSON pulls the first top-level JSON object out of free-form model
// text: any fenced code block is stripped, then the substring from the first
// '{' to the last '}' is parsed.
func extractJSON(text string) (map[string]interface{}, error) {
	cleaned := stripCodeFence(text)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return nil, errors.New("no JSON object found in model output")
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	// Drop the opening fence line, including any language tag
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
