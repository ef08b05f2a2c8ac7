package service

import (
	"context"

	"github.com/snakewatch-io/api-service/internal/domain/entity"
)

// Classifier defines the interface for classifying a snake image by URL.
// The requestID is an opaque caller-supplied token used only for logging.
type Classifier interface {
	Classify(ctx context.Context, imageURL, requestID string) (*entity.Classification, error)
}
