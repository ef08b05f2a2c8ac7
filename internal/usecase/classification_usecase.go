package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/snakewatch-io/api-service/internal/domain/entity"
	"github.com/snakewatch-io/api-service/internal/domain/repository"
	"github.com/snakewatch-io/api-service/internal/domain/service"
	"github.com/snakewatch-io/api-service/internal/infrastructure/metrics"
)

// Error definitions for the classification usecase
var (
	ErrMissingImageURL = errors.New("image URL is required")
)

// Notifier sends alerts about dangerous classifications. A nil notifier
// disables alerting.
type Notifier interface {
	NotifyClassification(ctx context.Context, c *entity.Classification) error
}

// ClassifyInput represents the input for classifying an image
type ClassifyInput struct {
	ImageURL    string `json:"imageUrl" binding:"required"`
	DetectionID string `json:"detectionId"`
}

// ClassificationUsecase defines the interface for classification business logic
type ClassificationUsecase interface {
	Classify(ctx context.Context, input *ClassifyInput) (*entity.Classification, error)
	ClassifyDetection(ctx context.Context, detectionID uuid.UUID) (*entity.Detection, error)
}

type classificationUsecase struct {
	classifier    service.Classifier
	detectionRepo repository.DetectionRepository
	notifier      Notifier
	logger        *zap.Logger
}

// NewClassificationUsecase creates a new classification usecase
func NewClassificationUsecase(
	classifier service.Classifier,
	detectionRepo repository.DetectionRepository,
	alertNotifier Notifier,
	logger *zap.Logger,
) ClassificationUsecase {
	return &classificationUsecase{
		classifier:    classifier,
		detectionRepo: detectionRepo,
		notifier:      alertNotifier,
		logger:        logger,
	}
}

// Classify runs the classification pipeline for an image URL. When a
// detection ID is supplied the result is also persisted onto that detection.
// The detection ID is otherwise only a correlation token and an unknown ID
// does not fail the call.
func (u *classificationUsecase) Classify(ctx context.Context, input *ClassifyInput) (*entity.Classification, error) {
	if input.ImageURL == "" {
		return nil, ErrMissingImageURL
	}

	result, err := u.classifier.Classify(ctx, input.ImageURL, input.DetectionID)
	if err != nil {
		metrics.ClassificationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	recordClassificationOutcome(result)

	if input.DetectionID != "" {
		if id, err := uuid.Parse(input.DetectionID); err == nil {
			u.attachToDetection(ctx, id, result)
		}
	}

	u.alert(ctx, result)

	return result, nil
}

// ClassifyDetection classifies the stored image of an existing detection and
// persists the result.
func (u *classificationUsecase) ClassifyDetection(ctx context.Context, detectionID uuid.UUID) (*entity.Detection, error) {
	detection, err := u.detectionRepo.GetByID(ctx, detectionID)
	if err != nil {
		return nil, err
	}
	if detection == nil {
		return nil, ErrDetectionNotFound
	}

	result, err := u.classifier.Classify(ctx, detection.ImageURL, detection.ID.String())
	if err != nil {
		metrics.ClassificationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}
	recordClassificationOutcome(result)

	detection.ApplyClassification(result, time.Now().UTC())
	if err := u.detectionRepo.Update(ctx, detection); err != nil {
		return nil, err
	}

	u.alert(ctx, result)

	return detection, nil
}

// recordClassificationOutcome counts a completed pipeline run. The fallback
// flag on the result distinguishes an absorbed parse failure from a model
// that genuinely answered, even when both name an unknown species.
func recordClassificationOutcome(result *entity.Classification) {
	outcome := metrics.OutcomeOK
	if result.Fallback {
		outcome = metrics.OutcomeFallback
	}
	metrics.ClassificationsTotal.WithLabelValues(outcome).Inc()
}

func (u *classificationUsecase) attachToDetection(ctx context.Context, id uuid.UUID, result *entity.Classification) {
	detection, err := u.detectionRepo.GetByID(ctx, id)
	if err != nil || detection == nil {
		u.logger.Warn("could not load detection for classification result",
			zap.String("detection_id", id.String()),
			zap.Error(err))
		return
	}

	detection.ApplyClassification(result, time.Now().UTC())
	if err := u.detectionRepo.Update(ctx, detection); err != nil {
		u.logger.Error("failed to persist classification result",
			zap.String("detection_id", id.String()),
			zap.Error(err))
	}
}

func (u *classificationUsecase) alert(ctx context.Context, result *entity.Classification) {
	if u.notifier == nil || !result.IsDangerous() {
		return
	}
	if err := u.notifier.NotifyClassification(ctx, result); err != nil {
		u.logger.Warn("alert notification failed", zap.Error(err))
	}
}
