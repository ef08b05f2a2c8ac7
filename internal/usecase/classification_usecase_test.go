package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/snakewatch-io/api-service/internal/domain/entity"
	"github.com/snakewatch-io/api-service/internal/domain/repository"
	"github.com/snakewatch-io/api-service/internal/infrastructure/metrics"
)

// MockDetectionRepository is a mock implementation of DetectionRepository
type MockDetectionRepository struct {
	mock.Mock
}

func (m *MockDetectionRepository) Create(ctx context.Context, detection *entity.Detection) error {
	args := m.Called(ctx, detection)
	return args.Error(0)
}

func (m *MockDetectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Detection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Detection), args.Error(1)
}

func (m *MockDetectionRepository) List(ctx context.Context, riskLevel entity.RiskLevel, limit, offset int) ([]*entity.Detection, int64, error) {
	args := m.Called(ctx, riskLevel, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Detection), args.Get(1).(int64), args.Error(2)
}

func (m *MockDetectionRepository) Update(ctx context.Context, detection *entity.Detection) error {
	args := m.Called(ctx, detection)
	return args.Error(0)
}

func (m *MockDetectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDetectionRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDetectionRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDetectionRepository) CountClassified(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDetectionRepository) CountVenomous(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDetectionRepository) CountBySpecies(ctx context.Context, limit int) ([]*repository.SpeciesCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.SpeciesCount), args.Error(1)
}

func (m *MockDetectionRepository) CountByRiskLevel(ctx context.Context) ([]*repository.RiskCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.RiskCount), args.Error(1)
}

func (m *MockDetectionRepository) CountByDay(ctx context.Context, since time.Time) ([]*repository.DayCount, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.DayCount), args.Error(1)
}

// MockClassifier is a mock implementation of service.Classifier
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, imageURL, requestID string) (*entity.Classification, error) {
	args := m.Called(ctx, imageURL, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Classification), args.Error(1)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyClassification(ctx context.Context, c *entity.Classification) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func lowRiskClassification() *entity.Classification {
	return &entity.Classification{
		Species:    "Garter Snake",
		Venomous:   false,
		Confidence: 0.85,
		RiskLevel:  entity.RiskLevelLow,
	}
}

func highRiskClassification() *entity.Classification {
	return &entity.Classification{
		Species:    "Indian Cobra",
		Venomous:   true,
		Confidence: 0.92,
		RiskLevel:  entity.RiskLevelHigh,
	}
}

func outcomeCount(t *testing.T, outcome string) float64 {
	t.Helper()
	counter, err := metrics.ClassificationsTotal.GetMetricWithLabelValues(outcome)
	require.NoError(t, err)
	return testutil.ToFloat64(counter)
}

func TestClassificationUsecase_Classify(t *testing.T) {
	t.Run("success without detection id", func(t *testing.T) {
		mockClassifier := new(MockClassifier)
		mockRepo := new(MockDetectionRepository)
		uc := NewClassificationUsecase(mockClassifier, mockRepo, nil, zap.NewNop())

		expected := lowRiskClassification()
		mockClassifier.On("Classify", mock.Anything, "http://cam/snake.jpg", "").Return(expected, nil)

		result, err := uc.Classify(context.Background(), &ClassifyInput{ImageURL: "http://cam/snake.jpg"})

		assert.NoError(t, err)
		assert.Equal(t, expected, result)
		mockRepo.AssertNotCalled(t, "GetByID")
		mockClassifier.AssertExpectations(t)
	})

	t.Run("missing image url", func(t *testing.T) {
		mockClassifier := new(MockClassifier)
		mockRepo := new(MockDetectionRepository)
		uc := NewClassificationUsecase(mockClassifier, mockRepo, nil, zap.NewNop())

		result, err := uc.Classify(context.Background(), &ClassifyInput{})

		assert.ErrorIs(t, err, ErrMissingImageURL)
		assert.Nil(t, result)
		mockClassifier.AssertNotCalled(t, "Classify")
	})

	t.Run("classifier error propagates", func(t *testing.T) {
		mockClassifier := new(MockClassifier)
		mockRepo := new(MockDetectionRepository)
		uc := NewClassificationUsecase(mockClassifier, mockRepo, nil, zap.NewNop())

		expectedErr := errors.New("model unavailable")
		mockClassifier.On("Classify", mock.Anything, "http://cam/snake.jpg", "").Return(nil, expectedErr)

		result, err := uc.Classify(context.Background(), &ClassifyInput{ImageURL: "http://cam/snake.jpg"})

		assert.Equal(t, expectedErr, err)
		assert.Nil(t, result)
	})

	t.Run("result persisted onto detection", func(t *testing.T) {
		mockClassifier := new(MockClassifier)
		mockRepo := new(MockDetectionRepository)
		uc := NewClassificationUsecase(mockClassifier, mockRepo, nil, zap.NewNop())

		detectionID := uuid.New()
		detection := entity.NewDetection(time.Now(), 0.9, "http://cam/snake.jpg", nil, nil)
		detection.ID = detectionID

		mockClassifier.On("Classify", mock.Anything, "http://cam/snake.jpg", detectionID.String()).
			Return(highRiskClassification(), nil)
		mockRepo.On("GetByID", mock.Anything, detectionID).Return(detection, nil)
		mockRepo.On("Update", mock.Anything, detection).Return(nil)

		_, err := uc.Classify(context.Background(), &ClassifyInput{
			ImageURL:    "http://cam/snake.jpg",
			DetectionID: detectionID.String(),
		})

		assert.NoError(t, err)
		assert.True(t, detection.IsClassified())
		assert.Equal(t, "Indian Cobra", detection.Species)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown detection id does not fail the call", func(t *testing.T) {
		mockClassifier := new(MockClassifier)
		mockRepo := new(MockDetectionRepository)
		uc := NewClassificationUsecase(mockClassifier, mockRepo, nil, zap.NewNop())

		detectionID := uuid.New()
		mockClassifier.On("Classify", mock.Anything, "http://cam/snake.jpg", detectionID.String()).
			Return(lowRiskClassification(), nil)
		mockRepo.On("GetByID", mock.Anything, detectionID).Return(nil, nil)

		result, err := uc.Classify(context.Background(), &ClassifyInput{
			ImageURL:    "http://cam/snake.jpg",
			DetectionID: detectionID.String(),
		})

		assert.NoError(t, err)
		assert.NotNil(t, result)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("non uuid detection id is a correlation token only", func(t *testing.T) {
		mockClassifier := new(MockClassifier)
		mockRepo := new(MockDetectionRepository)
		uc := NewClassificationUsecase(mockClassifier, mockRepo, nil, zap.NewNop())

		mockClassifier.On("Classify", mock.Anything, "http://cam/snake.jpg", "cam-7-frame-12").
			Return(lowRiskClassification(), nil)

		_, err := uc.Classify(context.Background(), &ClassifyInput{
			ImageURL:    "http://cam/snake.jpg",
			DetectionID: "cam-7-frame-12",
		})

		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "GetByID")
	})

	t.Run("fallback result counts as fallback outcome", func(t *testing.T) {
		mockClassifier := new(MockClassifier)
		mockRepo := new(MockDetectionRepository)
		uc := NewClassificationUsecase(mockClassifier, mockRepo, nil, zap.NewNop())

		mockClassifier.On("Classify", mock.Anything, "http://cam/snake.jpg", "").
			Return(entity.FallbackClassification(), nil)

		okBefore := outcomeCount(t, metrics.OutcomeOK)
		fallbackBefore := outcomeCount(t, metrics.OutcomeFallback)

		_, err := uc.Classify(context.Background(), &ClassifyInput{ImageURL: "http://cam/snake.jpg"})

		assert.NoError(t, err)
		assert.Equal(t, fallbackBefore+1, outcomeCount(t, metrics.OutcomeFallback))
		assert.Equal(t, okBefore, outcomeCount(t, metrics.OutcomeOK))
	})

	t.Run("unknown species answered by the model counts as ok", func(t *testing.T) {
		mockClassifier := new(MockClassifier)
		mockRepo := new(MockDetectionRepository)
		uc := NewClassificationUsecase(mockClassifier, mockRepo, nil, zap.NewNop())

		// Same species name as the fallback substitute, but a real answer.
		mockClassifier.On("Classify", mock.Anything, "http://cam/snake.jpg", "").
			Return(&entity.Classification{
				Species:    "Unknown Snake",
				Venomous:   true,
				Confidence: 0.4,
				RiskLevel:  entity.RiskLevelHigh,
			}, nil)

		okBefore := outcomeCount(t, metrics.OutcomeOK)
		fallbackBefore := outcomeCount(t, metrics.OutcomeFallback)

		_, err := uc.Classify(context.Background(), &ClassifyInput{ImageURL: "http://cam/snake.jpg"})

		assert.NoError(t, err)
		assert.Equal(t, okBefore+1, outcomeCount(t, metrics.OutcomeOK))
		assert.Equal(t, fallbackBefore, outcomeCount(t, metrics.OutcomeFallback))
	})

	t.Run("dangerous result triggers alert", func(t *testing.T) {
		mockClassifier := new(MockClassifier)
		mockRepo := new(MockDetectionRepository)
		mockNotifier := new(MockNotifier)
		uc := NewClassificationUsecase(mockClassifier, mockRepo, mockNotifier, zap.NewNop())

		result := highRiskClassification()
		mockClassifier.On("Classify", mock.Anything, "http://cam/snake.jpg", "").Return(result, nil)
		mockNotifier.On("NotifyClassification", mock.Anything, result).Return(nil)

		_, err := uc.Classify(context.Background(), &ClassifyInput{ImageURL: "http://cam/snake.jpg"})

		assert.NoError(t, err)
		mockNotifier.AssertExpectations(t)
	})

	t.Run("low risk result does not alert", func(t *testing.T) {
		mockClassifier := new(MockClassifier)
		mockRepo := new(MockDetectionRepository)
		mockNotifier := new(MockNotifier)
		uc := NewClassificationUsecase(mockClassifier, mockRepo, mockNotifier, zap.NewNop())

		mockClassifier.On("Classify", mock.Anything, "http://cam/snake.jpg", "").Return(lowRiskClassification(), nil)

		_, err := uc.Classify(context.Background(), &ClassifyInput{ImageURL: "http://cam/snake.jpg"})

		assert.NoError(t, err)
		mockNotifier.AssertNotCalled(t, "NotifyClassification")
	})

	t.Run("alert failure does not fail the call", func(t *testing.T) {
		mockClassifier := new(MockClassifier)
		mockRepo := new(MockDetectionRepository)
		mockNotifier := new(MockNotifier)
		uc := NewClassificationUsecase(mockClassifier, mockRepo, mockNotifier, zap.NewNop())

		result := highRiskClassification()
		mockClassifier.On("Classify", mock.Anything, "http://cam/snake.jpg", "").Return(result, nil)
		mockNotifier.On("NotifyClassification", mock.Anything, result).Return(errors.New("telegram down"))

		_, err := uc.Classify(context.Background(), &ClassifyInput{ImageURL: "http://cam/snake.jpg"})

		assert.NoError(t, err)
	})
}

func TestClassificationUsecase_ClassifyDetection(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockClassifier := new(MockClassifier)
		mockRepo := new(MockDetectionRepository)
		uc := NewClassificationUsecase(mockClassifier, mockRepo, nil, zap.NewNop())

		detectionID := uuid.New()
		detection := entity.NewDetection(time.Now(), 0.9, "http://cam/stored.jpg", nil, nil)
		detection.ID = detectionID

		mockRepo.On("GetByID", mock.Anything, detectionID).Return(detection, nil)
		mockClassifier.On("Classify", mock.Anything, "http://cam/stored.jpg", detectionID.String()).
			Return(highRiskClassification(), nil)
		mockRepo.On("Update", mock.Anything, detection).Return(nil)

		updated, err := uc.ClassifyDetection(context.Background(), detectionID)

		assert.NoError(t, err)
		assert.True(t, updated.IsClassified())
		assert.Equal(t, entity.RiskLevelHigh, updated.RiskLevel)
		mockRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockClassifier := new(MockClassifier)
		mockRepo := new(MockDetectionRepository)
		uc := NewClassificationUsecase(mockClassifier, mockRepo, nil, zap.NewNop())

		detectionID := uuid.New()
		mockRepo.On("GetByID", mock.Anything, detectionID).Return(nil, nil)

		updated, err := uc.ClassifyDetection(context.Background(), detectionID)

		assert.ErrorIs(t, err, ErrDetectionNotFound)
		assert.Nil(t, updated)
		mockClassifier.AssertNotCalled(t, "Classify")
	})

	t.Run("fallback on reprocess counts as fallback outcome", func(t *testing.T) {
		mockClassifier := new(MockClassifier)
		mockRepo := new(MockDetectionRepository)
		uc := NewClassificationUsecase(mockClassifier, mockRepo, nil, zap.NewNop())

		detectionID := uuid.New()
		detection := entity.NewDetection(time.Now(), 0.9, "http://cam/stored.jpg", nil, nil)
		detection.ID = detectionID

		mockRepo.On("GetByID", mock.Anything, detectionID).Return(detection, nil)
		mockClassifier.On("Classify", mock.Anything, "http://cam/stored.jpg", detectionID.String()).
			Return(entity.FallbackClassification(), nil)
		mockRepo.On("Update", mock.Anything, detection).Return(nil)

		okBefore := outcomeCount(t, metrics.OutcomeOK)
		fallbackBefore := outcomeCount(t, metrics.OutcomeFallback)

		_, err := uc.ClassifyDetection(context.Background(), detectionID)

		assert.NoError(t, err)
		assert.Equal(t, fallbackBefore+1, outcomeCount(t, metrics.OutcomeFallback))
		assert.Equal(t, okBefore, outcomeCount(t, metrics.OutcomeOK))
	})

	t.Run("update error propagates", func(t *testing.T) {
		mockClassifier := new(MockClassifier)
		mockRepo := new(MockDetectionRepository)
		uc := NewClassificationUsecase(mockClassifier, mockRepo, nil, zap.NewNop())

		detectionID := uuid.New()
		detection := entity.NewDetection(time.Now(), 0.9, "http://cam/stored.jpg", nil, nil)
		detection.ID = detectionID

		expectedErr := errors.New("database error")
		mockRepo.On("GetByID", mock.Anything, detectionID).Return(detection, nil)
		mockClassifier.On("Classify", mock.Anything, "http://cam/stored.jpg", detectionID.String()).
			Return(lowRiskClassification(), nil)
		mockRepo.On("Update", mock.Anything, detection).Return(expectedErr)

		updated, err := uc.ClassifyDetection(context.Background(), detectionID)

		assert.Equal(t, expectedErr, err)
		assert.Nil(t, updated)
	})
}
