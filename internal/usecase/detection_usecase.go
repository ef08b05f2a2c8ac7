package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/snakewatch-io/api-service/internal/domain/entity"
	"github.com/snakewatch-io/api-service/internal/domain/repository"
	"github.com/snakewatch-io/api-service/internal/infrastructure/metrics"
)

// Error definitions for the detection usecase
var (
	ErrDetectionNotFound = errors.New("detection not found")
	ErrInvalidRequest    = errors.New("invalid request")
)

const (
	statsCacheKey = "snakewatch:detection_stats"
	statsCacheTTL = 60 * time.Second
)

// CreateDetectionInput represents the input for ingesting a detection
type CreateDetectionInput struct {
	Timestamp  time.Time `json:"timestamp" binding:"required"`
	Confidence float64   `json:"confidence" binding:"required,min=0,max=1"`
	ImageURL   string    `json:"image_url" binding:"required"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
}

// DetectionListOutput represents a paginated detection list
type DetectionListOutput struct {
	Detections []*entity.Detection `json:"detections"`
	Total      int64               `json:"total"`
	Limit      int                 `json:"limit"`
	Offset     int                 `json:"offset"`
	HasMore    bool                `json:"has_more"`
}

// DetectionStats represents the aggregates behind the dashboard charts
type DetectionStats struct {
	Total       int64                      `json:"total"`
	Last24Hours int64                      `json:"last_24_hours"`
	Classified  int64                      `json:"classified"`
	Venomous    int64                      `json:"venomous"`
	BySpecies   []*repository.SpeciesCount `json:"by_species"`
	ByRiskLevel []*repository.RiskCount    `json:"by_risk_level"`
	ByDay       []*repository.DayCount     `json:"by_day"`
}

// DetectionUsecase defines the interface for detection business logic
type DetectionUsecase interface {
	Create(ctx context.Context, input *CreateDetectionInput) (*entity.Detection, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Detection, error)
	List(ctx context.Context, riskLevel string, limit, offset int) (*DetectionListOutput, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*DetectionStats, error)
}

type detectionUsecase struct {
	detectionRepo repository.DetectionRepository
	cache         *redis.Client
	logger        *zap.Logger
}

// NewDetectionUsecase creates a new detection usecase. The cache is optional;
// stats fall through to the database when it is nil or unavailable.
func NewDetectionUsecase(detectionRepo repository.DetectionRepository, cache *redis.Client, logger *zap.Logger) DetectionUsecase {
	return &detectionUsecase{
		detectionRepo: detectionRepo,
		cache:         cache,
		logger:        logger,
	}
}

func (u *detectionUsecase) Create(ctx context.Context, input *CreateDetectionInput) (*entity.Detection, error) {
	detection := entity.NewDetection(input.Timestamp, input.Confidence, input.ImageURL, input.Latitude, input.Longitude)

	if err := u.detectionRepo.Create(ctx, detection); err != nil {
		return nil, err
	}
	metrics.DetectionsIngestedTotal.Inc()
	u.invalidateStats(ctx)

	return detection, nil
}

func (u *detectionUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entity.Detection, error) {
	detection, err := u.detectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if detection == nil {
		return nil, ErrDetectionNotFound
	}
	return detection, nil
}

func (u *detectionUsecase) List(ctx context.Context, riskLevel string, limit, offset int) (*DetectionListOutput, error) {
	if riskLevel != "" && !entity.ValidRiskLevels[entity.RiskLevel(riskLevel)] {
		return nil, ErrInvalidRequest
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	detections, total, err := u.detectionRepo.List(ctx, entity.RiskLevel(riskLevel), limit, offset)
	if err != nil {
		return nil, err
	}

	return &DetectionListOutput{
		Detections: detections,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
		HasMore:    int64(offset+limit) < total,
	}, nil
}

func (u *detectionUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	detection, err := u.detectionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if detection == nil {
		return ErrDetectionNotFound
	}
	if err := u.detectionRepo.Delete(ctx, id); err != nil {
		return err
	}
	u.invalidateStats(ctx)
	return nil
}

// Stats computes the dashboard aggregates, serving from the cache when a
// fresh copy exists.
func (u *detectionUsecase) Stats(ctx context.Context) (*DetectionStats, error) {
	if cached := u.cachedStats(ctx); cached != nil {
		return cached, nil
	}

	now := time.Now().UTC()
	stats := &DetectionStats{}

	var err error
	if stats.Total, err = u.detectionRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Last24Hours, err = u.detectionRepo.CountSince(ctx, now.Add(-24*time.Hour)); err != nil {
		return nil, err
	}
	if stats.Classified, err = u.detectionRepo.CountClassified(ctx); err != nil {
		return nil, err
	}
	if stats.Venomous, err = u.detectionRepo.CountVenomous(ctx); err != nil {
		return nil, err
	}
	if stats.BySpecies, err = u.detectionRepo.CountBySpecies(ctx, 10); err != nil {
		return nil, err
	}
	if stats.ByRiskLevel, err = u.detectionRepo.CountByRiskLevel(ctx); err != nil {
		return nil, err
	}
	if stats.ByDay, err = u.detectionRepo.CountByDay(ctx, now.AddDate(0, 0, -7)); err != nil {
		return nil, err
	}

	u.storeStats(ctx, stats)
	return stats, nil
}

func (u *detectionUsecase) cachedStats(ctx context.Context) *DetectionStats {
	if u.cache == nil {
		return nil
	}
	data, err := u.cache.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var stats DetectionStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil
	}
	return &stats
}

func (u *detectionUsecase) storeStats(ctx context.Context, stats *DetectionStats) {
	if u.cache == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := u.cache.Set(ctx, statsCacheKey, data, statsCacheTTL).Err(); err != nil {
		u.logger.Warn("failed to cache detection stats", zap.Error(err))
	}
}

func (u *detectionUsecase) invalidateStats(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Del(ctx, statsCacheKey).Err(); err != nil {
		u.logger.Warn("failed to invalidate stats cache", zap.Error(err))
	}
}
