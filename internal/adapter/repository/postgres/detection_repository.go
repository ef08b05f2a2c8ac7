package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/snakewatch-io/api-service/internal/domain/entity"
	"github.com/snakewatch-io/api-service/internal/domain/repository"
)

type detectionRepository struct {
	db *gorm.DB
}

// NewDetectionRepository creates a new detection repository
func NewDetectionRepository(db *gorm.DB) repository.DetectionRepository {
	return &detectionRepository{db: db}
}

func (r *detectionRepository) Create(ctx context.Context, detection *entity.Detection) error {
	return r.db.WithContext(ctx).Create(detection).Error
}

func (r *detectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Detection, error) {
	var detection entity.Detection
	err := r.db.WithContext(ctx).First(&detection, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &detection, nil
}

func (r *detectionRepository) List(ctx context.Context, riskLevel entity.RiskLevel, limit, offset int) ([]*entity.Detection, int64, error) {
	var detections []*entity.Detection
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Detection{})
	if riskLevel != "" {
		query = query.Where("risk_level = ?", riskLevel)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&detections).Error
	if err != nil {
		return nil, 0, err
	}

	return detections, total, nil
}

func (r *detectionRepository) Update(ctx context.Context, detection *entity.Detection) error {
	return r.db.WithContext(ctx).Save(detection).Error
}

func (r *detectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Detection{}, "id = ?", id).Error
}

func (r *detectionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Detection{}).Count(&count).Error
	return count, err
}

func (r *detectionRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Detection{}).
		Where("timestamp > ?", since).
		Count(&count).Error
	return count, err
}

func (r *detectionRepository) CountClassified(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Detection{}).
		Where("classified_at IS NOT NULL").
		Count(&count).Error
	return count, err
}

func (r *detectionRepository) CountVenomous(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Detection{}).
		Where("venomous = ?", true).
		Count(&count).Error
	return count, err
}

func (r *detectionRepository) CountBySpecies(ctx context.Context, limit int) ([]*repository.SpeciesCount, error) {
	var counts []*repository.SpeciesCount
	err := r.db.WithContext(ctx).Model(&entity.Detection{}).
		Select("species, COUNT(*) as count").
		Where("classified_at IS NOT NULL").
		Group("species").
		Order("count DESC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *detectionRepository) CountByRiskLevel(ctx context.Context) ([]*repository.RiskCount, error) {
	var counts []*repository.RiskCount
	err := r.db.WithContext(ctx).Model(&entity.Detection{}).
		Select("risk_level, COUNT(*) as count").
		Where("classified_at IS NOT NULL").
		Group("risk_level").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *detectionRepository) CountByDay(ctx context.Context, since time.Time) ([]*repository.DayCount, error) {
	var counts []*repository.DayCount
	err := r.db.WithContext(ctx).Model(&entity.Detection{}).
		Select("to_char(timestamp, 'YYYY-MM-DD') as day, COUNT(*) as count").
		Where("timestamp > ?", since).
		Group("day").
		Order("day ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
