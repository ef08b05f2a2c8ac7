package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/snakewatch-io/api-service/internal/domain/entity"
	"github.com/snakewatch-io/api-service/internal/domain/repository"
)

type incidentRepository struct {
	db *gorm.DB
}

// NewIncidentRepository creates a new incident repository
func NewIncidentRepository(db *gorm.DB) repository.IncidentRepository {
	return &incidentRepository{db: db}
}

func (r *incidentRepository) Create(ctx context.Context, incident *entity.Incident) error {
	return r.db.WithContext(ctx).Create(incident).Error
}

func (r *incidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Incident, error) {
	var incident entity.Incident
	err := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_number ASC")
		}).
		First(&incident, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &incident, nil
}

func (r *incidentRepository) List(ctx context.Context, limit, offset int) ([]*entity.Incident, int64, error) {
	var incidents []*entity.Incident
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.Incident{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&incidents).Error
	if err != nil {
		return nil, 0, err
	}

	return incidents, total, nil
}

func (r *incidentRepository) Update(ctx context.Context, incident *entity.Incident) error {
	return r.db.WithContext(ctx).Omit("Steps").Save(incident).Error
}

func (r *incidentRepository) GetStep(ctx context.Context, incidentID, stepID uuid.UUID) (*entity.IncidentStep, error) {
	var step entity.IncidentStep
	err := r.db.WithContext(ctx).
		First(&step, "id = ? AND incident_id = ?", stepID, incidentID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &step, nil
}

func (r *incidentRepository) UpdateStep(ctx context.Context, step *entity.IncidentStep) error {
	return r.db.WithContext(ctx).Save(step).Error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]*entity.User, int64, error) {
	var users []*entity.User
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
