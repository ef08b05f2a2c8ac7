package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/snakewatch-io/api-service/internal/domain/entity"
	"github.com/snakewatch-io/api-service/internal/domain/repository"
)

// Error definitions for the incident usecase
var (
	ErrIncidentNotFound     = errors.New("incident not found")
	ErrIncidentStepNotFound = errors.New("incident step not found")
	ErrIncidentResolved     = errors.New("incident already resolved")
	ErrStepAlreadyCompleted = errors.New("step already completed")
)

// CreateIncidentInput represents the input for opening an incident
type CreateIncidentInput struct {
	DetectionID string `json:"detection_id" binding:"required,uuid"`
}

// UpdateIncidentInput represents the input for changing incident status
type UpdateIncidentInput struct {
	Status string `json:"status" binding:"required"`
}

// IncidentListOutput represents a paginated incident list
type IncidentListOutput struct {
	Incidents []*entity.Incident `json:"incidents"`
	Total     int64              `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	HasMore   bool               `json:"has_more"`
}

// IncidentUsecase defines the interface for incident business logic
type IncidentUsecase interface {
	Create(ctx context.Context, input *CreateIncidentInput) (*entity.Incident, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Incident, error)
	List(ctx context.Context, limit, offset int) (*IncidentListOutput, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, input *UpdateIncidentInput) (*entity.Incident, error)
	CompleteStep(ctx context.Context, incidentID, stepID uuid.UUID) (*entity.IncidentStep, error)
}

type incidentUsecase struct {
	incidentRepo  repository.IncidentRepository
	detectionRepo repository.DetectionRepository
}

// NewIncidentUsecase creates a new incident usecase
func NewIncidentUsecase(incidentRepo repository.IncidentRepository, detectionRepo repository.DetectionRepository) IncidentUsecase {
	return &incidentUsecase{
		incidentRepo:  incidentRepo,
		detectionRepo: detectionRepo,
	}
}

func (u *incidentUsecase) Create(ctx context.Context, input *CreateIncidentInput) (*entity.Incident, error) {
	detectionID, err := uuid.Parse(input.DetectionID)
	if err != nil {
		return nil, ErrInvalidRequest
	}

	detection, err := u.detectionRepo.GetByID(ctx, detectionID)
	if err != nil {
		return nil, err
	}
	if detection == nil {
		return nil, ErrDetectionNotFound
	}

	incident := entity.NewIncident(detection)
	if err := u.incidentRepo.Create(ctx, incident); err != nil {
		return nil, err
	}

	return incident, nil
}

func (u *incidentUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entity.Incident, error) {
	incident, err := u.incidentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if incident == nil {
		return nil, ErrIncidentNotFound
	}
	return incident, nil
}

func (u *incidentUsecase) List(ctx context.Context, limit, offset int) (*IncidentListOutput, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	incidents, total, err := u.incidentRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return &IncidentListOutput{
		Incidents: incidents,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
		HasMore:   int64(offset+limit) < total,
	}, nil
}

func (u *incidentUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, input *UpdateIncidentInput) (*entity.Incident, error) {
	status := entity.IncidentStatus(input.Status)
	if !entity.ValidIncidentStatuses[status] {
		return nil, ErrInvalidRequest
	}

	incident, err := u.incidentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if incident == nil {
		return nil, ErrIncidentNotFound
	}
	if incident.IsResolved() {
		return nil, ErrIncidentResolved
	}

	incident.Status = status
	if err := u.incidentRepo.Update(ctx, incident); err != nil {
		return nil, err
	}

	return incident, nil
}

func (u *incidentUsecase) CompleteStep(ctx context.Context, incidentID, stepID uuid.UUID) (*entity.IncidentStep, error) {
	incident, err := u.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if incident == nil {
		return nil, ErrIncidentNotFound
	}
	if incident.IsResolved() {
		return nil, ErrIncidentResolved
	}

	step, err := u.incidentRepo.GetStep(ctx, incidentID, stepID)
	if err != nil {
		return nil, err
	}
	if step == nil {
		return nil, ErrIncidentStepNotFound
	}
	if step.Completed {
		return nil, ErrStepAlreadyCompleted
	}

	step.Complete(time.Now().UTC())
	if err := u.incidentRepo.UpdateStep(ctx, step); err != nil {
		return nil, err
	}

	return step, nil
}
