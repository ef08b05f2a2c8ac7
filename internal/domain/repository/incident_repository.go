package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/snakewatch-io/api-service/internal/domain/entity"
)

// IncidentRepository defines the interface for incident data operations
type IncidentRepository interface {
	// Create creates a new incident together with its steps
	Create(ctx context.Context, incident *entity.Incident) error

	// GetByID retrieves an incident with its steps ordered by step number
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Incident, error)

	// List retrieves incidents with pagination, newest first
	List(ctx context.Context, limit, offset int) ([]*entity.Incident, int64, error)

	// Update updates an incident
	Update(ctx context.Context, incident *entity.Incident) error

	// GetStep retrieves a single step of an incident
	GetStep(ctx context.Context, incidentID, stepID uuid.UUID) (*entity.IncidentStep, error)

	// UpdateStep updates a step
	UpdateStep(ctx context.Context, step *entity.IncidentStep) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// List retrieves users with pagination, newest first
	List(ctx context.Context, limit, offset int) ([]*entity.User, int64, error)
}
