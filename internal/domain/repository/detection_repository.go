package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/snakewatch-io/api-service/internal/domain/entity"
)

// SpeciesCount is a per-species aggregate for dashboard charts
type SpeciesCount struct {
	Species string `json:"species"`
	Count   int64  `json:"count"`
}

// RiskCount is a per-risk-level aggregate for dashboard charts
type RiskCount struct {
	RiskLevel string `json:"risk_level"`
	Count     int64  `json:"count"`
}

// DayCount is a per-day aggregate for dashboard charts
type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// DetectionRepository defines the interface for detection data operations
type DetectionRepository interface {
	// Create creates a new detection
	Create(ctx context.Context, detection *entity.Detection) error

	// GetByID retrieves a detection by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Detection, error)

	// List retrieves detections with pagination, newest first.
	// riskLevel filters when non-empty.
	List(ctx context.Context, riskLevel entity.RiskLevel, limit, offset int) ([]*entity.Detection, int64, error)

	// Update updates a detection
	Update(ctx context.Context, detection *entity.Detection) error

	// Delete deletes a detection by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts all detections
	Count(ctx context.Context) (int64, error)

	// CountSince counts detections with a timestamp after the given time
	CountSince(ctx context.Context, since time.Time) (int64, error)

	// CountClassified counts detections that have been classified
	CountClassified(ctx context.Context) (int64, error)

	// CountVenomous counts classified detections flagged venomous
	CountVenomous(ctx context.Context) (int64, error)

	// CountBySpecies aggregates classified detections per species
	CountBySpecies(ctx context.Context, limit int) ([]*SpeciesCount, error)

	// CountByRiskLevel aggregates classified detections per risk level
	CountByRiskLevel(ctx context.Context) ([]*RiskCount, error)

	// CountByDay aggregates detections per day since the given time
	CountByDay(ctx context.Context, since time.Time) ([]*DayCount, error)
}
