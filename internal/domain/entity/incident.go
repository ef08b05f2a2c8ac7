package entity

import (
	"time"

	"github.com/google/uuid"
)

// IncidentStatus represents the current state of an incident
type IncidentStatus string

const (
	IncidentStatusOpen         IncidentStatus = "open"
	IncidentStatusAcknowledged IncidentStatus = "acknowledged"
	IncidentStatusResolved     IncidentStatus = "resolved"
)

// ValidIncidentStatuses contains all valid incident status values
var ValidIncidentStatuses = map[IncidentStatus]bool{
	IncidentStatusOpen:         true,
	IncidentStatusAcknowledged: true,
	IncidentStatusResolved:     true,
}

// Incident represents a response workflow opened for a detection
type Incident struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	DetectionID uuid.UUID      `json:"detection_id" gorm:"type:uuid;not null;index"`
	Status      IncidentStatus `json:"status" gorm:"type:varchar(20);not null;default:'open'"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`

	// Relations
	Steps []IncidentStep `json:"steps,omitempty" gorm:"foreignKey:IncidentID"`
}

// TableName returns the table name for GORM
func (Incident) TableName() string {
	return "incidents"
}

// IncidentStep represents a single step in an incident playbook
type IncidentStep struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	IncidentID  uuid.UUID  `json:"incident_id" gorm:"type:uuid;not null;index"`
	StepNumber  int        `json:"step_number" gorm:"not null"`
	Title       string     `json:"title" gorm:"type:varchar(200);not null"`
	Instruction string     `json:"instruction" gorm:"type:text;not null"`
	Completed   bool       `json:"completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (IncidentStep) TableName() string {
	return "incident_steps"
}

type playbookStep struct {
	title       string
	instruction string
}

var venomousPlaybook = []playbookStep{
	{"Clear the area", "Move people and pets away from the detection location. Do not approach the snake."},
	{"Notify responders", "Contact the local snake catcher or wildlife control with the detection coordinates."},
	{"Monitor from distance", "Keep visual contact with the snake's position from a safe distance until responders arrive."},
	{"Confirm removal", "Verify with responders that the snake has been captured or has left the area."},
}

var observationPlaybook = []playbookStep{
	{"Verify the sighting", "Review the detection image and confirm a snake is present."},
	{"Log the observation", "Record the location and time; no intervention needed for non-venomous species."},
	{"Confirm departure", "Check the area later to confirm the snake has moved on."},
}

// NewIncident creates an incident for a detection and seeds its playbook.
// The playbook depends on the detection's assessed danger: an unclassified
// detection gets the venomous playbook, consistent with the classifier's
// fail-safe bias.
func NewIncident(detection *Detection) *Incident {
	incident := &Incident{
		ID:          uuid.New(),
		DetectionID: detection.ID,
		Status:      IncidentStatusOpen,
	}

	playbook := venomousPlaybook
	if detection.IsClassified() && detection.Venomous != nil && !*detection.Venomous {
		playbook = observationPlaybook
	}

	for i, step := range playbook {
		incident.Steps = append(incident.Steps, IncidentStep{
			ID:          uuid.New(),
			IncidentID:  incident.ID,
			StepNumber:  i + 1,
			Title:       step.title,
			Instruction: step.instruction,
		})
	}

	return incident
}

// IsResolved returns true if the incident has been resolved
func (i *Incident) IsResolved() bool {
	return i.Status == IncidentStatusResolved
}

// CompletedSteps returns the number of completed steps
func (i *Incident) CompletedSteps() int {
	count := 0
	for _, s := range i.Steps {
		if s.Completed {
			count++
		}
	}
	return count
}

// Complete marks the step as done
func (s *IncidentStep) Complete(at time.Time) {
	s.Completed = true
	s.CompletedAt = &at
}
