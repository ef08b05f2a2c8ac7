package entity

import (
	"time"

	"github.com/google/uuid"
)

// Detection represents a single snake sighting reported by the camera pipeline
type Detection struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Timestamp  time.Time `json:"timestamp" gorm:"not null;index"`
	Confidence float64   `json:"confidence" gorm:"type:decimal(5,4);not null"`
	ImageURL   string    `json:"image_url" gorm:"type:text;not null"`
	Latitude   *float64  `json:"latitude,omitempty" gorm:"type:decimal(9,6)"`
	Longitude  *float64  `json:"longitude,omitempty" gorm:"type:decimal(9,6)"`

	// Classification result, filled in once the image has been classified
	Species              string     `json:"species,omitempty" gorm:"type:varchar(100)"`
	Venomous             *bool      `json:"venomous,omitempty"`
	ClassifierConfidence *float64   `json:"classifier_confidence,omitempty" gorm:"type:decimal(5,4)"`
	RiskLevel            RiskLevel  `json:"risk_level,omitempty" gorm:"type:varchar(20);index"`
	Description          string     `json:"description,omitempty" gorm:"type:text"`
	FirstAid             string     `json:"first_aid,omitempty" gorm:"type:text"`
	ClassifiedAt         *time.Time `json:"classified_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (Detection) TableName() string {
	return "snake_detections"
}

// NewDetection creates a new Detection reported by the sensor pipeline
func NewDetection(timestamp time.Time, confidence float64, imageURL string, lat, lng *float64) *Detection {
	return &Detection{
		ID:         uuid.New(),
		Timestamp:  timestamp,
		Confidence: confidence,
		ImageURL:   imageURL,
		Latitude:   lat,
		Longitude:  lng,
	}
}

// IsClassified returns true once a classification has been attached
func (d *Detection) IsClassified() bool {
	return d.ClassifiedAt != nil
}

// ApplyClassification attaches a normalized classification result
func (d *Detection) ApplyClassification(c *Classification, at time.Time) {
	venomous := c.Venomous
	confidence := c.Confidence
	d.Species = c.Species
	d.Venomous = &venomous
	d.ClassifierConfidence = &confidence
	d.RiskLevel = c.RiskLevel
	d.Description = c.Description
	d.FirstAid = c.FirstAid
	d.ClassifiedAt = &at
}
