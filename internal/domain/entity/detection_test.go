package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewDetection(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	lat, lng := 12.9716, 77.5946

	d := NewDetection(ts, 0.87, "https://cdn.example.com/snake.jpg", &lat, &lng)

	assert.NotEqual(t, uuid.Nil, d.ID)
	assert.Equal(t, ts, d.Timestamp)
	assert.Equal(t, 0.87, d.Confidence)
	assert.Equal(t, "https://cdn.example.com/snake.jpg", d.ImageURL)
	assert.Equal(t, lat, *d.Latitude)
	assert.Equal(t, lng, *d.Longitude)
	assert.False(t, d.IsClassified())
}

func TestDetection_ApplyClassification(t *testing.T) {
	d := NewDetection(time.Now().UTC(), 0.9, "https://cdn.example.com/snake.jpg", nil, nil)
	at := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)

	d.ApplyClassification(&Classification{
		Species:     "Russell's Viper",
		Venomous:    true,
		Confidence:  0.81,
		RiskLevel:   RiskLevelCritical,
		Description: "Responsible for many snakebite incidents.",
		FirstAid:    "Seek antivenom treatment immediately.",
	}, at)

	assert.True(t, d.IsClassified())
	assert.Equal(t, "Russell's Viper", d.Species)
	assert.True(t, *d.Venomous)
	assert.Equal(t, 0.81, *d.ClassifierConfidence)
	assert.Equal(t, RiskLevelCritical, d.RiskLevel)
	assert.Equal(t, at, *d.ClassifiedAt)
}
