package entity

// RiskLevel is the four-level danger label attached to a classification
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// ValidRiskLevels contains all valid risk level values
var ValidRiskLevels = map[RiskLevel]bool{
	RiskLevelLow:      true,
	RiskLevelMedium:   true,
	RiskLevelHigh:     true,
	RiskLevelCritical: true,
}

// Classification represents the normalized result of classifying a snake image.
// Every field is guaranteed to be present and within its domain once the
// value leaves SanitizeClassification or FallbackClassification.
type Classification struct {
	Species     string    `json:"species"`
	Venomous    bool      `json:"venomous"`
	Confidence  float64   `json:"confidence"`
	RiskLevel   RiskLevel `json:"riskLevel"`
	Description string    `json:"description,omitempty"`
	FirstAid    string    `json:"firstAid,omitempty"`

	// Fallback marks the fixed substitute used when the model reply could
	// not be parsed. Internal signal, never serialized.
	Fallback bool `json:"-"`
}

// Default values substituted during sanitization
const (
	UnknownSpecies    = "Unknown"
	DefaultConfidence = 0.5
)

// SanitizeClassification repairs a partially-trusted record parsed from model
// output. Each field is checked independently; missing or out-of-domain
// values are replaced with fail-safe defaults. Venomous defaults to true
// whenever it is not strictly a boolean so an ambiguous snake is treated as
// dangerous, never as harmless.
func SanitizeClassification(raw map[string]interface{}) *Classification {
	c := &Classification{}

	if s, ok := raw["species"].(string); ok && s != "" {
		c.Species = s
	} else {
		c.Species = UnknownSpecies
	}

	if v, ok := raw["venomous"].(bool); ok {
		c.Venomous = v
	} else {
		c.Venomous = true
	}

	if f, ok := raw["confidence"].(float64); ok && f >= 0 && f <= 1 {
		c.Confidence = f
	} else {
		c.Confidence = DefaultConfidence
	}

	if r, ok := raw["riskLevel"].(string); ok && ValidRiskLevels[RiskLevel(r)] {
		c.RiskLevel = RiskLevel(r)
	} else if c.Venomous {
		c.RiskLevel = RiskLevelHigh
	} else {
		c.RiskLevel = RiskLevelLow
	}

	if d, ok := raw["description"].(string); ok {
		c.Description = d
	}
	if f, ok := raw["firstAid"].(string); ok {
		c.FirstAid = f
	}

	return c
}

// FallbackClassification returns the fixed conservative result substituted
// when model output cannot be parsed at all.
func FallbackClassification() *Classification {
	return &Classification{
		Species:     "Unknown Snake",
		Venomous:    true,
		Confidence:  0.3,
		RiskLevel:   RiskLevelHigh,
		Description: "The snake could not be classified from the provided image.",
		FirstAid:    "Keep a safe distance. If bitten, seek medical attention immediately.",
		Fallback:    true,
	}
}

// IsDangerous reports whether the classification warrants an alert
func (c *Classification) IsDangerous() bool {
	return c.RiskLevel == RiskLevelHigh || c.RiskLevel == RiskLevelCritical
}
