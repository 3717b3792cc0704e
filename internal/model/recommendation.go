package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recommendation is a ranked course suggestion.
type Recommendation struct {
	CourseID uuid.UUID       `json:"courseId"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Score    float64         `json:"score"`
}

// RecommendationsResponse wraps recommendations and where they came from.
type RecommendationsResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
	Source          string           `json:"source"`
	GeneratedAt     time.Time        `json:"generatedAt"`
}
