// Package recommend talks to the remote course recommendation service.
//
// The service is optional: callers must treat every error as "no
// recommendations" and fall back to local ranking.
package recommend

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable is returned when the remote service cannot produce recommendations.
var ErrUnavailable = errors.New("recommendation service unavailable")

// UserProfile describes the user the recommendations are for.
type UserProfile struct {
	ID                  string   `json:"id"`
	PriceSensitivity    float64  `json:"price_sensitivity"`
	PreferredCategories []string `json:"preferred_categories"`
}

// Product is a catalogue entry offered to the recommender.
type Product struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Price      float64 `json:"price"`
	Rating     float64 `json:"rating"`
	Popularity float64 `json:"popularity"`
}

// Interaction is a past signal from the user about a product.
type Interaction struct {
	ProductID string `json:"product_id"`
	Liked     bool   `json:"liked"`
}

// Request is the body of a recommendation call.
type Request struct {
	UserData         UserProfile   `json:"user_data"`
	ProductData      []Product     `json:"product_data"`
	UserInteractions []Interaction `json:"user_interactions"`
	NRecommendations int           `json:"n_recommendations"`
}

// Item is one ranked recommendation.
type Item struct {
	ProductID       string  `json:"product_id"`
	Name            string  `json:"name"`
	ConfidenceScore float64 `json:"confidence_score"`
	Price           float64 `json:"price"`
	Rating          float64 `json:"rating"`
}

// Recommender produces ranked items for a request.
type Recommender interface {
	Recommend(ctx context.Context, req Request) ([]Item, error)
}

// Disabled is a Recommender that always reports ErrUnavailable.
type Disabled struct{}

// Recommend implements Recommender.
func (Disabled) Recommend(context.Context, Request) ([]Item, error) {
	return nil, ErrUnavailable
}

// CacheKey returns the cache key for a user's recommendations.
func CacheKey(userID string, n int) string {
	return fmt.Sprintf("recommend:%s:%d", userID, n)
}
