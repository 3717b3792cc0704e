package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Course represents a purchasable course in the catalogue.
type Course struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	Category    string          `json:"category" db:"category"`
	Price       decimal.Decimal `json:"price" db:"price"`
	ImageURL    *string         `json:"imageUrl,omitempty" db:"image_url"`
	Available   bool            `json:"available" db:"available"`
	CreatedBy   *uuid.UUID      `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// CourseFilter narrows a catalogue search. Empty fields are ignored.
type CourseFilter struct {
	Category string
	Query    string
}

// CreateCourseRequest represents the payload for creating a course.
type CreateCourseRequest struct {
	Title       string           `json:"title" validate:"required,max=200"`
	Description string           `json:"description" validate:"required"`
	Category    string           `json:"category" validate:"required,max=100"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0"`
	ImageURL    *string          `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Available   *bool            `json:"available,omitempty"`
}

// UpdateCourseRequest represents a partial course update. Omitted fields keep their value.
type UpdateCourseRequest struct {
	Title       *string          `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description,omitempty" validate:"omitempty,min=1"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Price       *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gte=0"`
	ImageURL    *string          `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Available   *bool            `json:"available,omitempty"`
}

// Apply copies the provided fields onto c.
func (r *UpdateCourseRequest) Apply(c *Course) {
	if r.Title != nil {
		c.Title = *r.Title
	}
	if r.Description != nil {
		c.Description = *r.Description
	}
	if r.Category != nil {
		c.Category = *r.Category
	}
	if r.Price != nil {
		c.Price = *r.Price
	}
	if r.ImageURL != nil {
		c.ImageURL = r.ImageURL
	}
	if r.Available != nil {
		c.Available = *r.Available
	}
}

// CourseResponse wraps a single course.
type CourseResponse struct {
	Course Course `json:"course"`
}

// CoursesResponse wraps a list of courses.
type CoursesResponse struct {
	Courses []Course `json:"courses"`
}
