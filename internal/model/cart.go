package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is a user's cart with its lines joined to current course data.
type Cart struct {
	ID    uuid.UUID       `json:"id"`
	Items []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// CartLine is one cart item joined with the course's current price.
type CartLine struct {
	ID       uuid.UUID       `json:"id" db:"id"`
	CourseID uuid.UUID       `json:"courseId" db:"course_id"`
	Title    string          `json:"title" db:"title"`
	Price    decimal.Decimal `json:"price" db:"price"`
	ImageURL *string         `json:"imageUrl,omitempty" db:"image_url"`
	Quantity int             `json:"quantity" db:"quantity"`
}

// Subtotal returns price times quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SumLines returns the sum of line subtotals.
func SumLines(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// MaxQuantity caps the quantity of a single cart line.
const MaxQuantity = 1000

// ValidQuantity reports whether q is an acceptable line quantity.
func ValidQuantity(q int) bool {
	return q >= 1 && q <= MaxQuantity
}

// AddToCartRequest represents the payload for adding a course to the cart.
// A missing quantity means 1.
type AddToCartRequest struct {
	CourseID string `json:"courseId" validate:"required"`
	Quantity *int   `json:"quantity,omitempty"`
}

// UpdateCartItemRequest represents the payload for changing a line quantity.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CartResponse wraps a cart.
type CartResponse struct {
	Cart Cart `json:"cart"`
}

// SuccessResponse is the body of mutations that return no entity.
type SuccessResponse struct {
	Success bool `json:"success"`
}
