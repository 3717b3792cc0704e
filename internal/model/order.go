package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatusCompleted is the only status an order is created with.
const OrderStatusCompleted = "completed"

// Order represents a completed purchase. Orders are immutable.
type Order struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      uuid.UUID       `json:"userId" db:"user_id"`
	TotalAmount decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Status      string          `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// OrderItem represents a line item in an order with its price snapshot.
type OrderItem struct {
	ID       uuid.UUID       `json:"id" db:"id"`
	OrderID  uuid.UUID       `json:"-" db:"order_id"`
	CourseID uuid.UUID       `json:"courseId" db:"course_id"`
	Title    string          `json:"title,omitempty" db:"title"`
	Price    decimal.Decimal `json:"price" db:"price"`
	Quantity int             `json:"quantity" db:"quantity"`
}

// OrderSummary is the order reference returned by checkout.
type OrderSummary struct {
	ID    uuid.UUID       `json:"id"`
	Total decimal.Decimal `json:"total"`
}

// CheckoutResponse represents the response payload for a checkout.
type CheckoutResponse struct {
	Success bool         `json:"success"`
	Order   OrderSummary `json:"order"`
}

// OrdersResponse wraps a list of orders.
type OrdersResponse struct {
	Orders []Order `json:"orders"`
}

// OrderDetailResponse is an order with its lines.
type OrderDetailResponse struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}
