package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stats are the store-wide counters shown on the admin dashboard.
type Stats struct {
	UserCount    int64           `json:"userCount"`
	CourseCount  int64           `json:"courseCount"`
	OrderCount   int64           `json:"orderCount"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// OrderWithUser is an order annotated with its buyer's name.
type OrderWithUser struct {
	Order
	UserName string `json:"userName" db:"user_name"`
}

// PopularCourse ranks a course by the number of order lines referencing it.
type PopularCourse struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	OrderCount int64     `json:"orderCount" db:"order_count"`
}

// UserOrder is an order with the number of lines it contains.
type UserOrder struct {
	Order
	ItemCount int64 `json:"itemCount" db:"item_count"`
}

// UserDetail is the admin view of a single user.
type UserDetail struct {
	User   User        `json:"user"`
	Orders []UserOrder `json:"orders"`
	Cart   *Cart       `json:"cart"`
}

// Dashboard composes the admin landing data.
type Dashboard struct {
	Stats          Stats           `json:"stats"`
	RecentOrders   []OrderWithUser `json:"recentOrders"`
	PopularCourses []PopularCourse `json:"popularCourses"`
}

// UsersResponse wraps a list of users.
type UsersResponse struct {
	Users []User `json:"users"`
}

// AdminOrdersResponse wraps a list of annotated orders.
type AdminOrdersResponse struct {
	Orders []OrderWithUser `json:"orders"`
}
