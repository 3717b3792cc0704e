package service

import (
	"context"

	"coursemart/internal/model"

	"github.com/google/uuid"
)

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(identity model.Identity) (string, error)
}

// AuthService defines account and session operations.
type AuthService interface {
	// Register creates a user account and returns it with a session token.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, string, error)

	// Login checks credentials and returns the user with a session token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.User, string, error)

	// Me returns the current user.
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)

	// CreateAdmin creates an admin account. It is not reachable over HTTP.
	CreateAdmin(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
}

// CourseService defines catalogue operations.
type CourseService interface {
	// Search returns courses matching the filter, newest first.
	Search(ctx context.Context, filter model.CourseFilter) ([]model.Course, error)

	// GetByID retrieves a single course.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error)

	// Create adds a course on behalf of an admin.
	Create(ctx context.Context, createdBy uuid.UUID, req *model.CreateCourseRequest) (*model.Course, error)

	// Update applies a partial update to a course.
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateCourseRequest) (*model.Course, error)

	// Delete removes a course.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CartService defines operations on the caller's cart.
type CartService interface {
	// GetCart returns the user's cart, creating it on first access.
	GetCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// AddItem adds quantity of a course, merging with an existing line.
	AddItem(ctx context.Context, userID, courseID uuid.UUID, quantity int) error

	// UpdateQuantity sets the quantity of one of the user's lines.
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error

	// RemoveItem deletes one of the user's lines.
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
}

// CheckoutService defines order placement and order history.
type CheckoutService interface {
	// Checkout converts the user's cart into an order and empties the cart.
	Checkout(ctx context.Context, userID uuid.UUID) (*model.Order, error)

	// ListOrders returns the user's orders, newest first.
	ListOrders(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// GetOrder returns one of the user's orders with its lines.
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, []model.OrderItem, error)
}

// AdminService defines the read-only admin rollups.
type AdminService interface {
	Stats(ctx context.Context) (*model.Stats, error)
	RecentOrders(ctx context.Context, limit int) ([]model.OrderWithUser, error)
	PopularCourses(ctx context.Context, limit int) ([]model.PopularCourse, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UserDetail(ctx context.Context, userID uuid.UUID) (*model.UserDetail, error)
	Dashboard(ctx context.Context) (*model.Dashboard, error)
}

// RecommendationService defines best-effort course recommendations.
type RecommendationService interface {
	// Recommend never fails because the remote recommender is down; it falls back to popularity.
	Recommend(ctx context.Context, userID uuid.UUID, limit int) (*model.RecommendationsResponse, error)
}
