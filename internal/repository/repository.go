package repository

import (
	"context"
	"errors"

	"coursemart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// Create inserts a user. Returns model.ErrEmailTaken when the email is in use.
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves a user by ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail retrieves a user by email. Returns nil when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// List returns all users, newest first.
	List(ctx context.Context) ([]model.User, error)
}

// CourseRepository defines the interface for course data access operations.
type CourseRepository interface {
	// Search returns courses matching the filter, newest first.
	Search(ctx context.Context, filter model.CourseFilter) ([]model.Course, error)

	// GetByID retrieves a course by ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error)

	// Create inserts a course.
	Create(ctx context.Context, course *model.Course) error

	// Update overwrites the mutable fields of a course. Reports false when absent.
	Update(ctx context.Context, course *model.Course) (bool, error)

	// Delete removes a course. Reports false when absent.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// InsertMissing inserts the courses whose title is not yet in the catalogue
	// and returns how many were inserted.
	InsertMissing(ctx context.Context, courses []model.Course) (int, error)
}

// CartRepository defines the interface for cart data access operations.
// Methods taking a pgx.Tx must run inside a transaction that holds the cart lock.
type CartRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// GetOrCreate returns the user's cart ID, creating the cart if needed.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)

	// FindByUserID returns the user's cart ID without creating one. Returns nil when absent.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)

	// Lines returns the cart's lines joined with current course data.
	Lines(ctx context.Context, cartID uuid.UUID) ([]model.CartLine, error)

	// LockCart takes a row lock on the cart.
	LockCart(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error

	// LockUserCart takes a row lock on the user's cart and returns its ID, or nil when absent.
	LockUserCart(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*uuid.UUID, error)

	// LinesTx returns the cart's lines inside the transaction.
	LinesTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) ([]model.CartLine, error)

	// AddItem inserts a line or increments the quantity of the existing line for the course.
	// The course must still be available inside tx; a merged quantity above
	// model.MaxQuantity is rejected with model.ErrInvalidQuantity.
	AddItem(ctx context.Context, tx pgx.Tx, cartID, courseID uuid.UUID, quantity int) error

	// UpdateItemQuantity sets the quantity of a line owned by the user. Reports false when not owned.
	UpdateItemQuantity(ctx context.Context, tx pgx.Tx, userID, itemID uuid.UUID, quantity int) (bool, error)

	// DeleteItem deletes a line owned by the user. Reports false when not owned.
	DeleteItem(ctx context.Context, tx pgx.Tx, userID, itemID uuid.UUID) (bool, error)

	// ClearItems deletes every line of the cart.
	ClearItems(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) (int64, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// PurchasedCourseIDs returns the distinct courses the user has ordered.
	PurchasedCourseIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// AdminRepository defines the read-only rollups used by the admin dashboard.
type AdminRepository interface {
	// Stats returns store-wide counts and revenue.
	Stats(ctx context.Context) (*model.Stats, error)

	// RecentOrders returns the latest orders with their buyer's name.
	RecentOrders(ctx context.Context, limit int) ([]model.OrderWithUser, error)

	// PopularCourses ranks courses by the number of order lines referencing them.
	PopularCourses(ctx context.Context, limit int) ([]model.PopularCourse, error)

	// UserOrders returns a user's orders with their line counts, newest first.
	UserOrders(ctx context.Context, userID uuid.UUID) ([]model.UserOrder, error)
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
