package repository

import (
	"context"
	"fmt"

	"coursemart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// adminRepository implements the AdminRepository interface using PostgreSQL.
type adminRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAdminRepository creates a new PostgreSQL-backed admin repository.
func NewAdminRepository(pool *pgxpool.Pool, logger zerolog.Logger) AdminRepository {
	return &adminRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "admin").Logger(),
	}
}

func (r *adminRepository) Stats(ctx context.Context) (*model.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM courses),
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders)
	`

	var s model.Stats
	if err := r.pool.QueryRow(ctx, query).Scan(&s.UserCount, &s.CourseCount, &s.OrderCount, &s.TotalRevenue); err != nil {
		r.logger.Error().Err(err).Msg("failed to query stats")
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}

	return &s, nil
}

func (r *adminRepository) RecentOrders(ctx context.Context, limit int) ([]model.OrderWithUser, error) {
	query := `
		SELECT o.id, o.user_id, o.total_amount, o.status, o.created_at, u.name
		FROM orders o
		JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC, o.id
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Int("limit", limit).Msg("failed to query recent orders")
		return nil, fmt.Errorf("failed to query recent orders: %w", err)
	}
	defer rows.Close()

	orders := []model.OrderWithUser{}
	for rows.Next() {
		var o model.OrderWithUser
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UserName); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

func (r *adminRepository) PopularCourses(ctx context.Context, limit int) ([]model.PopularCourse, error) {
	query := `
		SELECT c.id, c.title, COUNT(oi.id) AS order_count
		FROM courses c
		LEFT JOIN order_items oi ON oi.course_id = c.id
		GROUP BY c.id, c.title
		ORDER BY order_count DESC, c.title
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Int("limit", limit).Msg("failed to query popular courses")
		return nil, fmt.Errorf("failed to query popular courses: %w", err)
	}
	defer rows.Close()

	courses := []model.PopularCourse{}
	for rows.Next() {
		var c model.PopularCourse
		if err := rows.Scan(&c.ID, &c.Title, &c.OrderCount); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan popular course row")
			return nil, fmt.Errorf("failed to scan popular course: %w", err)
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating popular course rows")
		return nil, fmt.Errorf("error iterating popular courses: %w", err)
	}

	return courses, nil
}

func (r *adminRepository) UserOrders(ctx context.Context, userID uuid.UUID) ([]model.UserOrder, error) {
	query := `
		SELECT o.id, o.user_id, o.total_amount, o.status, o.created_at, COUNT(oi.id) AS item_count
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		WHERE o.user_id = $1
		GROUP BY o.id
		ORDER BY o.created_at DESC, o.id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query user orders")
		return nil, fmt.Errorf("failed to query user orders: %w", err)
	}
	defer rows.Close()

	orders := []model.UserOrder{}
	for rows.Next() {
		var o model.UserOrder
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.ItemCount); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan user order row")
			return nil, fmt.Errorf("failed to scan user order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating user order rows")
		return nil, fmt.Errorf("error iterating user orders: %w", err)
	}

	return orders, nil
}
