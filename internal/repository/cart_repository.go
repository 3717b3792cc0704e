package repository

import (
	"context"
	"errors"
	"fmt"

	"coursemart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *cartRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// GetOrCreate is a single statement so concurrent first reads converge on one cart.
func (r *cartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	query := `
		INSERT INTO carts (id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id
	`

	var cartID uuid.UUID
	if err := r.pool.QueryRow(ctx, query, uuid.New(), userID).Scan(&cartID); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get or create cart")
		return uuid.Nil, fmt.Errorf("failed to get or create cart: %w", err)
	}

	return cartID, nil
}

func (r *cartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	return r.findCart(ctx, r.pool, `SELECT id FROM carts WHERE user_id = $1`, userID)
}

func (r *cartRepository) LockUserCart(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*uuid.UUID, error) {
	return r.findCart(ctx, tx, `SELECT id FROM carts WHERE user_id = $1 FOR UPDATE`, userID)
}

func (r *cartRepository) findCart(ctx context.Context, q querier, query string, userID uuid.UUID) (*uuid.UUID, error) {
	var cartID uuid.UUID
	if err := q.QueryRow(ctx, query, userID).Scan(&cartID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	return &cartID, nil
}

func (r *cartRepository) LockCart(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM carts WHERE id = $1 FOR UPDATE`, cartID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrCartNotFound
		}
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to lock cart")
		return fmt.Errorf("failed to lock cart: %w", err)
	}

	return nil
}

func (r *cartRepository) Lines(ctx context.Context, cartID uuid.UUID) ([]model.CartLine, error) {
	return r.lines(ctx, r.pool, cartID)
}

func (r *cartRepository) LinesTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) ([]model.CartLine, error) {
	return r.lines(ctx, tx, cartID)
}

func (r *cartRepository) lines(ctx context.Context, q querier, cartID uuid.UUID) ([]model.CartLine, error) {
	query := `
		SELECT ci.id, ci.course_id, c.title, c.price, c.image_url, ci.quantity
		FROM cart_items ci
		JOIN courses c ON c.id = ci.course_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at, ci.id
	`

	rows, err := q.Query(ctx, query, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	lines := []model.CartLine{}
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Title, &l.Price, &l.ImageURL, &l.Quantity); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return lines, nil
}

func (r *cartRepository) AddItem(ctx context.Context, tx pgx.Tx, cartID, courseID uuid.UUID, quantity int) error {
	query := `
		INSERT INTO cart_items (id, cart_id, course_id, quantity)
		SELECT $1::uuid, $2::uuid, c.id, $4::int
		FROM courses c
		WHERE c.id = $3 AND c.available
		ON CONFLICT (cart_id, course_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		WHERE cart_items.quantity + EXCLUDED.quantity <= $5
	`

	tag, err := tx.Exec(ctx, query, uuid.New(), cartID, courseID, quantity, model.MaxQuantity)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return model.ErrCourseUnavailable
		}
		r.logger.Error().Err(err).
			Str("cart_id", cartID.String()).
			Str("course_id", courseID.String()).
			Msg("failed to add cart item")
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing written: either the course is gone or the merge overflowed the cap.
	var available bool
	err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1 AND available)`, courseID).Scan(&available)
	if err != nil {
		return fmt.Errorf("failed to check course availability: %w", err)
	}
	if !available {
		return model.ErrCourseUnavailable
	}
	return model.ErrInvalidQuantity
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, tx pgx.Tx, userID, itemID uuid.UUID, quantity int) (bool, error) {
	query := `
		UPDATE cart_items ci
		SET quantity = $3, updated_at = NOW()
		FROM carts c
		WHERE ci.id = $1 AND ci.cart_id = c.id AND c.user_id = $2
	`

	tag, err := tx.Exec(ctx, query, itemID, userID, quantity)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to update cart item")
		return false, fmt.Errorf("failed to update cart item: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, tx pgx.Tx, userID, itemID uuid.UUID) (bool, error) {
	query := `
		DELETE FROM cart_items ci
		USING carts c
		WHERE ci.id = $1 AND ci.cart_id = c.id AND c.user_id = $2
	`

	tag, err := tx.Exec(ctx, query, itemID, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to delete cart item")
		return false, fmt.Errorf("failed to delete cart item: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *cartRepository) ClearItems(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to clear cart")
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}

	return tag.RowsAffected(), nil
}
