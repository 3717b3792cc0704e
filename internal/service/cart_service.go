package service

import (
	"context"
	"fmt"

	"coursemart/internal/model"
	"coursemart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo   repository.CartRepository
	courseRepo repository.CourseRepository
	logger     zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	courseRepo repository.CourseRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:   cartRepo,
		courseRepo: courseRepo,
		logger:     logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cartID, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	lines, err := s.cartRepo.Lines(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}

	return &model.Cart{
		ID:    cartID,
		Items: lines,
		Total: model.SumLines(lines),
	}, nil
}

func (s *cartService) AddItem(ctx context.Context, userID, courseID uuid.UUID, quantity int) error {
	if !model.ValidQuantity(quantity) {
		return model.ErrInvalidQuantity
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("failed to get course: %w", err)
	}

	if course == nil || !course.Available {
		s.logger.Debug().Str("course_id", courseID.String()).Msg("course not available for cart")
		return model.ErrCourseUnavailable
	}

	cartID, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get cart: %w", err)
	}

	err = s.withCartLock(ctx, func(tx pgx.Tx) error {
		if err := s.cartRepo.LockCart(ctx, tx, cartID); err != nil {
			return err
		}
		return s.cartRepo.AddItem(ctx, tx, cartID, courseID, quantity)
	})
	if err != nil {
		return err
	}

	s.logger.Debug().
		Str("cart_id", cartID.String()).
		Str("course_id", courseID.String()).
		Int("quantity", quantity).
		Msg("course added to cart")

	return nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	if !model.ValidQuantity(quantity) {
		return model.ErrInvalidQuantity
	}

	return s.withCartLock(ctx, func(tx pgx.Tx) error {
		cartID, err := s.cartRepo.LockUserCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		if cartID == nil {
			return model.ErrCartItemNotFound
		}

		updated, err := s.cartRepo.UpdateItemQuantity(ctx, tx, userID, itemID, quantity)
		if err != nil {
			return err
		}
		if !updated {
			return model.ErrCartItemNotFound
		}
		return nil
	})
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.withCartLock(ctx, func(tx pgx.Tx) error {
		cartID, err := s.cartRepo.LockUserCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		if cartID == nil {
			return model.ErrCartItemNotFound
		}

		deleted, err := s.cartRepo.DeleteItem(ctx, tx, userID, itemID)
		if err != nil {
			return err
		}
		if !deleted {
			return model.ErrCartItemNotFound
		}
		return nil
	})
}

// withCartLock runs fn in a transaction, committing on success and rolling back otherwise.
func (s *cartService) withCartLock(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = fn(tx); err != nil {
		if _, ok := model.AsDomainError(err); ok {
			return err
		}
		return fmt.Errorf("failed to update cart: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit cart update: %w", err)
	}

	return nil
}
