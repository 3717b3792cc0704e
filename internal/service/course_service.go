package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coursemart/internal/model"
	"coursemart/internal/repository"
	"coursemart/internal/validate"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// courseService implements CourseService.
type courseService struct {
	courseRepo repository.CourseRepository
	logger     zerolog.Logger
}

// NewCourseService creates a new course service.
func NewCourseService(courseRepo repository.CourseRepository, logger zerolog.Logger) CourseService {
	return &courseService{
		courseRepo: courseRepo,
		logger:     logger.With().Str("service", "course").Logger(),
	}
}

func (s *courseService) Search(ctx context.Context, filter model.CourseFilter) ([]model.Course, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Query = strings.TrimSpace(filter.Query)

	courses, err := s.courseRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search courses: %w", err)
	}

	s.logger.Debug().
		Str("category", filter.Category).
		Str("query", filter.Query).
		Int("count", len(courses)).
		Msg("courses searched")

	return courses, nil
}

func (s *courseService) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if course == nil {
		return nil, model.ErrCourseNotFound
	}

	return course, nil
}

func (s *courseService) Create(ctx context.Context, createdBy uuid.UUID, req *model.CreateCourseRequest) (*model.Course, error) {
	if req == nil {
		return nil, model.NewValidationError("request body is required")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Category = strings.TrimSpace(req.Category)

	if err := validate.Check(req); err != nil {
		return nil, model.NewValidationError(err.Error())
	}
	if err := validate.Price(*req.Price); err != nil {
		return nil, model.NewValidationError(err.Error())
	}

	now := time.Now().UTC()
	course := &model.Course{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       *req.Price,
		ImageURL:    req.ImageURL,
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Available != nil {
		course.Available = *req.Available
	}
	if createdBy != uuid.Nil {
		course.CreatedBy = &createdBy
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info().
		Str("course_id", course.ID.String()).
		Str("created_by", createdBy.String()).
		Msg("course created")

	return course, nil
}

func (s *courseService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateCourseRequest) (*model.Course, error) {
	if req == nil {
		return nil, model.NewValidationError("request body is required")
	}

	if err := validate.Check(req); err != nil {
		return nil, model.NewValidationError(err.Error())
	}
	if req.Price != nil {
		if err := validate.Price(*req.Price); err != nil {
			return nil, model.NewValidationError(err.Error())
		}
	}

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if course == nil {
		return nil, model.ErrCourseNotFound
	}

	req.Apply(course)
	course.UpdatedAt = time.Now().UTC()

	found, err := s.courseRepo.Update(ctx, course)
	if err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	// Deleted between read and write.
	if !found {
		return nil, model.ErrCourseNotFound
	}

	s.logger.Info().Str("course_id", id.String()).Msg("course updated")

	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.courseRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	if !found {
		return model.ErrCourseNotFound
	}

	s.logger.Info().Str("course_id", id.String()).Msg("course deleted")

	return nil
}
