package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coursemart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const courseColumns = `id, title, description, category, price, image_url, available, created_by, created_at, updated_at`

// likeEscaper escapes LIKE metacharacters so a search term matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// courseRepository implements the CourseRepository interface using PostgreSQL.
type courseRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCourseRepository creates a new PostgreSQL-backed course repository.
func NewCourseRepository(pool *pgxpool.Pool, logger zerolog.Logger) CourseRepository {
	return &courseRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "course").Logger(),
	}
}

func scanCourse(row pgx.Row, c *model.Course) error {
	return row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.Category,
		&c.Price,
		&c.ImageURL,
		&c.Available,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

func (r *courseRepository) Search(ctx context.Context, filter model.CourseFilter) ([]model.Course, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}

	if filter.Query != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.Query)+"%")
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + courseColumns + ` FROM courses`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).
			Str("category", filter.Category).
			Str("query", filter.Query).
			Msg("failed to query courses")
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := scanCourse(rows, &c); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan course row")
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating course rows")
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}

	return courses, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	var c model.Course
	if err := scanCourse(r.pool.QueryRow(ctx, query, id), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("course_id", id.String()).Msg("course not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("course_id", id.String()).Msg("failed to query course")
		return nil, fmt.Errorf("failed to query course: %w", err)
	}

	return &c, nil
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	query := `
		INSERT INTO courses (` + courseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Category,
		course.Price,
		course.ImageURL,
		course.Available,
		course.CreatedBy,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("course_id", course.ID.String()).Msg("failed to create course")
		return fmt.Errorf("failed to create course: %w", err)
	}

	r.logger.Debug().Str("course_id", course.ID.String()).Msg("course created successfully")

	return nil
}

func (r *courseRepository) Update(ctx context.Context, course *model.Course) (bool, error) {
	query := `
		UPDATE courses
		SET title = $2, description = $3, category = $4, price = $5,
			image_url = $6, available = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Category,
		course.Price,
		course.ImageURL,
		course.Available,
		course.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("course_id", course.ID.String()).Msg("failed to update course")
		return false, fmt.Errorf("failed to update course: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *courseRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("course_id", id.String()).Msg("failed to delete course")
		return false, fmt.Errorf("failed to delete course: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *courseRepository) InsertMissing(ctx context.Context, courses []model.Course) (int, error) {
	if len(courses) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO courses (` + courseColumns + `)
		SELECT $1::uuid, $2::text, $3::text, $4::text, $5::numeric,
			$6::text, $7::boolean, $8::uuid, $9::timestamptz, $10::timestamptz
		WHERE NOT EXISTS (SELECT 1 FROM courses WHERE title = $2::text)
	`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	batch := &pgx.Batch{}
	for _, c := range courses {
		batch.Queue(query,
			c.ID, c.Title, c.Description, c.Category, c.Price,
			c.ImageURL, c.Available, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)

	inserted := 0
	for i := range courses {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			r.logger.Error().Err(err).Str("title", courses[i].Title).Msg("failed to insert seed course")
			return 0, fmt.Errorf("failed to insert course %q: %w", courses[i].Title, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit seed transaction")
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}
