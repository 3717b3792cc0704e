package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"coursemart/internal/model"
	"coursemart/internal/validate"

	"github.com/rs/zerolog"
)

// CourseInserter stores seed courses, skipping titles already present.
type CourseInserter interface {
	InsertMissing(ctx context.Context, courses []model.Course) (int, error)
}

// Result summarises a seed run.
type Result struct {
	Files      int `json:"files"`
	Records    int `json:"records"`
	Invalid    int `json:"invalid"`
	Duplicates int `json:"duplicates"`
	Inserted   int `json:"inserted"`
}

// Seeder loads seed files concurrently and inserts the courses that are missing.
type Seeder struct {
	loader Loader
	store  CourseInserter
	logger zerolog.Logger
	now    func() time.Time
}

// NewSeeder creates a new catalogue seeder.
func NewSeeder(loader Loader, store CourseInserter, logger zerolog.Logger) *Seeder {
	return &Seeder{
		loader: loader,
		store:  store,
		logger: logger.With().Str("component", "catalog-seeder").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Seed loads every file and inserts its valid records. Any unreadable file
// aborts the run before anything is written. Within a run the first record
// with a given title wins.
func (s *Seeder) Seed(ctx context.Context, files []string) (*Result, error) {
	batches, err := s.loadAll(ctx, files)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: len(files)}
	seen := make(map[string]struct{})
	now := s.now()

	var courses []model.Course
	for i, records := range batches {
		for _, rec := range records {
			result.Records++

			rec.Title = strings.TrimSpace(rec.Title)
			rec.Category = strings.TrimSpace(rec.Category)
			err := validate.Check(rec)
			if err == nil {
				err = validate.Price(rec.Price.Round(2))
			}
			if err != nil {
				result.Invalid++
				s.logger.Warn().
					Err(err).
					Str("file", files[i]).
					Str("title", rec.Title).
					Msg("skipping invalid seed record")
				continue
			}

			if _, dup := seen[rec.Title]; dup {
				result.Duplicates++
				continue
			}
			seen[rec.Title] = struct{}{}

			courses = append(courses, rec.Course(now))
		}
	}

	inserted, err := s.store.InsertMissing(ctx, courses)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to insert seed courses")
		return nil, fmt.Errorf("failed to insert seed courses: %w", err)
	}
	result.Inserted = inserted

	s.logger.Info().
		Int("files", result.Files).
		Int("records", result.Records).
		Int("invalid", result.Invalid).
		Int("duplicates", result.Duplicates).
		Int("inserted", result.Inserted).
		Msg("catalogue seeded")

	return result, nil
}

// loadAll loads the files concurrently and returns their records in file order.
func (s *Seeder) loadAll(ctx context.Context, files []string) ([][]Record, error) {
	type loadResult struct {
		index   int
		records []Record
		err     error
	}

	resultChan := make(chan loadResult, len(files))
	var wg sync.WaitGroup

	for i, path := range files {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			records, err := s.loader.Load(ctx, path)
			resultChan <- loadResult{index: index, records: records, err: err}
		}(i, path)
	}

	wg.Wait()
	close(resultChan)

	batches := make([][]Record, len(files))
	errs := make([]error, len(files))
	for result := range resultChan {
		batches[result.index] = result.records
		errs[result.index] = result.err
	}

	for i, err := range errs {
		if err != nil {
			s.logger.Error().Err(err).Str("file", files[i]).Msg("failed to load seed file")
			return nil, fmt.Errorf("failed to load seed file %s: %w", files[i], err)
		}
	}

	return batches, nil
}
