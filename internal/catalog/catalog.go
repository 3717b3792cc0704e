// Package catalog loads course seed files and inserts the courses that are
// not yet in the store.
//
// A seed file is gzipped JSON lines, one course per line:
//
//	{"title":"Go Fundamentals","description":"...","category":"Programming","price":"49.99"}
package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"coursemart/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Loader defines the interface for loading course seed files.
type Loader interface {
	// Load reads a gzipped seed file and returns its records in file order.
	Load(ctx context.Context, path string) ([]Record, error)
}

// Record is one line of a seed file.
type Record struct {
	Title       string           `json:"title" validate:"required,max=200"`
	Description string           `json:"description" validate:"required"`
	Category    string           `json:"category" validate:"required,max=100"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0"`
	ImageURL    *string          `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Available   *bool            `json:"available,omitempty"`
}

// Course converts the record into a new catalogue entry. Records without an
// availability flag are published.
func (r Record) Course(now time.Time) model.Course {
	available := true
	if r.Available != nil {
		available = *r.Available
	}

	price := decimal.Zero
	if r.Price != nil {
		price = r.Price.Round(2)
	}

	return model.Course{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Category:    strings.TrimSpace(r.Category),
		Price:       price,
		ImageURL:    r.ImageURL,
		Available:   available,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// cancelCheckInterval is how many lines are decoded between context checks.
const cancelCheckInterval = 1000

// readRecords decodes gzipped JSON lines from src. Blank lines are skipped.
func readRecords(ctx context.Context, src io.Reader, name string) ([]Record, error) {
	gzipReader, err := gzip.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var records []Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, lineNo, err)
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading seed file %s: %w", name, err)
	}

	return records, nil
}
