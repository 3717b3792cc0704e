package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type sampleCourse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Available   *bool  `json:"available,omitempty"`
}

// generateSampleCatalog writes the default seed file used by `coursemart seed`.
// Run from the repository root: go run ./scripts/gencatalog
func main() {
	dataDir := "data/catalog"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	hidden := false
	courses := []sampleCourse{
		{Title: "Go Fundamentals", Description: "Types, interfaces, goroutines and the standard library.", Category: "Programming", Price: "49.99"},
		{Title: "Building REST APIs in Go", Description: "Routing, middleware, JSON and testing HTTP services.", Category: "Programming", Price: "59.00"},
		{Title: "PostgreSQL for Developers", Description: "Schema design, indexes, transactions and query plans.", Category: "Data", Price: "39.50"},
		{Title: "SQL Basics", Description: "SELECT, JOIN and GROUP BY from the ground up.", Category: "Data", Price: "19.99"},
		{Title: "Docker Deep Dive", Description: "Images, containers, networks and compose files.", Category: "DevOps", Price: "29.00"},
		{Title: "Kubernetes in Practice", Description: "Deployments, services and day-two operations.", Category: "DevOps", Price: "69.00"},
		{Title: "Intro to Machine Learning", Description: "Regression, classification and model evaluation.", Category: "Data Science", Price: "79.99"},
		{Title: "UX Design Principles", Description: "Research, wireframes and usability testing.", Category: "Design", Price: "24.00"},
		{Title: "Free Git Crash Course", Description: "Commits, branches and pull requests in one hour.", Category: "Programming", Price: "0.00"},
		{Title: "Rust for Go Developers", Description: "Ownership and borrowing explained through Go idioms.", Category: "Programming", Price: "54.00", Available: &hidden},
	}

	filePath := filepath.Join(dataDir, "courses.jsonl.gz")
	if err := createSeedFile(filePath, courses); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d courses\n", filePath, len(courses))
}

func createSeedFile(filePath string, courses []sampleCourse) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := json.NewEncoder(gzipWriter)
	for _, course := range courses {
		if err := encoder.Encode(course); err != nil {
			return fmt.Errorf("failed to write course: %w", err)
		}
	}

	return nil
}
