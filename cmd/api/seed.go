package main

import (
	"context"
	"encoding/json"
	"fmt"

	"coursemart/internal/catalog"
	"coursemart/internal/repository"

	"github.com/spf13/cobra"
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [files...]",
		Short: "Insert catalogue courses from seed files",
		Long: `Load gzipped JSON-lines seed files and insert every course whose title
is not yet in the catalogue. Without arguments the configured seed files are used.
When S3 is enabled each file is read from the bucket first and from local disk
if that fails.

Examples:
  coursemart seed
  coursemart seed data/catalog/courses.jsonl.gz`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files := args
			if len(files) == 0 {
				files = a.cfg.Seed.Files
			}
			if len(files) == 0 {
				return fmt.Errorf("no seed files given")
			}

			ctx := cmd.Context()

			pool, err := a.openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			loader, err := a.seedLoader(ctx)
			if err != nil {
				return err
			}

			seeder := catalog.NewSeeder(loader, repository.NewCourseRepository(pool, a.logger), a.logger)
			result, err := seeder.Seed(ctx, files)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return nil
		},
	}
}

// seedLoader reads from S3 with local fallback when S3 is enabled.
func (a *app) seedLoader(ctx context.Context) (catalog.Loader, error) {
	fileLoader := catalog.NewFileLoader(a.logger)
	if !a.cfg.S3.Enabled {
		a.logger.Info().Msg("using local file system for seed files (S3 disabled)")
		return fileLoader, nil
	}

	s3Loader, err := catalog.NewS3Loader(ctx, a.cfg.S3.Bucket, a.cfg.S3.Region, a.logger)
	if err != nil {
		a.logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader, nil
	}

	return catalog.NewFallbackLoader(s3Loader, fileLoader, a.cfg.S3.Prefix, a.logger), nil
}
