package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dvloznov/partner-warehouse/internal/config"
	"github.com/dvloznov/partner-warehouse/internal/export"
	"github.com/dvloznov/partner-warehouse/internal/gcsuploader"
	"github.com/dvloznov/partner-warehouse/internal/logger"
	"github.com/dvloznov/partner-warehouse/internal/pipeline"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: ingest FILE... (configuration from environment / .env)")
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.NewWithLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	// Create context with timeout so the run doesn't hang on remote sources
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	storage := gcsuploader.NewGCSStorageService(cfg.GCSCredentialsFile)
	session := pipeline.NewSession(cfg.Synonyms(),
		pipeline.WithFetcher(pipeline.NewStorageFetcher(storage)),
		pipeline.WithWorkers(cfg.Workers),
	)

	res, err := session.Run(ctx, pipeline.SourcesFromLocations(flag.Args()))
	if err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}

	runDir := filepath.Join(cfg.OutputDir, res.RunID)
	written, err := export.WriteDir(runDir, res, cfg.ExportXLSX)
	if err != nil {
		log.Fatal().Err(err).Msg("Writing exports failed")
	}

	if cfg.GCSBucket != "" {
		if _, err := export.Publish(ctx, storage, cfg.GCSBucket, cfg.GCSPrefix, res.RunID, written); err != nil {
			log.Fatal().Err(err).Msg("Publishing exports failed")
		}
	}

	log.Info().
		Str("dir", runDir).
		Int("ingested", res.Ingested()).
		Int("skipped", len(res.Warnings)).
		Int("failed", len(res.Errors)).
		Bool("valid", res.Report.Passed()).
		Msg("Ingestion completed")

	if res.Ingested() == 0 || !res.Report.Passed() {
		os.Exit(1)
	}
}
