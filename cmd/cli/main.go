package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/partner-warehouse/internal/config"
	"github.com/dvloznov/partner-warehouse/internal/csvio"
	"github.com/dvloznov/partner-warehouse/internal/export"
	"github.com/dvloznov/partner-warehouse/internal/gcsuploader"
	"github.com/dvloznov/partner-warehouse/internal/logger"
	"github.com/dvloznov/partner-warehouse/internal/pipeline"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	switch os.Args[1] {
	case "ingest":
		runIngest(log, cfg)
	case "mapping":
		runMapping(log, cfg)
	case "publish":
		runPublish(log, cfg)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Partner Warehouse CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  ingest    Build Bronze (and Silver when valid) from CSV files or gs:// URIs")
	fmt.Println("  mapping   Show which columns each file maps to, without ingesting")
	fmt.Println("  publish   Upload an export directory to GCS")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nColumn synonyms come from WAREHOUSE_DATE_COLUMNS, WAREHOUSE_PARTNER_COLUMNS,")
	fmt.Println("WAREHOUSE_AMOUNT_COLUMNS or WAREHOUSE_MAPPING_FILE.")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runIngest(log zerolog.Logger, cfg *config.Config) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	outDir := fs.String("out", cfg.OutputDir, "Directory for bronze.csv, silver.csv and report.txt")
	withXLSX := fs.Bool("xlsx", cfg.ExportXLSX, "Also write warehouse.xlsx")
	publish := fs.Bool("publish", false, "Upload the exports to GCS_BUCKET")
	workers := fs.Int("workers", cfg.Workers, "Files processed concurrently")
	fs.Parse(os.Args[2:])

	if fs.NArg() == 0 {
		log.Fatal().Msg("Usage: cli ingest [-out DIR] [-xlsx] [-publish] FILE...")
	}
	if *publish && cfg.GCSBucket == "" {
		log.Fatal().Msg("Error: -publish requires GCS_BUCKET")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	storage := gcsuploader.NewGCSStorageService(cfg.GCSCredentialsFile)
	session := pipeline.NewSession(cfg.Synonyms(),
		pipeline.WithFetcher(pipeline.NewStorageFetcher(storage)),
		pipeline.WithWorkers(*workers),
	)

	res, err := session.Run(ctx, pipeline.SourcesFromLocations(fs.Args()))
	if err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}

	runDir := filepath.Join(*outDir, res.RunID)
	written, err := export.WriteDir(runDir, res, *withXLSX)
	if err != nil {
		log.Fatal().Err(err).Msg("Writing exports failed")
	}

	if err := export.WriteReport(os.Stdout, res); err != nil {
		log.Error().Err(err).Msg("Printing report failed")
	}

	if *publish {
		uris, err := export.Publish(ctx, storage, cfg.GCSBucket, cfg.GCSPrefix, res.RunID, written)
		if err != nil {
			log.Fatal().Err(err).Msg("Publishing exports failed")
		}
		for _, uri := range uris {
			fmt.Printf("Published %s\n", uri)
		}
	}

	fmt.Printf("\nExports written to %s\n", runDir)

	if res.Ingested() == 0 || !res.Report.Passed() {
		os.Exit(1)
	}
}

func runMapping(log zerolog.Logger, cfg *config.Config) {
	fs := flag.NewFlagSet("mapping", flag.ExitOnError)
	fs.Parse(os.Args[2:])

	if fs.NArg() == 0 {
		log.Fatal().Msg("Usage: cli mapping FILE...")
	}

	ctx := logger.WithContext(context.Background(), log)
	fetcher := pipeline.NewStorageFetcher(gcsuploader.NewGCSStorageService(cfg.GCSCredentialsFile))
	synonyms := cfg.Synonyms()

	for _, src := range pipeline.SourcesFromLocations(fs.Args()) {
		data, err := fetcher.Fetch(ctx, src.Location)
		if err != nil {
			log.Error().Err(err).Str("source", src.Location).Msg("Failed to read file")
			continue
		}
		f, err := csvio.ReadFile(data)
		if err != nil {
			log.Error().Err(err).Str("source", src.Location).Msg("Failed to parse file")
			continue
		}

		mapping := pipeline.BuildMapping(f.Table.Columns, synonyms)

		fmt.Printf("\n=== %s ===\n", src.Name)
		fmt.Printf("Encoding:  %s\n", f.Encoding)
		fmt.Printf("Delimiter: %q\n", f.Delimiter)
		fmt.Printf("Columns:   %v\n", f.Table.Columns)
		fmt.Printf("Rows:      %d\n", len(f.Table.Rows))
		if len(mapping) == 0 {
			fmt.Println("Mapping:   none (file would be skipped)")
			continue
		}
		fmt.Printf("Mapping:   %s\n", mapping)
	}
}

func runPublish(log zerolog.Logger, cfg *config.Config) {
	fs := flag.NewFlagSet("publish", flag.ExitOnError)
	dir := fs.String("dir", "", "Export directory to upload (required)")
	runID := fs.String("run-id", "", "Object folder name (defaults to the directory name)")
	fs.Parse(os.Args[2:])

	if *dir == "" {
		log.Fatal().Msg("Usage: cli publish -dir DIR [-run-id ID]")
	}
	if cfg.GCSBucket == "" {
		log.Fatal().Msg("Error: GCS_BUCKET is required")
	}
	if *runID == "" {
		*runID = filepath.Base(filepath.Clean(*dir))
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read export directory")
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() {
			paths = append(paths, filepath.Join(*dir, e.Name()))
		}
	}
	sort.Strings(paths)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("bucket", cfg.GCSBucket).
		Str("prefix", cfg.GCSPrefix).
		Str("run_id", *runID).
		Int("files", len(paths)).
		Msg("Uploading exports to GCS")

	storage := gcsuploader.NewGCSStorageService(cfg.GCSCredentialsFile)
	uris, err := export.Publish(ctx, storage, cfg.GCSBucket, cfg.GCSPrefix, *runID, paths)
	if err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	for _, uri := range uris {
		fmt.Printf("Uploaded %s\n", uri)
	}
}
