package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/partner-warehouse/internal/domain"
	"github.com/dvloznov/partner-warehouse/internal/logger"
)

// DefaultWorkers is the number of files processed concurrently by default.
const DefaultWorkers = 4

// Source is one input file of an ingestion session.
type Source struct {
	Name     string // identifier stamped into source_file
	Location string // path or gs:// URI, read when Data is nil
	Data     []byte
}

// FileStatus is the outcome of one input file.
type FileStatus string

const (
	// FileStatusIngested means the file contributed rows to Bronze.
	FileStatusIngested FileStatus = "ingested"
	// FileStatusSkipped means no configured column matched the file header.
	FileStatusSkipped FileStatus = "skipped"
	// FileStatusFailed means the file could not be read or processed.
	FileStatusFailed FileStatus = "failed"
)

// FileOutcome describes what happened to one input file.
type FileOutcome struct {
	Source    string
	Status    FileStatus
	Encoding  string
	Delimiter rune
	Mapping   Mapping
	Rows      int
	Err       error
}

// FileIssue is a per-file warning or error reported back to the caller.
type FileIssue struct {
	Source  string
	Message string
}

// Result is the output of one ingestion session.
type Result struct {
	RunID     string
	StartedAt time.Time

	Files    []FileOutcome
	Warnings []FileIssue // skipped files
	Errors   []FileIssue // failed files

	Bronze  domain.Table
	Report  ValidationReport
	Silver  *domain.SilverTable // nil unless Bronze is non-empty and Report passed
	Summary Summary
}

// Ingested returns the number of files that contributed rows.
func (r *Result) Ingested() int {
	n := 0
	for _, f := range r.Files {
		if f.Status == FileStatusIngested {
			n++
		}
	}
	return n
}

// Session runs the raw → Bronze → validation → Silver flow over a set of files.
type Session struct {
	synonyms Synonyms
	fetcher  SourceFetcher
	workers  int
	now      func() time.Time
	log      *zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithFetcher sets how sources given by location are loaded.
func WithFetcher(f SourceFetcher) Option {
	return func(s *Session) { s.fetcher = f }
}

// WithWorkers sets how many files are processed concurrently.
func WithWorkers(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithClock sets the time source used for ingestion timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the logger; by default the context logger is used.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = &log }
}

// NewSession creates a session resolving columns with the given synonyms.
func NewSession(synonyms Synonyms, opts ...Option) *Session {
	s := &Session{
		synonyms: synonyms,
		fetcher:  LocalFetcher{},
		workers:  DefaultWorkers,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes every source independently, concatenates the successful ones
// into Bronze in input order, validates it and, when clean, derives Silver.
// A failing file never aborts the others; only context cancellation returns
// an error.
func (s *Session) Run(ctx context.Context, sources []Source) (*Result, error) {
	log := logger.FromContext(ctx)
	if s.log != nil {
		log = *s.log
	}

	res := &Result{
		RunID:     uuid.NewString(),
		StartedAt: s.now().UTC(),
		Files:     make([]FileOutcome, len(sources)),
	}
	log = log.With().Str("run_id", res.RunID).Logger()
	log.Info().Int("files", len(sources)).Msg("Starting ingestion session")

	tables := make([]*domain.Table, len(sources))
	fp := NewFileIngestionPipeline(s.fetcher, s.synonyms, s.now)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			state := &FileState{Source: src.Name, Location: src.Location, Data: src.Data}
			err := fp.Execute(gctx, state)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}

			outcome := FileOutcome{
				Source:    src.Name,
				Encoding:  state.Encoding,
				Delimiter: state.Delimiter,
				Mapping:   state.Mapping,
			}
			switch {
			case err == nil:
				outcome.Status = FileStatusIngested
				outcome.Rows = state.Tagged.Len()
				tables[i] = &state.Tagged
				log.Info().
					Str("source", src.Name).
					Str("encoding", state.Encoding).
					Str("mapping", state.Mapping.String()).
					Int("rows", outcome.Rows).
					Msg("File ingested")
			case errors.Is(err, ErrNoColumnsMatched):
				outcome.Status = FileStatusSkipped
				outcome.Err = err
				log.Warn().Str("source", src.Name).Msg("No column matches the configured mappings, skipping file")
			default:
				outcome.Status = FileStatusFailed
				outcome.Err = err
				log.Error().Err(err).Str("source", src.Name).Msg("File processing failed")
			}
			res.Files[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}

	var tagged []domain.Table
	for i, f := range res.Files {
		switch f.Status {
		case FileStatusIngested:
			tagged = append(tagged, *tables[i])
		case FileStatusSkipped:
			res.Warnings = append(res.Warnings, FileIssue{Source: f.Source, Message: f.Err.Error()})
		case FileStatusFailed:
			res.Errors = append(res.Errors, FileIssue{Source: f.Source, Message: f.Err.Error()})
		}
	}

	res.Bronze = ConcatBronze(tagged...)
	res.Summary = Summarize(res.Bronze)

	if res.Bronze.Empty() {
		log.Info().Msg("Bronze is empty, nothing to validate")
		return res, nil
	}

	res.Report = BasicChecks(res.Bronze.Select(domain.CanonicalColumns...))
	if !res.Report.Passed() {
		log.Warn().Strs("problems", res.Report).Msg("Validation failed, Silver not derived")
		return res, nil
	}

	silver, err := ToSilver(res.Bronze.Select(domain.CanonicalColumns...))
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	res.Silver = &silver

	log.Info().
		Int("bronze_rows", res.Bronze.Len()).
		Int("silver_rows", silver.Len()).
		Msg("Ingestion session completed")

	return res, nil
}
