package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/dvloznov/partner-warehouse/internal/csvio"
	"github.com/dvloznov/partner-warehouse/internal/domain"
)

// Step represents a single stage of per-file ingestion.
type Step interface {
	Name() string
	Execute(ctx context.Context, state *FileState) error
}

// FileState holds everything known about one input file as it moves through the steps.
type FileState struct {
	Source   string // identifier stamped into source_file
	Location string // path or gs:// URI; unused when Data is preset
	Data     []byte

	Encoding  string
	Delimiter rune
	Raw       domain.RawTable

	Mapping    Mapping
	Normalized domain.Table
	Tagged     domain.Table
}

// FetchSourceStep loads the file bytes unless they were supplied directly.
type FetchSourceStep struct {
	Fetcher SourceFetcher
}

func (s *FetchSourceStep) Name() string { return "fetch" }

func (s *FetchSourceStep) Execute(ctx context.Context, state *FileState) error {
	if state.Data != nil {
		return nil
	}
	if s.Fetcher == nil || state.Location == "" {
		return errors.New("no data and no location to fetch from")
	}
	data, err := s.Fetcher.Fetch(ctx, state.Location)
	if err != nil {
		return err
	}
	state.Data = data
	return nil
}

// ReadCSVStep decodes the bytes and parses the CSV into a raw table.
type ReadCSVStep struct{}

func (s *ReadCSVStep) Name() string { return "read" }

func (s *ReadCSVStep) Execute(ctx context.Context, state *FileState) error {
	f, err := csvio.ReadFile(state.Data)
	if err != nil {
		return err
	}
	state.Encoding = f.Encoding
	state.Delimiter = f.Delimiter
	state.Raw = f.Table
	return nil
}

// ResolveMappingStep matches the configured synonyms against the file header.
type ResolveMappingStep struct {
	Synonyms Synonyms
}

func (s *ResolveMappingStep) Name() string { return "mapping" }

func (s *ResolveMappingStep) Execute(ctx context.Context, state *FileState) error {
	mapping := BuildMapping(state.Raw.Columns, s.Synonyms)
	if len(mapping) == 0 {
		return ErrNoColumnsMatched
	}
	state.Mapping = mapping
	return nil
}

// NormalizeStep projects the raw table onto the canonical schema.
type NormalizeStep struct{}

func (s *NormalizeStep) Name() string { return "normalize" }

func (s *NormalizeStep) Execute(ctx context.Context, state *FileState) error {
	t, err := NormalizeColumns(state.Raw, state.Mapping)
	if err != nil {
		return err
	}
	state.Normalized = t
	return nil
}

// TagLineageStep stamps the normalized table with its source and ingestion time.
type TagLineageStep struct {
	Now func() time.Time
}

func (s *TagLineageStep) Name() string { return "lineage" }

func (s *TagLineageStep) Execute(ctx context.Context, state *FileState) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	state.Tagged = TagLineageAt(state.Normalized, state.Source, now())
	return nil
}

// FilePipeline executes a sequence of steps in order.
type FilePipeline struct {
	steps []Step
}

// NewFilePipeline creates a new pipeline with the given steps.
func NewFilePipeline(steps ...Step) *FilePipeline {
	return &FilePipeline{steps: steps}
}

// Execute runs all steps sequentially. The first failure stops the file and
// is returned as a *FileError naming the failed step.
func (p *FilePipeline) Execute(ctx context.Context, state *FileState) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.Execute(ctx, state); err != nil {
			return &FileError{Source: state.Source, Stage: step.Name(), Err: err}
		}
	}
	return nil
}

// NewFileIngestionPipeline creates the standard fetch → read → mapping →
// normalize → lineage chain.
func NewFileIngestionPipeline(fetcher SourceFetcher, synonyms Synonyms, now func() time.Time) *FilePipeline {
	return NewFilePipeline(
		&FetchSourceStep{Fetcher: fetcher},
		&ReadCSVStep{},
		&ResolveMappingStep{Synonyms: synonyms},
		&NormalizeStep{},
		&TagLineageStep{Now: now},
	)
}
