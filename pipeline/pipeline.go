// Package pipeline runs one conversion: fetch CEDAR instances, build the CCF
// ontology, serialize it and deliver it to a sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/cedar2ccf/export"
	"github.com/c360studio/cedar2ccf/metrics"
	"github.com/c360studio/cedar2ccf/ontology"
	"github.com/c360studio/cedar2ccf/output"
	"github.com/c360studio/cedar2ccf/source"
)

// Options configures a run. Source and Sink are required.
type Options struct {
	Source      source.Source
	Sink        output.Sink
	OntologyIRI string
	Format      export.Format
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

// Result summarizes a successful run.
type Result struct {
	RunID      string
	Documents  int
	Records    int
	Statements int
	Bytes      int
	Duration   time.Duration
}

// Run executes the pipeline. Any failure aborts the run before the sink is
// written.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Source == nil {
		return nil, errors.New("pipeline: source is required")
	}
	if opts.Sink == nil {
		return nil, errors.New("pipeline: sink is required")
	}
	info, ok := export.GetFormatInfo(opts.Format)
	if !ok {
		return nil, fmt.Errorf("pipeline: unsupported format: %s", opts.Format)
	}

	start := time.Now()
	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run_id", result.RunID)

	logger.Info("Fetching instances", "source", opts.Source.Name())
	docs, err := opts.Source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch instances: %w", err)
	}
	result.Documents = len(docs)

	records, err := ontology.ParseRecords(docs)
	if err != nil {
		return nil, fmt.Errorf("parse instances: %w", err)
	}
	result.Records = len(records)
	opts.Metrics.Records(len(records))
	logger.Debug("Parsed instances", "documents", len(docs), "records", len(records))

	ont, err := ontology.New(opts.OntologyIRI)
	if err != nil {
		return nil, err
	}
	if err := ont.Mutate(records); err != nil {
		return nil, fmt.Errorf("build ontology: %w", err)
	}
	result.Statements = ont.Graph().Len()

	data, err := export.Marshal(ont.Graph(), opts.Format)
	if err != nil {
		return nil, err
	}
	result.Bytes = len(data)

	if err := opts.Sink.Write(ctx, data, info.MIMEType); err != nil {
		return nil, fmt.Errorf("write %s: %w", opts.Sink, err)
	}
	opts.Metrics.Graph(result.Statements, result.Bytes)

	result.Duration = time.Since(start)
	logger.Info("Ontology written",
		"destination", opts.Sink.String(),
		"format", opts.Format,
		"records", result.Records,
		"statements", result.Statements,
		"bytes", result.Bytes,
		"duration", result.Duration)

	return result, nil
}
