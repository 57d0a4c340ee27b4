package source

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// InstanceFetcher lists and fetches the instances of a CEDAR template.
// *cedar.Client satisfies it.
type InstanceFetcher interface {
	GetInstances(ctx context.Context, templateID string, limit int) ([]json.RawMessage, error)
}

// TemplateSource fetches the instances of each template from CEDAR.
type TemplateSource struct {
	fetcher   InstanceFetcher
	templates []string
	limit     int
	logger    *slog.Logger
}

// TemplateOption configures a TemplateSource.
type TemplateOption func(*TemplateSource)

// WithLimit caps the number of instances fetched per template. Zero means
// no limit.
func WithLimit(n int) TemplateOption {
	return func(s *TemplateSource) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) TemplateOption {
	return func(s *TemplateSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewTemplateSource creates a source over the given template IDs.
func NewTemplateSource(fetcher InstanceFetcher, templates []string, opts ...TemplateOption) *TemplateSource {
	s := &TemplateSource{
		fetcher:   fetcher,
		templates: templates,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Source.
func (s *TemplateSource) Name() string {
	return fmt.Sprintf("cedar(%d templates)", len(s.templates))
}

// Fetch returns the instances of every template, templates in order.
func (s *TemplateSource) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	var docs []json.RawMessage
	for _, id := range s.templates {
		got, err := s.fetcher.GetInstances(ctx, id, s.limit)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", id, err)
		}
		s.logger.Debug("Fetched template instances", "template", id, "count", len(got))
		docs = append(docs, got...)
	}
	return docs, nil
}

// ReadTemplateIDs reads one template ID per line. Blank lines and lines
// starting with # are skipped.
func ReadTemplateIDs(r io.Reader) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read template ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, errors.New("no template ids")
	}
	return ids, nil
}
