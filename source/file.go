package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FileSource reads instance documents from local JSON files. A file holds
// either one instance object or an array of them.
type FileSource struct {
	patterns []string
}

// NewFileSource creates a source over doublestar glob patterns.
func NewFileSource(patterns ...string) *FileSource {
	return &FileSource{patterns: patterns}
}

// Name implements Source.
func (s *FileSource) Name() string {
	return "files(" + strings.Join(s.patterns, ",") + ")"
}

// Fetch reads every matching file in resolved order.
func (s *FileSource) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	paths, err := ResolveFiles(s.patterns)
	if err != nil {
		return nil, err
	}

	var docs []json.RawMessage
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		got, err := readDocuments(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, got...)
	}
	return docs, nil
}

func readDocuments(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("parse %s: empty file", path)
	}
	if trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("parse %s: invalid JSON", path)
		}
		return []json.RawMessage{json.RawMessage(trimmed)}, nil
	}

	var docs []json.RawMessage
	if err := json.Unmarshal(trimmed, &docs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return docs, nil
}
