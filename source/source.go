// Package source produces CEDAR template instance documents for the
// pipeline, either from the CEDAR API or from local JSON files.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Source yields raw instance documents in a stable order.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]json.RawMessage, error)
}

// Multi concatenates the documents of several sources, in order.
type Multi []Source

// Name joins the names of the underlying sources.
func (m Multi) Name() string {
	names := make([]string, len(m))
	for i, s := range m {
		names[i] = s.Name()
	}
	return strings.Join(names, "+")
}

// Fetch fetches every source in turn. The first failure aborts.
func (m Multi) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	var docs []json.RawMessage
	for _, s := range m {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		got, err := s.Fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", s.Name(), err)
		}
		docs = append(docs, got...)
	}
	return docs, nil
}
