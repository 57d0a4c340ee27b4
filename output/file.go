package output

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

type fileSink struct {
	path   string
	logger *slog.Logger
}

// Write replaces the file atomically through a temp file in the same
// directory.
func (s *fileSink) Write(ctx context.Context, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	_ = tmp.Sync()
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("rename to %s: %w", s.path, err)
	}

	s.logger.Debug("Wrote ontology file", "path", s.path, "bytes", len(data))
	return nil
}

func (s *fileSink) Close() error { return nil }

func (s *fileSink) String() string { return s.path }
