// Package output delivers a serialized ontology to its destination: stdout,
// a local file, an S3 object or a NATS JetStream object store.
//
// Destinations:
//
//	"-"                                standard output
//	s3://bucket/key                    S3 PutObject
//	nats://host:port/bucket/object     JetStream object store
//	anything else                      local file, replaced atomically
package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/nats-io/nats.go"
)

// Sink receives one serialized document.
type Sink interface {
	Write(ctx context.Context, data []byte, contentType string) error
	Close() error
	String() string
}

// S3Options configures the S3 client. Credentials fall back to the default
// AWS chain when AccessKeyID is empty.
type S3Options struct {
	Region          string
	Endpoint        string
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
	HTTPClient      *http.Client
}

// Options configures Open.
type Options struct {
	S3          S3Options
	NATSOptions []nats.Option
	Stdout      io.Writer
	Logger      *slog.Logger
}

// Open resolves a destination string to a Sink.
func Open(ctx context.Context, destination string, opts Options) (Sink, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	switch {
	case destination == "" || destination == "-":
		w := opts.Stdout
		if w == nil {
			w = os.Stdout
		}
		return &stdoutSink{w: w}, nil
	case strings.HasPrefix(destination, "s3://"):
		return openS3(ctx, destination, opts)
	case strings.HasPrefix(destination, "nats://"):
		return openNATS(ctx, destination, opts)
	default:
		return &fileSink{path: destination, logger: opts.Logger}, nil
	}
}

type stdoutSink struct {
	w io.Writer
}

func (s *stdoutSink) Write(_ context.Context, data []byte, _ string) error {
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("write stdout: %w", err)
	}
	return nil
}

func (s *stdoutSink) Close() error { return nil }

func (s *stdoutSink) String() string { return "stdout" }
