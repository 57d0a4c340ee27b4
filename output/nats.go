package output

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

type natsSink struct {
	conn   *nats.Conn
	store  jetstream.ObjectStore
	bucket string
	object string
	server string
	logger *slog.Logger
}

// openNATS connects to the server named by a nats://host:port/bucket/object
// destination and creates the object store bucket if needed.
func openNATS(ctx context.Context, destination string, opts Options) (*natsSink, error) {
	u, err := url.Parse(destination)
	if err != nil {
		return nil, fmt.Errorf("parse nats destination: %w", err)
	}
	bucket, object, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if u.Host == "" || bucket == "" || object == "" {
		return nil, fmt.Errorf("nats destination must be nats://host:port/bucket/object: %s", destination)
	}

	server := (&url.URL{Scheme: u.Scheme, User: u.User, Host: u.Host}).String()
	conn, err := nats.Connect(server, opts.NATSOptions...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	store, err := js.CreateOrUpdateObjectStore(ctx, jetstream.ObjectStoreConfig{
		Bucket:      bucket,
		Description: "CCF ontology exports",
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("object store %s: %w", bucket, err)
	}

	return &natsSink{
		conn:   conn,
		store:  store,
		bucket: bucket,
		object: object,
		server: u.Host,
		logger: opts.Logger,
	}, nil
}

func (s *natsSink) Write(ctx context.Context, data []byte, contentType string) error {
	meta := jetstream.ObjectMeta{Name: s.object}
	if contentType != "" {
		meta.Headers = nats.Header{"Content-Type": []string{contentType}}
	}
	info, err := s.store.Put(ctx, meta, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("put %s: %w", s, err)
	}

	s.logger.Debug("Stored ontology object",
		"bucket", s.bucket, "object", s.object, "size", info.Size, "chunks", info.Chunks)
	return nil
}

func (s *natsSink) Close() error {
	return s.conn.Drain()
}

func (s *natsSink) String() string {
	return "nats://" + s.server + "/" + s.bucket + "/" + s.object
}
