package ports

import (
	"context"
	"io"
)

// Telemetry records the stages of a packaging run.
type Telemetry interface {
	// Record starts a vertex named after a pipeline stage.
	Record(ctx context.Context, name string) (context.Context, Vertex)

	// Close flushes the recording session.
	Close() error
}

// Vertex is a single recorded stage.
type Vertex interface {
	Stdout() io.Writer
	Stderr() io.Writer

	// Complete marks the stage as finished. A nil err means it succeeded.
	Complete(err error)
}
