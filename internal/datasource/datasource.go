// Package datasource defines the input side of the scrub pipeline: a batch
// is anything that can hand back a stream of raw CSV bytes together with a
// stable name to label its outputs with.
package datasource

import (
	"context"
	"io"
)

// Source is a single input batch.
type Source interface {
	// Name returns a stable identifier for the batch, safe to embed in
	// output table names and filenames.
	Name() string

	// Open returns the raw byte stream of the batch. The caller owns the
	// returned ReadCloser.
	Open(ctx context.Context) (io.ReadCloser, error)
}
