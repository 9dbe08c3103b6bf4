package store

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pranav-027/delimited-files-excel-converter/internal/logging"
)

// Package store manages the transient converted artifacts: named immutable
// byte blobs created by the conversion service and destroyed on retrieval,
// archival, or explicit purge. A Store instance is the only shared state in
// the system; there is no database or on-disk index.

var (
	// ErrNotFound means the named artifact does not exist (or was already
	// claimed by a concurrent retrieval).
	ErrNotFound = errors.New("artifact not found")
	// ErrEmpty means the store holds no artifacts; archiving an empty store
	// is a no-op failure rather than a degenerate success.
	ErrEmpty = errors.New("no artifacts stored")
)

// Retrieval is a claimed artifact pending delivery. The claim removes the
// artifact from visibility, so concurrent retrievals of the same name see
// ErrNotFound. Exactly one of Commit or Abort must be called when the
// transfer attempt finishes: Commit finalizes the deletion after a
// successful transfer, Abort restores the artifact so a retry can succeed.
type Retrieval struct {
	Name    string
	Size    int64
	Content []byte

	commit func(ctx context.Context) error
	abort  func()
}

// Commit finalizes the retrieval after a successful transfer. Cleanup
// failures are logged by the backend, not escalated.
func (r *Retrieval) Commit(ctx context.Context) error {
	if r.commit == nil {
		return nil
	}
	return r.commit(ctx)
}

// Abort restores the artifact after an interrupted transfer.
func (r *Retrieval) Abort() {
	if r.abort != nil {
		r.abort()
	}
}

// Archive is a finalized zip of the artifacts present when ArchiveAll
// snapshotted the store. Included lists the artifacts in the zip; Skipped
// lists names that vanished between the snapshot and inclusion (a benign
// race with concurrent retrievals, not an error). Commit deletes exactly
// the included artifacts once the archive has been handed off.
type Archive struct {
	Data     []byte
	Included []string
	Skipped  []string

	commit func(ctx context.Context) error
}

// Commit deletes the archived artifacts. Per-item failures are logged by
// the backend, not escalated.
func (a *Archive) Commit(ctx context.Context) error {
	if a.commit == nil {
		return nil
	}
	return a.commit(ctx)
}

// Store is the artifact store contract. Implementations must be safe for
// concurrent use: puts to distinct names never interfere, GetOnce claims
// are atomic, and ArchiveAll operates on a snapshot of the name set.
type Store interface {
	// Put stores data under name, overwriting any existing artifact.
	Put(ctx context.Context, name string, data []byte) error
	// GetOnce claims the named artifact for at-most-once delivery.
	GetOnce(ctx context.Context, name string) (*Retrieval, error)
	// List returns the current artifact names; empty is a valid state.
	List(ctx context.Context) ([]string, error)
	// ArchiveAll zips every current artifact; ErrEmpty if none exist.
	ArchiveAll(ctx context.Context) (*Archive, error)
	// DeleteAll removes every artifact, best effort; it never fails.
	DeleteAll(ctx context.Context) error
	// Close tears the store down.
	Close() error
}

type namedBlob struct {
	name string
	data []byte
}

// buildZip assembles the blobs into a single zip stream using maximum
// deflate compression, each entry under its stored name.
func buildZip(blobs []namedBlob) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, b := range blobs {
		w, err := zw.Create(b.name)
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("create zip entry %s: %w", b.name, err)
		}
		if _, err := w.Write(b.data); err != nil {
			zw.Close()
			return nil, fmt.Errorf("write zip entry %s: %w", b.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize zip: %w", err)
	}
	return buf.Bytes(), nil
}

// collectBlobs reads each named artifact through fetch, accumulating the
// inputs for a bulk archive. Missing artifacts (ErrNotFound, a benign race
// with concurrent retrievals) are skipped silently; unreadable ones are
// skipped with a logged warning. The archive completes with whatever could
// be read.
func collectBlobs(ctx context.Context, names []string, fetch func(context.Context, string) ([]byte, error)) (blobs []namedBlob, included, skipped []string) {
	for _, name := range names {
		data, err := fetch(ctx, name)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				logging.Event("warn", "artifact_archive_read_failed", map[string]any{
					"name":  name,
					"error": err.Error(),
				})
			}
			skipped = append(skipped, name)
			continue
		}
		blobs = append(blobs, namedBlob{name: name, data: data})
		included = append(included, name)
	}
	return blobs, included, skipped
}
