package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectBlobs_SkipsMissingArtifacts(t *testing.T) {
	contents := map[string][]byte{
		"a.xlsx": []byte("aaa"),
		"c.xlsx": []byte("ccc"),
	}
	fetch := func(_ context.Context, name string) ([]byte, error) {
		data, ok := contents[name]
		if !ok {
			return nil, ErrNotFound
		}
		return data, nil
	}

	blobs, included, skipped := collectBlobs(context.Background(), []string{"a.xlsx", "b.xlsx", "c.xlsx"}, fetch)

	assert.Equal(t, []string{"a.xlsx", "c.xlsx"}, included)
	assert.Equal(t, []string{"b.xlsx"}, skipped)
	require.Len(t, blobs, 2)
	assert.Equal(t, []byte("aaa"), blobs[0].data)
	assert.Equal(t, []byte("ccc"), blobs[1].data)
}

func TestCollectBlobs_UnreadableArtifactDoesNotAbortBatch(t *testing.T) {
	fetch := func(_ context.Context, name string) ([]byte, error) {
		if name == "broken.xlsx" {
			return nil, errors.New("connection reset")
		}
		return []byte(name), nil
	}

	blobs, included, skipped := collectBlobs(context.Background(), []string{"a.xlsx", "broken.xlsx", "b.xlsx"}, fetch)

	// A transient read failure is skipped like a vanished artifact; the
	// archive still completes with everything readable.
	assert.Equal(t, []string{"a.xlsx", "b.xlsx"}, included)
	assert.Equal(t, []string{"broken.xlsx"}, skipped)
	assert.Len(t, blobs, 2)
}

func TestCollectBlobs_NothingReadable(t *testing.T) {
	fetch := func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("connection reset")
	}

	blobs, included, skipped := collectBlobs(context.Background(), []string{"a.xlsx", "b.xlsx"}, fetch)

	assert.Empty(t, blobs)
	assert.Empty(t, included)
	assert.Equal(t, []string{"a.xlsx", "b.xlsx"}, skipped)
}
