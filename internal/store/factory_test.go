package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranav-027/delimited-files-excel-converter/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("defaults to memory", func(t *testing.T) {
		s, err := New(config.StorageConfig{})
		require.NoError(t, err)
		assert.NotNil(t, s)
		assert.NoError(t, s.Close())
	})

	t.Run("memory backend", func(t *testing.T) {
		s, err := New(config.StorageConfig{Backend: "memory"})
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("rejects unknown backend", func(t *testing.T) {
		_, err := New(config.StorageConfig{Backend: "redis"})
		assert.Error(t, err)
	})

	t.Run("minio backend requires endpoint", func(t *testing.T) {
		_, err := New(config.StorageConfig{Backend: "minio"})
		assert.Error(t, err)
	})
}
