package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pranav-027/delimited-files-excel-converter/internal/config"
	"github.com/pranav-027/delimited-files-excel-converter/internal/logging"
)

const (
	// objectPrefix namespaces converted artifacts inside the bucket.
	objectPrefix = "converted/"

	workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// minioStore implements Store on an S3-compatible backend (MinIO, AWS S3,
// etc.). It is safe for concurrent use by multiple goroutines. GetOnce
// claims the name in a process-local claim set before fetching, so two
// concurrent retrievals of the same artifact never both deliver; running
// multiple instances against one bucket needs a shared lock instead.
type minioStore struct {
	client *minio.Client
	bucket string
	claims *claimSet
}

// NewMinIO creates an artifact store backed by an S3-compatible object
// store. It validates connectivity and ensures the bucket exists (creates
// it if missing).
func NewMinIO(cfg config.MinIOConfig) (Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ms := &minioStore{client: cli, bucket: cfg.Bucket, claims: newClaimSet()}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure bucket exists.
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return ms, nil
}

func (m *minioStore) key(name string) string {
	return path.Join(objectPrefix, name)
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

func (m *minioStore) Put(ctx context.Context, name string, data []byte) error {
	_, err := m.client.PutObject(ctx, m.bucket, m.key(name), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: workbookContentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", name, err)
	}
	return nil
}

func (m *minioStore) fetch(ctx context.Context, name string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, m.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (m *minioStore) GetOnce(ctx context.Context, name string) (*Retrieval, error) {
	// Claim before fetching: a concurrent retrieval of the same name
	// observes ErrNotFound instead of a second delivery.
	if !m.claims.tryClaim(name) {
		return nil, ErrNotFound
	}

	data, err := m.fetch(ctx, name)
	if err != nil {
		m.claims.release(name)
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", name, err)
	}

	return &Retrieval{
		Name:    name,
		Size:    int64(len(data)),
		Content: data,
		commit: func(ctx context.Context) error {
			defer m.claims.release(name)
			// Retrieval already succeeded from the caller's perspective;
			// a failed cleanup is logged, never escalated.
			if err := m.client.RemoveObject(ctx, m.bucket, m.key(name), minio.RemoveObjectOptions{}); err != nil {
				logging.Event("warn", "artifact_cleanup_failed", map[string]any{
					"name":  name,
					"error": err.Error(),
				})
			}
			return nil
		},
		abort: func() {
			// The object was never removed; releasing the claim makes it
			// retrievable again.
			m.claims.release(name)
		},
	}, nil
}

func (m *minioStore) List(ctx context.Context) ([]string, error) {
	var names []string
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: objectPrefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		names = append(names, strings.TrimPrefix(obj.Key, objectPrefix))
	}
	return names, nil
}

func (m *minioStore) ArchiveAll(ctx context.Context) (*Archive, error) {
	names, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrEmpty
	}

	blobs, included, skipped := collectBlobs(ctx, names, func(ctx context.Context, name string) ([]byte, error) {
		data, err := m.fetch(ctx, name)
		if err != nil && isNoSuchKey(err) {
			// Retrieved by a concurrent request since the listing.
			return nil, ErrNotFound
		}
		return data, err
	})
	if len(blobs) == 0 {
		return nil, ErrEmpty
	}

	data, err := buildZip(blobs)
	if err != nil {
		return nil, err
	}

	return &Archive{
		Data:     data,
		Included: included,
		Skipped:  skipped,
		commit: func(ctx context.Context) error {
			for _, name := range included {
				if err := m.client.RemoveObject(ctx, m.bucket, m.key(name), minio.RemoveObjectOptions{}); err != nil {
					logging.Event("warn", "artifact_cleanup_failed", map[string]any{
						"name":  name,
						"error": err.Error(),
					})
				}
			}
			return nil
		},
	}, nil
}

// DeleteAll removes every artifact, best effort: per-item failures are
// logged and the batch continues.
func (m *minioStore) DeleteAll(ctx context.Context) error {
	names, err := m.List(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logging.Event("warn", "artifact_purge_list_failed", map[string]any{"error": err.Error()})
		}
		return nil
	}
	for _, name := range names {
		if err := m.client.RemoveObject(ctx, m.bucket, m.key(name), minio.RemoveObjectOptions{}); err != nil {
			logging.Event("warn", "artifact_purge_failed", map[string]any{
				"name":  name,
				"error": err.Error(),
			})
		}
	}
	return nil
}

func (m *minioStore) Close() error { return nil }
