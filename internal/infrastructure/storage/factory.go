package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	appmigration "github.com/morrillo/blo-migration/internal/application/migration"
	infraconfig "github.com/morrillo/blo-migration/internal/infrastructure/config"
)

// Storage providers
const (
	ProviderS3     = "s3"
	ProviderMemory = "memory"
)

// NewBlobStore creates the blob store selected by cfg.Provider
func NewBlobStore(ctx context.Context, cfg *infraconfig.StorageConfig, logger *zap.Logger) (appmigration.BlobStore, error) {
	switch cfg.Provider {
	case "", ProviderMemory:
		logger.Warn("Using in-memory attachment storage; content does not survive a restart")
		return NewMemoryObjectStorage(), nil
	case ProviderS3:
		s3Storage, err := NewS3ObjectStorage(ctx, cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("Using S3 attachment storage", zap.String("bucket", s3Storage.Bucket()))
		return s3Storage, nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}
