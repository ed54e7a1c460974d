package storage

import (
	"context"
	"fmt"

	"github.com/denisAlshanov/mediagrab/internal/config"
	"github.com/denisAlshanov/mediagrab/internal/utils"
)

// NewStorage returns nil when archiving is disabled.
func NewStorage(cfg *config.S3Config) (StorageInterface, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	utils.LogInfo(context.Background(), "Creating S3 archive storage", utils.Fields{
		"bucket":   cfg.BucketName,
		"endpoint": cfg.EndpointURL,
	})
	storage, err := NewS3Storage(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 storage: %w", err)
	}

	return storage, nil
}
