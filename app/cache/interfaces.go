package cache

import (
	"context"
	"time"
)

// ResponseCache is the part of Cache the API and the update task use.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Purge(ctx context.Context) (int, error)
	GenerateResponseKey(requestURI string) string
	Health(ctx context.Context) map[string]any
}
