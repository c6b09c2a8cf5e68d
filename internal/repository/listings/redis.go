package listings

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/localpros/discovery/internal/domain"
	"github.com/localpros/discovery/internal/domain/listing"
)

// Redis reads listing snapshots from a single JSON key published by an
// external ingestion process. The engine never writes listings back.
type Redis struct {
	client rueidis.Client
	key    string
}

// RedisConfig holds connection parameters for a Redis listing source.
type RedisConfig struct {
	Addrs    []string
	Username string
	Password string
	Key      string
}

// NewRedis creates a Redis-backed listing source via rueidis.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("snapshot key is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Redis{client: client, key: cfg.Key}, nil
}

// NewRedisForTest wraps an existing (mock) client.
func NewRedisForTest(client rueidis.Client, key string) *Redis {
	return &Redis{client: client, key: key}
}

// Snapshot loads and decodes the published listing snapshot. A missing key
// is an empty snapshot, not an error: nothing has been published yet.
func (r *Redis) Snapshot(ctx context.Context) ([]listing.Listing, error) {
	cmd := r.client.B().Get().Key(r.key).Build()
	data, err := r.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get %s: %w", domain.ErrSourceUnavailable, r.key, err)
	}
	return DecodeSnapshot(data)
}

// Get returns a single listing from the current snapshot.
func (r *Redis) Get(ctx context.Context, id string) (listing.Listing, error) {
	items, err := r.Snapshot(ctx)
	if err != nil {
		return listing.Listing{}, err
	}
	for _, l := range items {
		if l.ID() == id {
			return l, nil
		}
	}
	return listing.Listing{}, domain.ErrListingNotFound
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	cmd := r.client.B().Ping().Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// WaitForReady polls Ping until the source responds or the timeout expires.
func (r *Redis) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for listing source: %w", ctx.Err())
		case <-ticker.C:
			if err := r.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Close shuts down the client.
func (r *Redis) Close() {
	r.client.Close()
}
