package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// connectProbeTimeout bounds the startup ping so a misaddressed Redis fails
// fast instead of hanging the boot sequence.
const connectProbeTimeout = 5 * time.Second

// NewClient connects to the idempotency store and verifies it answers before
// returning the client.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	probeCtx, cancel := context.WithTimeout(ctx, connectProbeTimeout)
	defer cancel()

	if err := client.Ping(probeCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
