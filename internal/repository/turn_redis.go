package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"turnserver/internal/domain/turn"
)

const RecentTurnsKey = "turns:recent"

// RedisTurnRecorder keeps the most recent turn summaries in a capped list,
// newest first.
type RedisTurnRecorder struct {
	client  redis.Cmdable
	key     string
	limit   int
	timeout time.Duration
}

func NewRedisTurnRecorder(client redis.Cmdable, limit int) *RedisTurnRecorder {
	return &RedisTurnRecorder{
		client:  client,
		key:     RecentTurnsKey,
		limit:   limit,
		timeout: 2 * time.Second,
	}
}

func (r *RedisTurnRecorder) RecordTurn(ctx context.Context, rec turn.Record) error {
	payload, err := json.Marshal(rec.Summary())
	if err != nil {
		return fmt.Errorf("marshal turn %s: %w", rec.ID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, r.key, payload)
	pipe.LTrim(ctx, r.key, 0, int64(r.limit-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store turn %s in redis: %w", rec.ID, err)
	}
	return nil
}

// Recent returns up to n stored summaries, newest first.
func (r *RedisTurnRecorder) Recent(ctx context.Context, n int) ([]json.RawMessage, error) {
	if n <= 0 || n > r.limit {
		n = r.limit
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	items, err := r.client.LRange(ctx, r.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("load recent turns: %w", err)
	}
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		out = append(out, json.RawMessage(item))
	}
	return out, nil
}
