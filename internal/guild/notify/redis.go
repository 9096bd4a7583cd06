package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultStream is the Redis stream notifications are appended to.
const DefaultStream = "guild:notifications"

// RedisStreamSender appends each message to a Redis stream so external
// workers (mailers, chat bridges, CRM sync) can consume guild events.
type RedisStreamSender struct {
	client redis.Cmdable
	stream string
	maxLen int64
}

// NewRedisStreamSender writes to stream, trimming it to roughly maxLen
// entries. maxLen <= 0 disables trimming.
func NewRedisStreamSender(client redis.Cmdable, stream string, maxLen int64) *RedisStreamSender {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisStreamSender{client: client, stream: stream, maxLen: maxLen}
}

func (s *RedisStreamSender) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg.Payload)
	if err != nil {
		return fmt.Errorf("notify: encode payload: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"to":      msg.To,
			"kind":    string(msg.Kind),
			"payload": string(payload),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("notify: xadd %s: %w", s.stream, err)
	}
	return nil
}
