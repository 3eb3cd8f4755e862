package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/tlmonitor/dashboard/internal/models"
)

// JobEventsChannel carries one message per job dispatch attempt.
const JobEventsChannel = "dashboard:jobs:submitted"

// Publisher sends job events over Redis pub/sub.
type Publisher struct {
	redis   *redis.Client
	channel string
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{redis: rdb, channel: JobEventsChannel}
}

func (p *Publisher) PublishJobEvent(ctx context.Context, event models.JobEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal job event: %w", err)
	}

	if err := p.redis.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish job event: %w", err)
	}
	return nil
}
