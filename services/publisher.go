package services

import (
	"context"
	"encoding/json"

	"github.com/Aditya0Kumar/trackr-sub000/config"
	"github.com/Aditya0Kumar/trackr-sub000/models"

	"github.com/go-redis/redis/v8"
)

// ActivityPublisher hands committed activity to the chat/notification layer. It runs after the
// task write has committed and never affects the outcome of the mutation.
type ActivityPublisher interface {
	Publish(ctx context.Context, entries []models.ActivityEntry)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, []models.ActivityEntry) {}

// NopPublisher drops every entry
func NopPublisher() ActivityPublisher {
	return nopPublisher{}
}

// notifiable lists the actions the notification layer subscribes to
func notifiable(action models.ActivityAction) bool {
	return action == models.ActionAssignedUser || action == models.ActionChangedStatus
}

// RedisActivityPublisher publishes notifiable entries as JSON on a Redis pub/sub channel.
type RedisActivityPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisActivityPublisher(client *redis.Client, channel string) *RedisActivityPublisher {
	return &RedisActivityPublisher{client: client, channel: channel}
}

func (p *RedisActivityPublisher) Publish(ctx context.Context, entries []models.ActivityEntry) {
	for _, e := range entries {
		if !notifiable(e.Action) {
			continue
		}
		payload, err := json.Marshal(e)
		if err != nil {
			config.Logger.Errorw("encode activity entry failed", "error", err, "taskID", e.TaskID)
			continue
		}
		if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
			config.Logger.Warnw("publish activity entry failed",
				"error", err,
				"taskID", e.TaskID,
				"action", e.Action,
				"channel", p.channel,
			)
		}
	}
}
