package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const TaskTypePublishTarget = "publish:target"

// RetryDelay is the fixed pause between publish retries. Asynq applies it
// through FixedRetryDelay instead of its default exponential backoff.
const RetryDelay = 30 * time.Second

const MaxRetry = 3

func FixedRetryDelay(n int, e error, t *asynq.Task) time.Duration {
	return RetryDelay
}

type PublishTargetPayload struct {
	TargetID int64 `json:"target_id"`
}

// Client enqueues publish tasks. The dispatch job depends on this interface
// so tests can count enqueues without Redis.
type Client struct {
	client *asynq.Client
}

func NewClient(redisURI string) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisURI}),
	}
}

func (c *Client) EnqueuePublishTarget(ctx context.Context, targetID int64) error {
	payload, err := json.Marshal(PublishTargetPayload{TargetID: targetID})
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	task := asynq.NewTask(TaskTypePublishTarget, payload)
	info, err := c.client.EnqueueContext(ctx, task, asynq.MaxRetry(MaxRetry))
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	slog.Info("enqueued task", "id", info.ID, "queue", info.Queue, "target_id", targetID)
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
