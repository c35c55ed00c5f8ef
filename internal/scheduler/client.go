package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"propertyai_backend/platform/config"
)

const (
	// assignmentRetryDelay is how long to wait before re-attempting vendor
	// assignment, giving the vendor pool time to change.
	assignmentRetryDelay = 5 * time.Minute
	assignmentMaxRetry   = 10
	reminderMaxRetry     = 3
)

// RedisOptFromConfig translates the configured Redis URL into asynq
// connection options.
func RedisOptFromConfig(cfg config.SchedulerConfig) (asynq.RedisClientOpt, error) {
	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("parse redis url: %w", err)
	}

	tlsConfig := opts.TLSConfig
	if tlsConfig != nil && cfg.GetRedisTLSInsecure() {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opts.Addr,
		Username:  opts.Username,
		Password:  opts.Password,
		DB:        opts.DB,
		TLSConfig: tlsConfig,
	}, nil
}

// Client enqueues background tasks onto the configured queue.
type Client struct {
	client *asynq.Client
	queue  string
}

// NewClient creates a task client from scheduler configuration.
func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := RedisOptFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		client: asynq.NewClient(opt),
		queue:  cfg.GetAsynqQueueName(),
	}, nil
}

// EnqueueAssignmentRetry schedules a delayed re-attempt of vendor assignment
// for an unassigned work order.
func (c *Client) EnqueueAssignmentRetry(ctx context.Context, workOrderID uuid.UUID) error {
	task, err := NewAssignmentRetryTask(workOrderID)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.ProcessIn(assignmentRetryDelay),
		asynq.MaxRetry(assignmentMaxRetry),
	)
	if err != nil {
		return fmt.Errorf("enqueue assignment retry: %w", err)
	}
	return nil
}

// EnqueueVisitReminder schedules a reminder to fire at the given time.
// Reminders already in the past are enqueued for immediate processing.
func (c *Client) EnqueueVisitReminder(ctx context.Context, eventID uuid.UUID, remindAt time.Time) error {
	task, err := NewVisitReminderTask(eventID)
	if err != nil {
		return err
	}
	opts := []asynq.Option{
		asynq.Queue(c.queue),
		asynq.MaxRetry(reminderMaxRetry),
	}
	if remindAt.After(time.Now()) {
		opts = append(opts, asynq.ProcessAt(remindAt))
	}
	_, err = c.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue visit reminder: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connections.
func (c *Client) Close() error {
	return c.client.Close()
}
