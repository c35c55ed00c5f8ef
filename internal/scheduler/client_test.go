package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

type stubConfig struct {
	redisURL string
}

func (c stubConfig) GetRedisURL() string       { return c.redisURL }
func (c stubConfig) GetRedisTLSInsecure() bool { return false }
func (c stubConfig) GetAsynqQueueName() string { return "default" }
func (c stubConfig) GetAsynqConcurrency() int  { return 1 }

func newTestClient(t *testing.T) *Client {
	t.Helper()

	srv := miniredis.RunT(t)
	client, err := NewClient(stubConfig{redisURL: "redis://" + srv.Addr()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestEnqueueAssignmentRetry(t *testing.T) {
	client := newTestClient(t)

	if err := client.EnqueueAssignmentRetry(context.Background(), uuid.New()); err != nil {
		t.Fatalf("EnqueueAssignmentRetry: %v", err)
	}
}

func TestEnqueueVisitReminder(t *testing.T) {
	client := newTestClient(t)

	// Future reminders are scheduled; past ones go straight to the queue.
	if err := client.EnqueueVisitReminder(context.Background(), uuid.New(), time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("future reminder: %v", err)
	}
	if err := client.EnqueueVisitReminder(context.Background(), uuid.New(), time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("past reminder: %v", err)
	}
}

func TestRedisOptFromConfigRejectsBadURL(t *testing.T) {
	if _, err := RedisOptFromConfig(stubConfig{redisURL: "not-a-url"}); err == nil {
		t.Fatal("expected an error for a malformed redis url")
	}
}

func TestTaskPayloadRoundTrip(t *testing.T) {
	workOrderID := uuid.New()
	task, err := NewAssignmentRetryTask(workOrderID)
	if err != nil {
		t.Fatalf("NewAssignmentRetryTask: %v", err)
	}
	payload, err := ParseAssignmentRetryPayload(task)
	if err != nil {
		t.Fatalf("ParseAssignmentRetryPayload: %v", err)
	}
	if payload.WorkOrderID != workOrderID {
		t.Fatalf("work order = %v, want %v", payload.WorkOrderID, workOrderID)
	}

	eventID := uuid.New()
	reminder, err := NewVisitReminderTask(eventID)
	if err != nil {
		t.Fatalf("NewVisitReminderTask: %v", err)
	}
	reminderPayload, err := ParseVisitReminderPayload(reminder)
	if err != nil {
		t.Fatalf("ParseVisitReminderPayload: %v", err)
	}
	if reminderPayload.EventID != eventID {
		t.Fatalf("event = %v, want %v", reminderPayload.EventID, eventID)
	}
}
