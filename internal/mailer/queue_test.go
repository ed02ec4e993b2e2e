package mailer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestQueueEnqueueFull(t *testing.T) {
	q := NewQueue(New(nil), time.Hour, 1, 0)

	if err := q.Enqueue(Message{To: []string{"a@example.org"}}); err != nil {
		t.Fatalf("first enqueue failed: %v", err)
	}
	if err := q.Enqueue(Message{To: []string{"b@example.org"}}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if q.Pending() != 1 {
		t.Errorf("expected 1 pending message, got %d", q.Pending())
	}
}

func TestQueueDrainsOnShutdown(t *testing.T) {
	m := New(nil)
	var mu sync.Mutex
	var sent []string
	m.sendFn = func(msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		sent = append(sent, msg.To[0])
		return nil
	}

	q := NewQueue(m, time.Hour, 4, 0)
	for _, to := range []string{"a@example.org", "b@example.org"} {
		if err := q.Enqueue(Message{To: []string{to}}); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	q.Start(ctx)

	mu.Lock()
	defer mu.Unlock()
	if len(sent) != 2 {
		t.Errorf("expected 2 messages drained, got %d", len(sent))
	}
}

func TestQueueRetriesFailedSend(t *testing.T) {
	m := New(nil)
	var mu sync.Mutex
	attempts := 0
	done := make(chan struct{})
	m.sendFn = func(msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts == 1 {
			return errors.New("smtp unavailable")
		}
		close(done)
		return nil
	}

	q := NewQueue(m, 5*time.Millisecond, 4, 2)
	q.backoff = time.Millisecond
	if err := q.Enqueue(Message{To: []string{"a@example.org"}}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Start(ctx)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("message was not retried")
	}
}

func TestQueueSendNowBypassesQueue(t *testing.T) {
	m := New(nil)
	captured := captureSend(t, m)
	q := NewQueue(m, time.Hour, 1, 0)

	if err := q.SendNow(context.Background(), Message{To: []string{"hr@example.org"}}); err != nil {
		t.Fatalf("SendNow failed: %v", err)
	}
	if len(*captured) != 1 || q.Pending() != 0 {
		t.Errorf("expected direct delivery, captured=%d pending=%d", len(*captured), q.Pending())
	}
}

func TestQueueShutdownDeliversPendingRetry(t *testing.T) {
	m := New(nil)
	var mu sync.Mutex
	attempts := 0
	var delivered []string
	failed := make(chan struct{})
	m.sendFn = func(msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts == 1 {
			close(failed)
			return errors.New("smtp unavailable")
		}
		delivered = append(delivered, msg.To[0])
		return nil
	}

	q := NewQueue(m, time.Millisecond, 4, 3)
	q.backoff = time.Hour
	if err := q.Enqueue(Message{To: []string{"a@example.org"}}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		q.Start(ctx)
		close(stopped)
	}()

	select {
	case <-failed:
	case <-time.After(2 * time.Second):
		t.Fatal("first send was never attempted")
	}
	cancel()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("queue did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(delivered) != 1 || delivered[0] != "a@example.org" {
		t.Errorf("expected the retried message to be delivered on shutdown, got %v", delivered)
	}
	if q.Pending() != 0 {
		t.Errorf("expected an empty queue after shutdown, got %d", q.Pending())
	}
}
