package mailer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrQueueFull is returned by Enqueue when the buffer has no room left.
var ErrQueueFull = errors.New("mailer: queue full, message not queued")

type queuedMessage struct {
	msg     Message
	retries int
}

// Queue delivers messages in the background at a fixed rate, retrying
// failed sends with a linear backoff.
type Queue struct {
	mailer   *Mailer
	ch       chan queuedMessage
	rate     time.Duration
	maxRetry int
	backoff  time.Duration
	retries  sync.WaitGroup
}

func NewQueue(m *Mailer, rate time.Duration, bufferSize, maxRetry int) *Queue {
	return &Queue{
		mailer:   m,
		ch:       make(chan queuedMessage, bufferSize),
		rate:     rate,
		maxRetry: maxRetry,
		backoff:  5 * time.Second,
	}
}

// Start processes queued messages at the configured rate until ctx is cancelled.
// On shutdown it drains any remaining messages before returning.
func (q *Queue) Start(ctx context.Context) {
	ticker := time.NewTicker(q.rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			q.drain()
			return
		case <-ticker.C:
			select {
			case item := <-q.ch:
				q.attempt(ctx, item)
			default:
				// no message ready; wait for next tick
			}
		}
	}
}

// Enqueue adds msg to the queue without waiting for delivery.
func (q *Queue) Enqueue(msg Message) error {
	select {
	case q.ch <- queuedMessage{msg: msg}:
		return nil
	default:
		return ErrQueueFull
	}
}

// SendNow bypasses the queue and delivers msg immediately.
func (q *Queue) SendNow(_ context.Context, msg Message) error {
	return q.mailer.Send(msg)
}

// Pending reports how many messages are waiting.
func (q *Queue) Pending() int {
	return len(q.ch)
}

// attempt sends a message, scheduling a context-aware retry with backoff on failure.
func (q *Queue) attempt(ctx context.Context, item queuedMessage) {
	err := q.mailer.Send(item.msg)
	if err == nil {
		return
	}

	if item.retries >= q.maxRetry {
		slog.Error("mailer: message dropped after max retries", "to", item.msg.To, "subject", item.msg.Subject, "err", err)
		return
	}

	item.retries++
	backoff := time.Duration(item.retries) * q.backoff
	slog.Warn("mailer: send failed, retrying with backoff", "to", item.msg.To, "subject", item.msg.Subject, "retry", item.retries, "backoff", backoff, "err", err)

	q.retries.Add(1)
	go func() {
		defer q.retries.Done()
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			slog.Warn("mailer: retry cut short by shutdown, handing to drain", "to", item.msg.To)
		}
		q.requeue(item)
	}()
}

func (q *Queue) requeue(item queuedMessage) {
	select {
	case q.ch <- item:
	default:
		slog.Error("mailer: requeue failed, queue full, message dropped", "to", item.msg.To, "subject", item.msg.Subject)
	}
}

// drain flushes remaining queued messages on shutdown, best-effort. Pending
// retries are waited for first so none is requeued after drain returns.
func (q *Queue) drain() {
	q.retries.Wait()
	for {
		select {
		case item := <-q.ch:
			if err := q.mailer.Send(item.msg); err != nil {
				slog.Error("mailer: drain send failed", "to", item.msg.To, "err", err)
			}
		default:
			return
		}
	}
}

// Ping delegates to the underlying Mailer.
func (q *Queue) Ping() error {
	return q.mailer.Ping()
}

func (q *Queue) Reconfigure(cfg *Config) {
	q.mailer.Reconfigure(cfg)
}
