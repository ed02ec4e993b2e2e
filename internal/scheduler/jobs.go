package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// ReminderSender sends the HR reminders due as of a point in time.
type ReminderSender interface {
	SendDueReminders(ctx context.Context, asOf time.Time) (int, error)
}

// ReminderJob sends the HR reminder for every registration due today.
type ReminderJob struct {
	sender   ReminderSender
	interval time.Duration
	now      func() time.Time
}

func NewReminderJob(sender ReminderSender, interval time.Duration) *ReminderJob {
	return &ReminderJob{sender: sender, interval: interval, now: time.Now}
}

func (j *ReminderJob) Name() string            { return "hr-reminders" }
func (j *ReminderJob) Schedule() time.Duration { return j.interval }

func (j *ReminderJob) Run(ctx context.Context) error {
	_, err := j.sender.SendDueReminders(ctx, j.now())
	return err
}

// ExpiredSessionDeleter removes sessions past their expiry.
type ExpiredSessionDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// SessionCleanupJob purges expired staff sessions.
type SessionCleanupJob struct {
	sessions ExpiredSessionDeleter
	interval time.Duration
	logger   *slog.Logger
}

func NewSessionCleanupJob(sessions ExpiredSessionDeleter, interval time.Duration, logger *slog.Logger) *SessionCleanupJob {
	return &SessionCleanupJob{sessions: sessions, interval: interval, logger: logger}
}

func (j *SessionCleanupJob) Name() string            { return "session-cleanup" }
func (j *SessionCleanupJob) Schedule() time.Duration { return j.interval }

func (j *SessionCleanupJob) Run(ctx context.Context) error {
	n, err := j.sessions.DeleteExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		j.logger.Info("sessions: expired sessions removed", "count", n)
	}
	return nil
}
