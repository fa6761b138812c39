package enrollment

import (
	"context"
	"log/slog"
	"time"
)

// ExpiryJob marks abandoned checkouts as expired. Confirmation still consults the
// provider for expired intents, so a late paid session is captured.
type ExpiryJob struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewExpiryJob returns a job that expires intents pending for longer than ttl.
func NewExpiryJob(store Store, ttl time.Duration, logger *slog.Logger) *ExpiryJob {
	return &ExpiryJob{store: store, ttl: ttl, now: time.Now, logger: logger}
}

// Name identifies the job in scheduler logs.
func (j *ExpiryJob) Name() string {
	return "payment_intent_expiry"
}

// Execute runs one expiry sweep.
func (j *ExpiryJob) Execute(ctx context.Context) error {
	expired, err := j.store.ExpirePending(ctx, j.now().Add(-j.ttl))
	if err != nil {
		return err
	}
	if expired > 0 {
		j.logger.Info("expired stale payment intents", slog.Int64("count", expired))
	}
	return nil
}
