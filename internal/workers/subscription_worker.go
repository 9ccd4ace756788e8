// Package workers hosts background jobs that run alongside the HTTP server.
package workers

import (
	"context"
	"time"

	"momentum_backend/internal/logger"
	"momentum_backend/internal/repositories"
	"momentum_backend/internal/services"
)

// SubscriptionWorker downgrades users whose paid period has lapsed. It runs
// once at startup and then every minute, so a restart never leaves expired
// subscriptions active for long.
type SubscriptionWorker struct {
	users       repositories.UserRepository
	entitlement services.EntitlementService
	interval    time.Duration
	now         func() time.Time
}

func NewSubscriptionWorker(users repositories.UserRepository, entitlement services.EntitlementService) *SubscriptionWorker {
	return &SubscriptionWorker{
		users:       users,
		entitlement: entitlement,
		interval:    time.Minute,
		now:         time.Now,
	}
}

// Start blocks until the context is cancelled. Run it in its own goroutine.
func (w *SubscriptionWorker) Start(ctx context.Context) {
	logger.WorkerLog("subscription", "starting", "interval", w.interval.String())

	if _, err := w.SweepExpired(ctx, w.now()); err != nil {
		logger.Error("subscription sweep failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.WorkerLog("subscription", "stopping")
			return
		case <-ticker.C:
			if _, err := w.SweepExpired(ctx, w.now()); err != nil {
				logger.Error("subscription sweep failed", "error", err)
			}
		}
	}
}

// SweepExpired expires every active subscription whose end date is before
// now and returns how many rows transitioned. Failures on individual users
// are logged and skipped so one bad row never stalls the sweep. The
// expiry write is conditional on the row still being active, which makes
// re-running the sweep over the same set a no-op.
func (w *SubscriptionWorker) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	lapsed, err := w.users.FindLapsed(now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, user := range lapsed {
		transitioned, err := w.entitlement.Expire(ctx, user.ID)
		if err != nil {
			logger.Error("failed to expire subscription", "user_id", user.ID, "error", err)
			continue
		}
		if transitioned {
			expired++
		}
	}

	if expired > 0 {
		logger.WorkerLog("subscription", "sweep complete", "expired", expired, "candidates", len(lapsed))
	}
	return expired, nil
}
