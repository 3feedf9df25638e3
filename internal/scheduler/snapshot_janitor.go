package scheduler

import (
	"context"
	"time"

	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/app/store"
	"github.com/minhtvo/storefront-gateway/internal/kv"
	"github.com/minhtvo/storefront-gateway/pkg/logger"
	"github.com/robfig/cron/v3"
)

// redirectStuckAfter is how long a checkout may sit on a hosted-payment page
// before it counts as abandoned
const redirectStuckAfter = time.Hour

// SnapshotJanitor periodically sweeps expired snapshots and reports checkout
// flows that never came back from a payment gateway
type SnapshotJanitor struct {
	cron      *cron.Cron
	store     kv.Store
	checkouts *store.CheckoutStore
}

func NewSnapshotJanitor(kvStore kv.Store, checkouts *store.CheckoutStore) *SnapshotJanitor {
	return &SnapshotJanitor{
		cron:      cron.New(),
		store:     kvStore,
		checkouts: checkouts,
	}
}

// Start registers the sweep job, every 10 minutes
func (j *SnapshotJanitor) Start() error {
	_, err := j.cron.AddFunc("*/10 * * * *", func() {
		ctx := context.Background()
		j.sweepExpired(ctx)
		j.reportStuckCheckouts(ctx)
	})
	if err != nil {
		logger.Error("Failed to add cron job for snapshot sweep", err)
		return err
	}

	j.cron.Start()
	logger.Info("Snapshot janitor started (every 10 minutes)", nil)
	return nil
}

// Stop stops the janitor
func (j *SnapshotJanitor) Stop() {
	logger.Info("Stopping snapshot janitor...", nil)
	j.cron.Stop()
	logger.Info("Snapshot janitor stopped", nil)
}

func (j *SnapshotJanitor) sweepExpired(ctx context.Context) {
	sweeper, ok := j.store.(kv.Sweeper)
	if !ok {
		// Redis expires keys by itself
		return
	}

	removed, err := sweeper.Sweep(ctx)
	if err != nil {
		logger.Error("Snapshot sweep failed", err)
		return
	}
	if removed > 0 {
		logger.Info("Swept expired snapshots", map[string]interface{}{
			"removed": removed,
		})
	}
}

func (j *SnapshotJanitor) reportStuckCheckouts(ctx context.Context) {
	keys, err := j.store.Keys(ctx, "checkout:")
	if err != nil {
		logger.Error("Failed to list checkout snapshots", err)
		return
	}

	for _, key := range keys {
		sessionID := key[len("checkout:"):]
		state, err := j.checkouts.Get(ctx, sessionID)
		if err != nil {
			continue
		}
		if state.Step != model.StepRedirecting {
			continue
		}
		if time.Since(state.UpdatedAt) < redirectStuckAfter {
			continue
		}

		logger.Warn("Checkout stuck at payment gateway", map[string]interface{}{
			"session_id": sessionID,
			"order_id":   state.OrderID,
			"method":     state.Method,
			"age":        time.Since(state.UpdatedAt).String(),
		})
	}
}
