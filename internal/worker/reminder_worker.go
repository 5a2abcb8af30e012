// Package worker owns the daily schedule trigger. The cron fires in a fixed
// reference timezone; per-recipient timezones are out of scope.
package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"reminder-service/internal/usecase"
)

const (
	runLockKey = "reminders:run-lock"
	// A run lease longer than any sane run; expires on its own if the
	// process dies mid-run.
	runLockTTL = 30 * time.Minute
	runTimeout = 30 * time.Minute
)

type ReminderWorker struct {
	uc     *usecase.ReminderUsecase
	rdb    *redis.Client
	logger *zap.Logger
	spec   string
	loc    *time.Location
	c      *cron.Cron
}

func NewReminderWorker(uc *usecase.ReminderUsecase, rdb *redis.Client, spec string, loc *time.Location, logger *zap.Logger) *ReminderWorker {
	return &ReminderWorker{
		uc:     uc,
		rdb:    rdb,
		logger: logger,
		spec:   spec,
		loc:    loc,
	}
}

// Start registers the schedule and begins firing. A bad spec is reported
// once; the worker then simply never fires, matching the original's
// misconfiguration behavior.
func (w *ReminderWorker) Start() error {
	w.c = cron.New(cron.WithLocation(w.loc))
	if _, err := w.c.AddFunc(w.spec, w.runOnce); err != nil {
		w.logger.Error("invalid reminder cron spec, scheduler will not fire",
			zap.String("spec", w.spec),
			zap.Error(err))
		return err
	}
	w.c.Start()
	w.logger.Info("reminder cron scheduled",
		zap.String("spec", w.spec),
		zap.String("timezone", w.loc.String()))
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (w *ReminderWorker) Stop() {
	if w.c != nil {
		<-w.c.Stop().Done()
	}
}

// RunNow executes one run immediately, using the same lock discipline as the
// scheduled path. Used by the manual trigger endpoint.
func (w *ReminderWorker) RunNow(ctx context.Context) usecase.RunSummary {
	return w.lockedRun(ctx)
}

func (w *ReminderWorker) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	w.lockedRun(ctx)
}

// lockedRun takes a redis lease so overlapping runs (two replicas, or a
// manual trigger racing the schedule) cannot double-process. The ledger's
// unique constraint remains the last line of defense if the lock is
// unavailable.
func (w *ReminderWorker) lockedRun(ctx context.Context) usecase.RunSummary {
	runID := uuid.NewString()

	acquired, err := w.rdb.SetNX(ctx, runLockKey, runID, runLockTTL).Result()
	if err != nil {
		w.logger.Warn("run lock unavailable, proceeding on ledger constraint alone", zap.Error(err))
	} else if !acquired {
		w.logger.Info("reminder run skipped: another run holds the lock")
		return usecase.RunSummary{}
	}

	if err == nil && acquired {
		defer func() {
			// Release only our own lease.
			held, getErr := w.rdb.Get(context.Background(), runLockKey).Result()
			if getErr == nil && held == runID {
				w.rdb.Del(context.Background(), runLockKey)
			}
		}()
	}

	return w.uc.ProcessReminders(ctx)
}
