package collector

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/alisaviation/exporter/internal/logger"
	"github.com/alisaviation/exporter/internal/storage"
)

var ErrPanic = errors.New("source panicked")

// Task fetches one source and writes what it got into the store. A returned error marks
// the source failed for this cycle; whatever the task already wrote stays.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

type Collector struct {
	store *storage.Store
	tasks []Task
}

func NewCollector(store *storage.Store, tasks ...Task) *Collector {
	return &Collector{store: store, tasks: tasks}
}

// Run polls until ctx is cancelled. The sleep starts after every source was attempted.
func (c *Collector) Run(ctx context.Context, period time.Duration) {
	logger.Log.Info("Poller started",
		zap.Duration("period", period),
		zap.Int("sources", len(c.tasks)))

	for {
		c.CollectOnce(ctx)

		timer := time.NewTimer(period)
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Log.Info("Poller stopped")
			return
		case <-timer.C:
		}
	}
}

// CollectOnce runs one poll cycle and reports whether every source succeeded.
// Sources run one after another; none of them can abort the cycle or the process.
func (c *Collector) CollectOnce(ctx context.Context) (ok bool) {
	start := time.Now()
	ok = true

	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("Poll cycle panicked",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
			ok = false
		}
		c.store.SetCycleSuccess(ok)
		c.store.SetCycleDuration(time.Since(start))
	}()

	for _, task := range c.tasks {
		err := guard(func() error { return task.Run(ctx) })
		if err != nil {
			ok = false
			logger.Log.Warn("Source failed, keeping previous values",
				zap.String("source", task.Name),
				zap.Error(err))
		}
		c.store.SetSourceUp(task.Name, err == nil)
	}

	logger.Log.Debug("Poll cycle finished",
		zap.Bool("ok", ok),
		zap.Duration("duration", time.Since(start)))
	return ok
}

// guard turns a panic in fn into an ErrPanic error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn()
}
