// Package schedule runs a job on a cron schedule until its context ends.
package schedule

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	appLog "github.com/dschmit00/sports-calendar/internal/log"
)

// Job is one unit of scheduled work. Errors are logged, never fatal.
type Job func(ctx context.Context) error

// Validate reports whether spec is a usable 5-field cron expression or
// descriptor such as "@every 1h".
func Validate(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	return nil
}

// Run calls job on every tick of spec until ctx is done. When runNow is
// set the job also runs once immediately. Ticks that arrive while a run is
// still in progress are skipped.
func Run(ctx context.Context, spec string, runNow bool, job Job) error {
	if err := Validate(spec); err != nil {
		return err
	}

	logger := cronLogger{}
	c := cron.New(cron.WithLogger(logger))

	// Shared by the immediate run and the ticks so they never overlap.
	wrapped := cron.NewChain(
		cron.Recover(logger),
		cron.SkipIfStillRunning(logger),
	).Then(cron.FuncJob(func() {
		if ctx.Err() != nil {
			return
		}
		if err := job(ctx); err != nil {
			appLog.Error("scheduled run failed", err)
		}
	}))

	if _, err := c.AddJob(spec, wrapped); err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}

	appLog.Info("scheduler started", "cron", spec)
	c.Start()

	var wg sync.WaitGroup
	if runNow {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wrapped.Run()
		}()
	}

	<-ctx.Done()

	appLog.Info("scheduler stopping")
	<-c.Stop().Done()
	wg.Wait()
	return nil
}

// cronLogger forwards cron's own messages to the application logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	appLog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	appLog.Error("cron: "+msg, err, keysAndValues...)
}
