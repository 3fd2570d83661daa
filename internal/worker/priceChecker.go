package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/xid"

	"pricewatch/internal/domain"
	"pricewatch/internal/domain/entity"
	"pricewatch/internal/domain/service/watch"
	"pricewatch/pkg/contextx"
	"pricewatch/pkg/errcodes"
	"pricewatch/pkg/logx"
	"pricewatch/pkg/metrics"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

var ErrRunInProgress = errors.New("price check already running")

type ListingSource interface {
	Load(ctx context.Context) ([]entity.Listing, error)
}

type Evaluator interface {
	Evaluate(ctx context.Context, listings []entity.Listing) ([]entity.Alert, watch.Summary)
}

type Notifier interface {
	Notify(ctx context.Context, alerts []entity.Alert) error
}

type RunRecorder interface {
	ObserveRun(counts metrics.RunCounts, duration time.Duration, err error)
	ObserveNotification(err error)
}

// PriceChecker runs the load, evaluate and notify pipeline.
type PriceChecker struct {
	source    ListingSource
	evaluator Evaluator
	notifier  Notifier
	recorder  RunRecorder

	// held for the duration of one run
	running sync.Mutex
}

func NewPriceChecker(
	source ListingSource,
	evaluator Evaluator,
	notifier Notifier,
) *PriceChecker {
	return &PriceChecker{
		source:    source,
		evaluator: evaluator,
		notifier:  notifier,
	}
}

func (w *PriceChecker) WithRecorder(recorder RunRecorder) *PriceChecker {
	w.recorder = recorder

	return w
}

// RunOnce performs one full run. Only listing source errors are returned;
// fetch and delivery failures are logged.
func (w *PriceChecker) RunOnce(ctx context.Context) error {
	if !w.running.TryLock() {
		return ErrRunInProgress
	}
	defer w.running.Unlock()

	runID := contextx.RunID(xid.New().String())
	ctx = contextx.WithRunID(ctx, runID)
	ctx = contextx.WithLogger(ctx, logger(ctx).With(logx.Stringer(logx.FieldRunID, runID)))

	start := time.Now()

	logger(ctx).Info("price check started")

	listings, err := w.source.Load(ctx)
	if err != nil {
		w.observeRun(watch.Summary{}, time.Since(start), err)

		return fmt.Errorf("source.Load: %w", err)
	}

	alerts, summary := w.evaluator.Evaluate(ctx, listings)

	if len(alerts) == 0 {
		logger(ctx).Info("no price drops detected")
	} else {
		err := w.notifier.Notify(ctx, alerts)
		if err != nil {
			logger(ctx).Error("notification failed", logx.Error(err))
		}

		if w.recorder != nil {
			w.recorder.ObserveNotification(err)
		}
	}

	w.observeRun(summary, time.Since(start), nil)

	logger(ctx).Info("price check finished",
		slog.Int("checked", summary.Checked),
		slog.Int("failed", summary.Failed),
		slog.Int("not-found", summary.NotFound),
		slog.Int("matched", summary.Matched),
		slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
	)

	return nil
}

// RunScheduled runs once immediately and then on every tick of spec (cron
// format with a leading seconds field) until ctx is done. A tick that fires
// while a run is still in progress is skipped.
func (w *PriceChecker) RunScheduled(ctx context.Context, spec string) error {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger(ctx).Handler(), slog.LevelDebug))

	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger)),
	)

	if _, err := c.AddFunc(spec, func() { w.tick(ctx) }); err != nil {
		return domain.WrapError(
			fmt.Errorf("cron.AddFunc: %w", err),
			errcodes.InvalidSchedule,
			"invalid schedule",
		)
	}

	c.Start()

	logger(ctx).Info("price checker scheduled", slog.String(logx.FieldSchedule, spec))

	w.tick(ctx)

	<-ctx.Done()

	<-c.Stop().Done()

	logger(ctx).Info("price checker stopped")

	return nil
}

func (w *PriceChecker) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	err := w.RunOnce(ctx)

	switch {
	case errors.Is(err, ErrRunInProgress):
		logger(ctx).Warn("previous run still in progress, tick skipped")
	case err != nil:
		logger(ctx).Error("price check failed", logx.Error(err))
	}
}

func (w *PriceChecker) observeRun(summary watch.Summary, duration time.Duration, err error) {
	if w.recorder == nil {
		return
	}

	w.recorder.ObserveRun(metrics.RunCounts{
		Checked:  summary.Checked,
		Failed:   summary.Failed,
		NotFound: summary.NotFound,
		Matched:  summary.Matched,
	}, duration, err)
}
