package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mymmrac/telego"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"pricewatch/internal/config"
	"pricewatch/internal/domain"
	"pricewatch/internal/domain/service/watch"
	"pricewatch/internal/infrastructure/listings"
	"pricewatch/internal/infrastructure/marketplace"
	"pricewatch/internal/infrastructure/notifier"
	"pricewatch/internal/worker"
	"pricewatch/pkg/application/modules"
	"pricewatch/pkg/contextx"
	"pricewatch/pkg/errcodes"
	"pricewatch/pkg/httpx"
	"pricewatch/pkg/logx"
	"pricewatch/pkg/metrics"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Run wires the pipeline from cfg and performs a single run, or keeps
// running on cfg.Scheduler.Schedule until ctx is done.
func Run(ctx context.Context, cfg config.Config) error {
	checker, err := newPriceChecker(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.Scheduler.Scheduled() {
		return runScheduled(ctx, cfg, checker)
	}

	return runOnce(ctx, cfg, checker)
}

func newPriceChecker(ctx context.Context, cfg config.Config) (*worker.PriceChecker, error) {
	httpClient := &http.Client{
		Timeout: cfg.Discord.Timeout,
		Transport: httpx.NewLoggingRoundTripper(
			http.DefaultTransport,
			httpx.WithLogFieldMaxLen(cfg.Log.HTTPMaxLen),
		),
	}

	notifiers := notifier.Multi{
		notifier.NewDiscord(
			cfg.Discord.WebhookURL,
			httpClient,
			notifier.WithEmbedFields(cfg.Discord.EmbedFields),
		),
	}

	if cfg.Telegram.Enabled() {
		tg, err := notifier.NewTelegram(
			cfg.Telegram.BotToken,
			cfg.Telegram.ChatID,
			telego.WithHTTPClient(&http.Client{
				Timeout: cfg.Discord.Timeout,
				Transport: httpx.NewLoggingRoundTripper(
					http.DefaultTransport,
					httpx.WithoutBodies(),
				),
			}),
			telego.WithDiscardLogger(),
		)
		if err != nil {
			return nil, domain.WrapError(err, errcodes.ConfigInvalid, "invalid telegram config")
		}

		notifiers = append(notifiers, tg)
	}

	src, err := marketplace.NewBrowserSource(
		cfg.Browser.Engine,
		marketplace.BrowserOptions{
			Bin:         cfg.Browser.Bin,
			Headless:    cfg.Browser.Headless,
			WaitTimeout: cfg.Browser.WaitTimeout,
		},
		cfg.Browser.CacheTTL,
	)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.UnsupportedEngine, "invalid browser config")
	}

	registry := marketplace.NewMercariRegistry(src)

	logger(ctx).Info("price sources ready",
		slog.String(logx.FieldEngine, cfg.Browser.Engine),
		slog.Any("marketplaces", registry.Marketplaces()),
	)

	svc := watch.NewService(registry)

	return worker.NewPriceChecker(
		listings.NewFile(cfg.Listings.File, cfg.Listings.DefaultUserID),
		svc,
		notifiers,
	), nil
}

func runOnce(ctx context.Context, cfg config.Config, checker *worker.PriceChecker) error {
	var runMetrics *metrics.RunMetrics

	if cfg.Scheduler.PushgatewayURL != "" {
		runMetrics = metrics.NewRunMetrics(nil)
		checker.WithRecorder(runMetrics)
	}

	runErr := checker.RunOnce(ctx)

	if runMetrics != nil {
		if err := runMetrics.Push(context.WithoutCancel(ctx), cfg.Scheduler.PushgatewayURL, cfg.App.Name); err != nil {
			logger(ctx).Error("metrics push failed", logx.Error(err))
		}
	}

	if runErr != nil {
		return fmt.Errorf("checker.RunOnce: %w", runErr)
	}

	return nil
}

func runScheduled(ctx context.Context, cfg config.Config, checker *worker.PriceChecker) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	checker.WithRecorder(metrics.NewRunMetrics(reg))

	g, ctx := errgroup.WithContext(ctx)

	probeServer := modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Scheduler.ProbeAddr,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Scheduler.MetricsAddr,
		Gatherer:      reg,
	}.Run(ctx, g)

	g.Go(func() error {
		if err := checker.RunScheduled(ctx, cfg.Scheduler.Schedule); err != nil {
			return fmt.Errorf("checker.RunScheduled: %w", err)
		}

		return nil
	})

	probeServer.SetReady(true)

	logger(ctx).Info("scheduled mode started",
		slog.String(logx.FieldSchedule, cfg.Scheduler.Schedule),
		slog.String(logx.FieldEngine, cfg.Browser.Engine),
	)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}
