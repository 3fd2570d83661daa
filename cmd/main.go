package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"pricewatch/internal/application"
	"pricewatch/internal/config"
	"pricewatch/internal/domain"
	"pricewatch/pkg/contextx"
	"pricewatch/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logx.NewLogger(os.Stderr, "info").Error("config load failed", errorAttrs(err)...)
		os.Exit(1) //nolint:gocritic
	}

	log := logx.NewLogger(os.Stdout, cfg.Log.Level).With(
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
	)
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	if err := application.Run(ctx, cfg); err != nil {
		log.Error("application failed", errorAttrs(err)...)
		os.Exit(1)
	}

	log.Info("application stopped")
}

func errorAttrs(err error) []any {
	attrs := []any{logx.Error(err)}

	if code, ok := domain.GetCode(err); ok {
		attrs = append(attrs, slog.String(logx.FieldCode, string(code)))
	}

	return attrs
}
