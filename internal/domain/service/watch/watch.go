package watch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"pricewatch/internal/domain/entity"
	"pricewatch/internal/infrastructure/marketplace"
	"pricewatch/pkg/contextx"
	"pricewatch/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type PriceSourceResolver interface {
	Resolve(marketplace string) (marketplace.PriceSource, error)
}

// Summary counts per-listing outcomes of one evaluation.
type Summary struct {
	Checked  int
	Failed   int
	NotFound int
	Matched  int
}

type Service struct {
	sources PriceSourceResolver
}

func NewService(sources PriceSourceResolver) *Service {
	return &Service{sources: sources}
}

// Evaluate fetches every listing in order and returns the alerts for those
// priced at or below their threshold. A failing listing is logged and
// skipped, it never stops the remaining listings.
func (s *Service) Evaluate(ctx context.Context, listings []entity.Listing) ([]entity.Alert, Summary) {
	var (
		alerts  []entity.Alert
		summary Summary
	)

	for _, listing := range listings {
		if ctx.Err() != nil {
			logger(ctx).Warn("evaluation interrupted", logx.Error(ctx.Err()))

			break
		}

		summary.Checked++

		price, found, err := s.check(ctx, listing)
		if err != nil {
			summary.Failed++

			logger(ctx).Error("error fetching price",
				slog.String(logx.FieldListing, listing.Name),
				slog.String(logx.FieldURL, listing.URL),
				logx.Error(err),
			)

			continue
		}

		if !found {
			summary.NotFound++

			logger(ctx).Warn("price not found", slog.String(logx.FieldListing, listing.Name))

			continue
		}

		logger(ctx).Info("price checked",
			slog.String(logx.FieldListing, listing.Name),
			slog.Int64(logx.FieldPrice, price),
			slog.Int64(logx.FieldThreshold, listing.Threshold),
		)

		if alert, ok := entity.NewAlert(listing, price); ok {
			summary.Matched++

			alerts = append(alerts, alert)
		}
	}

	return alerts, summary
}

func (s *Service) check(ctx context.Context, listing entity.Listing) (price int64, found bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger(ctx).Error("panic while fetching price",
				slog.String(logx.FieldListing, listing.Name),
				slog.String(logx.FieldStack, string(debug.Stack())),
			)

			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	src, err := s.sources.Resolve(listing.Marketplace())
	if err != nil {
		return 0, false, err
	}

	price, found, err = src.FetchPrice(ctx, listing.URL)
	if err != nil {
		return 0, false, fmt.Errorf("FetchPrice: %w", err)
	}

	return price, found, nil
}
