package marketplace_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pricewatch/internal/domain/entity"
	"pricewatch/internal/infrastructure/marketplace"
)

func TestRegistryResolve(t *testing.T) {
	rq := require.New(t)

	mercari := &marketplace.PriceSourceMock{}
	registry := marketplace.NewMercariRegistry(mercari)

	src, err := registry.Resolve(entity.MarketplaceMercari)
	rq.NoError(err)
	rq.Same(mercari, src)

	_, err = registry.Resolve("YAHOO_AUCTIONS")
	rq.ErrorIs(err, marketplace.ErrUnsupportedMarketplace)

	rq.Equal([]string{entity.MarketplaceMercari}, registry.Marketplaces())
}

func TestCached(t *testing.T) {
	rq := require.New(t)

	errBoom := errors.New("boom")

	next := &marketplace.PriceSourceMock{
		FetchPriceFunc: func(_ context.Context, url string) (int64, bool, error) {
			switch url {
			case "found":
				return 1500, true, nil
			case "absent":
				return 0, false, nil
			default:
				return 0, false, errBoom
			}
		},
	}

	cached := marketplace.NewCached(next, time.Minute)
	ctx := context.Background()

	for range 3 {
		price, found, err := cached.FetchPrice(ctx, "found")
		rq.NoError(err)
		rq.True(found)
		rq.Equal(int64(1500), price)
	}

	for range 2 {
		_, found, err := cached.FetchPrice(ctx, "absent")
		rq.NoError(err)
		rq.False(found)
	}

	for range 2 {
		_, _, err := cached.FetchPrice(ctx, "broken")
		rq.ErrorIs(err, errBoom)
	}

	rq.Len(next.FetchPriceCalls(), 1+2+2)
}

func TestNewBrowserSource(t *testing.T) {
	rq := require.New(t)

	opts := marketplace.BrowserOptions{Headless: true, WaitTimeout: time.Second}

	src, err := marketplace.NewBrowserSource(marketplace.EngineRod, opts, 0)
	rq.NoError(err)
	rq.IsType(&marketplace.RodBrowser{}, src)

	src, err = marketplace.NewBrowserSource(marketplace.EngineChromedp, opts, 0)
	rq.NoError(err)
	rq.IsType(&marketplace.ChromedpBrowser{}, src)

	src, err = marketplace.NewBrowserSource(marketplace.EngineRod, opts, time.Minute)
	rq.NoError(err)
	rq.IsType(&marketplace.Cached{}, src)

	_, err = marketplace.NewBrowserSource("lynx", opts, 0)
	rq.Error(err)
}
