package marketplace

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"pricewatch/internal/domain/entity"
)

var ErrUnsupportedMarketplace = errors.New("unsupported marketplace")

//go:generate moq -rm -out price_source_mock.gen.go . PriceSource

// PriceSource fetches the current listed price of one listing page.
// found is false when the page rendered but carries no price value.
type PriceSource interface {
	FetchPrice(ctx context.Context, url string) (price int64, found bool, err error)
}

// Registry maps marketplace ids to price sources.
type Registry struct {
	sources map[string]PriceSource
}

func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]PriceSource)}
}

// NewMercariRegistry registers src as the MERCARI price source.
func NewMercariRegistry(src PriceSource) *Registry {
	return NewRegistry().With(entity.MarketplaceMercari, src)
}

func (r *Registry) With(marketplace string, src PriceSource) *Registry {
	r.sources[marketplace] = src

	return r
}

// Resolve returns the price source registered for marketplace.
func (r *Registry) Resolve(marketplace string) (PriceSource, error) {
	src, ok := r.sources[marketplace]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMarketplace, marketplace)
	}

	return src, nil
}

// Marketplaces lists the registered ids in sorted order.
func (r *Registry) Marketplaces() []string {
	ids := make([]string, 0, len(r.sources))
	for id := range r.sources {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}
