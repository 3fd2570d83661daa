package listings

import (
	"context"

	"pricewatch/internal/domain/entity"
)

// Source yields the listings for one run.
type Source interface {
	Load(ctx context.Context) ([]entity.Listing, error)
}

// Static is a fixed in-process listing set.
type Static []entity.Listing

// Load returns a copy of the static set with defaults applied.
func (s Static) Load(context.Context) ([]entity.Listing, error) {
	result := make([]entity.Listing, 0, len(s))

	for _, listing := range s {
		result = append(result, listing.WithDefaults(""))
	}

	return result, nil
}
