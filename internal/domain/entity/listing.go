package entity

import "slices"

// MarketplaceMercari is the only marketplace with a price source today.
const MarketplaceMercari = "MERCARI"

// Listing is one watched marketplace item.
type Listing struct {
	Name      string   `json:"name"`
	Code      string   `json:"code"`
	Condition string   `json:"condition"`
	URL       string   `json:"url"       validate:"required"`
	Threshold int64    `json:"threshold" validate:"gte=0"`
	UserIDs   []string `json:"user_ids"`
	Website   string   `json:"website"`
}

// Marketplace returns the marketplace id, MERCARI when unset.
func (l Listing) Marketplace() string {
	if l.Website == "" {
		return MarketplaceMercari
	}

	return l.Website
}

// WithDefaults fills the optional fields a listing file may omit.
func (l Listing) WithDefaults(defaultUserID string) Listing {
	if l.Website == "" {
		l.Website = MarketplaceMercari
	}

	if len(l.UserIDs) == 0 && defaultUserID != "" {
		l.UserIDs = []string{defaultUserID}
	} else {
		l.UserIDs = slices.Clone(l.UserIDs)
	}

	return l
}
