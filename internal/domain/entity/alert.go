package entity

// Alert is a listing whose observed price is at or below its threshold.
type Alert struct {
	Listing Listing
	Price   int64
}

// NewAlert returns an alert when price qualifies for the listing.
func NewAlert(listing Listing, price int64) (Alert, bool) {
	if price > listing.Threshold {
		return Alert{}, false
	}

	return Alert{Listing: listing, Price: price}, true
}
