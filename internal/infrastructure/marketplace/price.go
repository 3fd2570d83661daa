package marketplace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	priceSelector      = `[data-testid="price"]`
	priceChildSelector = `span:nth-child(2)`
)

var (
	ErrPriceParse          = errors.New("price text is not an integer")
	ErrPriceElementTimeout = errors.New("price element did not appear")
)

// ParsePrice turns a displayed price such as "1,234,567" into 1234567.
func ParsePrice(text string) (int64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")

	// ParseInt accepts a sign; a displayed price never carries one.
	if cleaned == "" || strings.IndexFunc(cleaned, isNotDigit) >= 0 {
		return 0, fmt.Errorf("%w: %q", ErrPriceParse, text)
	}

	price, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrPriceParse, text)
	}

	return price, nil
}

func isNotDigit(r rune) bool {
	return r < '0' || r > '9'
}
