// Package pricing derives list prices from a book's age and edition count.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	basePrice  = decimal.NewFromInt(10)
	perDecade  = decimal.NewFromInt(2)
	perEdition = decimal.NewFromInt(1)

	// MaxPrice caps every computed price.
	MaxPrice = decimal.NewFromInt(50)
	// MinPrice is the price of a book with no age or editions.
	MinPrice = basePrice
)

// Clock returns the current time. It decides the year books are aged against.
type Clock func() time.Time

// Pricer computes prices against a clock.
type Pricer struct {
	now Clock
}

// New creates a Pricer. A nil clock uses the wall clock.
func New(now Clock) *Pricer {
	if now == nil {
		now = time.Now
	}
	return &Pricer{now: now}
}

// Price returns 10.00 + 2.00 per full decade since first publication +
// 1.00 per edition, capped at 50.00 and rounded half-up to cents.
func (p *Pricer) Price(firstPublishYear *int, editionCount int) decimal.Decimal {
	if editionCount < 0 {
		editionCount = 0
	}

	price := basePrice.
		Add(perDecade.Mul(decimal.NewFromInt(int64(p.decadesOld(firstPublishYear))))).
		Add(perEdition.Mul(decimal.NewFromInt(int64(editionCount))))

	if price.GreaterThan(MaxPrice) {
		price = MaxPrice
	}
	return price.Round(2)
}

func (p *Pricer) decadesOld(firstPublishYear *int) int {
	if firstPublishYear == nil {
		return 0
	}
	age := p.now().UTC().Year() - *firstPublishYear
	if age < 0 {
		return 0
	}
	return age / 10
}
