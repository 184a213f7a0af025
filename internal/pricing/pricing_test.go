package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock(year int) Clock {
	return func() time.Time {
		return time.Date(year, time.June, 1, 12, 0, 0, 0, time.UTC)
	}
}

func year(y int) *int { return &y }

func TestPrice(t *testing.T) {
	p := New(fixedClock(2025))

	tests := []struct {
		name     string
		year     *int
		editions int
		want     string
	}{
		{name: "no year no editions", year: nil, editions: 0, want: "10.00"},
		{name: "editions only", year: nil, editions: 5, want: "15.00"},
		{name: "partial decade ignored", year: year(2019), editions: 0, want: "10.00"},
		{name: "two decades", year: year(2005), editions: 3, want: "17.00"},
		{name: "future year clamps to zero", year: year(2031), editions: 1, want: "11.00"},
		{name: "capped", year: year(1877), editions: 30, want: "50.00"},
		{name: "exactly at cap", year: year(1925), editions: 20, want: "50.00"},
		{name: "negative editions treated as zero", year: nil, editions: -4, want: "10.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Price(tt.year, tt.editions)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestPriceBounds(t *testing.T) {
	p := New(fixedClock(2025))

	for _, y := range []*int{nil, year(1500), year(1990), year(2025), year(2100)} {
		for editions := 0; editions < 100; editions += 7 {
			got := p.Price(y, editions)
			assert.False(t, got.LessThan(MinPrice), "price %s below minimum", got)
			assert.False(t, got.GreaterThan(MaxPrice), "price %s above maximum", got)
			assert.True(t, got.Equal(got.Round(2)), "price %s has more than 2 decimals", got)
		}
	}
}

func TestPriceDependsOnClockYear(t *testing.T) {
	y := year(2000)

	assert.Equal(t, "14.00", New(fixedClock(2020)).Price(y, 0).StringFixed(2))
	assert.Equal(t, "16.00", New(fixedClock(2030)).Price(y, 0).StringFixed(2))
}

func TestNewDefaultsToWallClock(t *testing.T) {
	p := New(nil)
	assert.NotNil(t, p.now)
	assert.Equal(t, "10.00", p.Price(nil, 0).StringFixed(2))
}
