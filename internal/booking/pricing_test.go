package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

func TestPricingQuote(t *testing.T) {
	t.Parallel()

	court := domain.Court{ID: 1, LightSurcharge: 50000}
	p := NewPricing(DefaultPremiumPrice)

	tests := []struct {
		name  string
		class domain.BookingClass
		start domain.TimeOfDay
		want  Quote
	}{
		{name: "free daytime", class: domain.ClassFree, start: hm(10, 0), want: Quote{}},
		{name: "free peak", class: domain.ClassFree, start: hm(18, 0), want: Quote{LightSurcharge: 50000, IsPeak: true}},
		{name: "premium daytime", class: domain.ClassPremium, start: hm(17, 0), want: Quote{Price: 150000}},
		{name: "premium peak", class: domain.ClassPremium, start: hm(21, 0), want: Quote{Price: 150000, LightSurcharge: 50000, IsPeak: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Quote(court, tt.class, tt.start))
		})
	}
}

func TestPricingApply(t *testing.T) {
	t.Parallel()

	r := reservation(1, 7, 1, "2025-07-10", hm(19, 0), hm(20, 0), domain.StatusPending)
	r.Class = domain.ClassPremium
	NewPricing(120000).Apply(&r, domain.Court{LightSurcharge: 25000})

	assert.Equal(t, int64(120000), r.Price)
	assert.Equal(t, int64(25000), r.LightSurcharge)
	assert.True(t, r.IsPeak)
}
