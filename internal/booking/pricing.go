package booking

import "github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"

// DefaultPremiumPrice is charged per premium slot; free slots cost nothing.
const DefaultPremiumPrice int64 = 150000

type Pricing struct {
	PremiumPrice int64
}

func NewPricing(premiumPrice int64) Pricing {
	return Pricing{PremiumPrice: premiumPrice}
}

// Quote is the price breakdown of one slot.
type Quote struct {
	Price          int64
	LightSurcharge int64
	IsPeak         bool
}

func (q Quote) Total() int64 { return q.Price + q.LightSurcharge }

func (p Pricing) Quote(court domain.Court, class domain.BookingClass, start domain.TimeOfDay) Quote {
	q := Quote{IsPeak: IsPeak(start)}
	if class == domain.ClassPremium {
		q.Price = p.PremiumPrice
	}
	q.LightSurcharge = LightSurcharge(court, q.IsPeak)
	return q
}

// LightSurcharge is the court's surcharge when the lights are needed.
func LightSurcharge(court domain.Court, peak bool) int64 {
	if !peak {
		return 0
	}
	return court.LightSurcharge
}

// Apply stamps the quote onto r.
func (p Pricing) Apply(r *domain.Reservation, court domain.Court) {
	q := p.Quote(court, r.Class, r.StartTime)
	r.Price = q.Price
	r.LightSurcharge = q.LightSurcharge
	r.IsPeak = q.IsPeak
}
