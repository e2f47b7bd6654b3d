package clock

import (
	"testing"
	"time"
)

func TestFixedClockKeepsLocation(t *testing.T) {
	t.Parallel()

	wib := time.FixedZone("WIB", 7*60*60)
	at := time.Date(2025, 6, 2, 6, 30, 0, 0, wib)
	c := NewFixed(at)

	if got := c.Now(); !got.Equal(at) || got.Location() != wib {
		t.Fatalf("expected %v in WIB, got %v", at, got)
	}
}

func TestSystemClockLocation(t *testing.T) {
	t.Parallel()

	wib := time.FixedZone("WIB", 7*60*60)
	if loc := NewSystem(wib).Now().Location(); loc != wib {
		t.Fatalf("expected WIB, got %v", loc)
	}
	if loc := NewSystem(nil).Now().Location(); loc != time.UTC {
		t.Fatalf("expected UTC, got %v", loc)
	}
}

func TestInConvertsDate(t *testing.T) {
	t.Parallel()

	wib := time.FixedZone("WIB", 7*60*60)
	c := In(NewFixed(time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)), wib)

	if day := c.Now().Day(); day != 2 {
		t.Fatalf("expected local day 2, got %d", day)
	}
}
