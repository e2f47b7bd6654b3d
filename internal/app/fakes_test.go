package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

var wib = time.FixedZone("WIB", 7*60*60)

// mondayMorning is 2025-06-02 09:00 local; the free week is 06-09..06-15.
var mondayMorning = time.Date(2025, 6, 2, 9, 0, 0, 0, wib)

func day(s string) time.Time {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func slot(s string) domain.SlotKey {
	k, err := domain.ParseSlotKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// fakeStore implements every repository port in memory. WithTx serializes
// transactions and rolls back reservation changes on error.
type fakeStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	courts       map[int64]domain.Court
	tenants      map[int64]domain.Tenant
	reservations []domain.Reservation
	overrides    []domain.PremiumWindowOverride
	nextID       int64

	createErr   error
	listErr     error
	hideLive    bool
	usedRefs    map[string]bool
	createCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		courts: map[int64]domain.Court{
			1: {ID: 1, Name: "Court A", LightSurcharge: 50000, Active: true},
			2: {ID: 2, Name: "Court B", LightSurcharge: 50000, Active: true},
			3: {ID: 3, Name: "Court C", Active: false},
		},
		tenants: map[int64]domain.Tenant{
			7: {ID: 7, DisplayName: "A-07", Active: true},
			8: {ID: 8, DisplayName: "B-12", Active: true},
			9: {ID: 9, DisplayName: "C-03", Active: false},
		},
		usedRefs: make(map[string]bool),
	}
}

func (f *fakeStore) seed(rows ...domain.Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range rows {
		f.nextID++
		r.ID = f.nextID
		r.Date = domain.DateOf(r.Date)
		r.WeekAnchor = domain.WeekAnchor(r.Date)
		if r.EndTime == 0 {
			r.EndTime = r.StartTime.AddMinutes(60)
		}
		if r.Class == "" {
			r.Class = domain.ClassFree
		}
		r.CourtName = f.courts[r.CourtID].Name
		f.reservations = append(f.reservations, r)
	}
}

func (f *fakeStore) active() []domain.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Reservation
	for _, r := range f.reservations {
		if r.Status.Active() {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.mu.Lock()
	snapshot := append([]domain.Reservation(nil), f.reservations...)
	nextID := f.nextID
	f.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.mu.Lock()
		f.reservations = snapshot
		f.nextID = nextID
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeStore) GetCourt(_ context.Context, id int64) (domain.Court, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courts[id]
	if !ok {
		return domain.Court{}, domain.ErrCourtNotFound
	}
	return c, nil
}

func (f *fakeStore) ListCourts(_ context.Context, activeOnly bool) ([]domain.Court, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Court
	for _, c := range f.courts {
		if activeOnly && !c.Active {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) CreateCourt(_ context.Context, c domain.Court) (domain.Court, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.courts {
		if existing.Name == c.Name {
			return domain.Court{}, domain.ErrCourtAlreadyExists
		}
	}
	c.ID = int64(len(f.courts) + 1)
	f.courts[c.ID] = c
	return c, nil
}

func (f *fakeStore) UpdateCourt(_ context.Context, c domain.Court) (domain.Court, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.courts[c.ID]; !ok {
		return domain.Court{}, domain.ErrCourtNotFound
	}
	f.courts[c.ID] = c
	return c, nil
}

func (f *fakeStore) GetTenant(_ context.Context, id int64) (domain.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tenants[id]
	if !ok {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}
	return t, nil
}

func (f *fakeStore) LockTenant(ctx context.Context, id int64) (domain.Tenant, error) {
	return f.GetTenant(ctx, id)
}

func (f *fakeStore) ListTenants(_ context.Context) ([]domain.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Tenant
	for _, t := range f.tenants {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) CreateTenant(_ context.Context, t domain.Tenant) (domain.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = int64(len(f.tenants) + 100)
	f.tenants[t.ID] = t
	return t, nil
}

func inRange(d, from, to time.Time) bool {
	d = domain.DateOf(d)
	return !d.Before(domain.DateOf(from)) && !d.After(domain.DateOf(to))
}

func (f *fakeStore) ListCourtReservations(_ context.Context, courtID int64, from, to time.Time) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.hideLive {
		return nil, nil
	}
	var out []domain.Reservation
	for _, r := range f.reservations {
		if r.CourtID == courtID && r.Status.Active() && inRange(r.Date, from, to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ListTenantReservations(_ context.Context, tenantID int64, from, to time.Time, includeCancelled bool) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Reservation
	for _, r := range f.reservations {
		if r.TenantID != tenantID || !inRange(r.Date, from, to) {
			continue
		}
		if !includeCancelled && !r.Status.Active() {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) ListPremiumOverrides(_ context.Context) ([]domain.PremiumWindowOverride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.PremiumWindowOverride(nil), f.overrides...), nil
}

func (f *fakeStore) UpsertPremiumOverride(_ context.Context, o domain.PremiumWindowOverride) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.overrides {
		if existing.Year == o.Year && existing.Month == o.Month {
			f.overrides[i] = o
			return nil
		}
	}
	f.overrides = append(f.overrides, o)
	return nil
}

func (f *fakeStore) DeletePremiumOverride(_ context.Context, year, month int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, o := range f.overrides {
		if o.Year == year && int(o.Month) == month {
			f.overrides = append(f.overrides[:i], f.overrides[i+1:]...)
			return nil
		}
	}
	return domain.ErrOverrideNotFound
}

func (f *fakeStore) ReferenceExists(_ context.Context, ref string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.usedRefs[ref], nil
}

// CreateReservations enforces the one-live-row-per-slot index.
func (f *fakeStore) CreateReservations(_ context.Context, batch []domain.Reservation) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}

	out := make([]domain.Reservation, 0, len(batch))
	for _, r := range batch {
		for _, existing := range f.reservations {
			if existing.Status.Active() && existing.CourtID == r.CourtID && existing.Slot().String() == r.Slot().String() {
				return nil, &domain.SlotConflictError{CourtID: r.CourtID, Slots: []domain.SlotKey{r.Slot()}}
			}
		}
		f.nextID++
		r.ID = f.nextID
		f.reservations = append(f.reservations, r)
		f.usedRefs[r.Reference] = true
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) GetReservation(_ context.Context, id int64) (domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reservations {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Reservation{}, domain.ErrReservationNotFound
}

func (f *fakeStore) GetReservationForUpdate(ctx context.Context, id int64) (domain.Reservation, error) {
	return f.GetReservation(ctx, id)
}

func (f *fakeStore) ListByReference(_ context.Context, ref string, _ bool) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Reservation
	for _, r := range f.reservations {
		if r.Reference == ref {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, domain.ErrReferenceNotFound
	}
	return out, nil
}

func (f *fakeStore) UpdateReservation(_ context.Context, r domain.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.reservations {
		if f.reservations[i].ID == r.ID {
			f.reservations[i] = r
			return nil
		}
	}
	return domain.ErrReservationNotFound
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string][]domain.Reservation
	versions    map[string]int64
	hits        int
	invalidated []string
	// afterVersion runs once, outside the lock, right after Version.
	afterVersion func()
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries:  make(map[string][]domain.Reservation),
		versions: make(map[string]int64),
	}
}

func cacheKey(courtID int64, from, to time.Time) string {
	return fmt.Sprintf("%d:%s:%s", courtID, from.Format(domain.DateLayout), to.Format(domain.DateLayout))
}

func dateKey(courtID int64, d time.Time) string {
	return fmt.Sprintf("%d:%s", courtID, d.Format(domain.DateLayout))
}

func (c *fakeCache) Get(_ context.Context, courtID int64, from, to time.Time) ([]domain.Reservation, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows, ok := c.entries[cacheKey(courtID, from, to)]
	if ok {
		c.hits++
	}
	return rows, ok, nil
}

func (c *fakeCache) versionLocked(courtID int64, from, to time.Time) int64 {
	var sum int64
	for d := domain.DateOf(from); !d.After(domain.DateOf(to)); d = d.AddDate(0, 0, 1) {
		sum += c.versions[dateKey(courtID, d)]
	}
	return sum
}

func (c *fakeCache) Version(_ context.Context, courtID int64, from, to time.Time) (int64, error) {
	c.mu.Lock()
	v := c.versionLocked(courtID, from, to)
	hook := c.afterVersion
	c.afterVersion = nil
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, courtID int64, from, to time.Time, version int64, rows []domain.Reservation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versionLocked(courtID, from, to) != version {
		return nil
	}
	c.entries[cacheKey(courtID, from, to)] = rows
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, courtID int64, dates ...time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range dates {
		k := dateKey(courtID, domain.DateOf(d))
		c.invalidated = append(c.invalidated, k)
		c.versions[k]++
	}
	c.entries = make(map[string][]domain.Reservation)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.ReservationEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, e domain.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
