// Package memory is an in-process store implementing every repository the
// services depend on. One mutex guards all state; a transaction holds it from
// begin to commit, so transactions are serializable. Methods that take a
// *sql.Tx must only be called inside InTx; they ignore the tx value.
package memory

import (
	"context"
	"database/sql"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Cheertaboi/restaurant-service/internal/models"
)

type deal struct {
	models.Deal
	active    bool
	createdAt time.Time
}

type state struct {
	categories   []models.Category
	items        []models.MenuItem
	deals        []deal
	hours        map[int]models.OperatingHours
	testimonials []models.Testimonial
	gallery      []models.GalleryImage
	zones        []models.DeliveryZone
	coupons      []models.Coupon
	redemptions  []models.CouponRedemption
	orders       []models.Order
	reservations []models.Reservation
	nextID       int64
}

func (s state) clone() state {
	c := s
	c.categories = slices.Clone(s.categories)
	c.items = slices.Clone(s.items)
	c.deals = slices.Clone(s.deals)
	c.hours = make(map[int]models.OperatingHours, len(s.hours))
	for k, v := range s.hours {
		c.hours[k] = v
	}
	c.testimonials = slices.Clone(s.testimonials)
	c.gallery = slices.Clone(s.gallery)
	c.zones = slices.Clone(s.zones)
	c.coupons = slices.Clone(s.coupons)
	c.redemptions = slices.Clone(s.redemptions)
	c.orders = slices.Clone(s.orders)
	c.reservations = slices.Clone(s.reservations)
	return c
}

type Store struct {
	mu    sync.Mutex
	now   func() time.Time
	state state
}

type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		now:   time.Now,
		state: state{hours: map[int]models.OperatingHours{}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) id() int64 {
	s.state.nextID++
	return s.state.nextID
}

// InTx runs fn with the store locked. State is restored if fn fails.
func (s *Store) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	saved := s.state.clone()
	if err := fn(nil); err != nil {
		s.state = saved
		return err
	}
	return nil
}

// Coupons

func (s *Store) AddCoupon(c models.Coupon) models.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = int(s.id())
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.state.coupons = append(s.state.coupons, c)
	return c
}

// Coupon returns the stored coupon with code regardless of eligibility.
func (s *Store) Coupon(code string) (models.Coupon, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.state.coupons {
		if c.Code == code {
			return c, true
		}
	}
	return models.Coupon{}, false
}

func (s *Store) GetEligibleCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for _, c := range s.state.coupons {
		if c.Code == code && c.Eligible(now) {
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Store) ConsumeCoupon(ctx context.Context, _ *sql.Tx, code string) (*models.Coupon, error) {
	now := s.now()
	for i := range s.state.coupons {
		c := &s.state.coupons[i]
		if c.Code == code && c.Eligible(now) {
			c.UsedCount++
			out := *c
			return &out, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.state.coupons {
		if existing.Code == c.Code {
			return models.ErrDuplicate
		}
	}
	c.ID = int(s.id())
	c.UsedCount = 0
	c.CreatedAt = s.now()
	s.state.coupons = append(s.state.coupons, *c)
	return nil
}

func (s *Store) RecordRedemption(ctx context.Context, _ *sql.Tx, r models.CouponRedemption) error {
	s.state.redemptions = append(s.state.redemptions, r)
	return nil
}

func (s *Store) Redemptions() []models.CouponRedemption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.redemptions)
}

// Orders

func (s *Store) InsertOrder(ctx context.Context, _ *sql.Tx, o *models.Order) (bool, error) {
	for _, existing := range s.state.orders {
		if existing.OrderNumber == o.OrderNumber {
			return false, nil
		}
	}
	o.ID = s.id()
	o.CreatedAt = s.now()
	o.Items = slices.Clone(o.Items)
	s.state.orders = append(s.state.orders, *o)
	return true, nil
}

func (s *Store) ListOrders(ctx context.Context, f models.OrderFilter) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Order{}
	for _, o := range s.state.orders {
		if f.Phone != "" && o.CustomerPhone != f.Phone {
			continue
		}
		if f.OrderNumber != "" && o.OrderNumber != f.OrderNumber {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) HasCompletedOrder(ctx context.Context, email, orderNumber string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.state.orders {
		if o.CustomerEmail == email && o.OrderNumber == orderNumber && o.PaymentStatus == models.PaymentCompleted {
			return true, nil
		}
	}
	return false, nil
}

// MarkPaid sets an order's payment status to completed.
func (s *Store) MarkPaid(orderNumber string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.orders {
		if s.state.orders[i].OrderNumber == orderNumber {
			s.state.orders[i].PaymentStatus = models.PaymentCompleted
			return true
		}
	}
	return false
}

// Reservations

func (s *Store) LockSlot(ctx context.Context, _ *sql.Tx, date, slot string) error {
	return nil
}

func (s *Store) CountActive(ctx context.Context, _ *sql.Tx, date, slot string) (int, error) {
	n := 0
	for _, r := range s.state.reservations {
		if r.ReservationDate == date && r.ReservationTime == slot && r.Status != models.ReservationCancelled {
			n++
		}
	}
	return n, nil
}

func (s *Store) InsertReservation(ctx context.Context, _ *sql.Tx, r *models.Reservation) (bool, error) {
	for _, existing := range s.state.reservations {
		if existing.ReservationNumber == r.ReservationNumber {
			return false, nil
		}
	}
	r.ID = s.id()
	r.CreatedAt = s.now()
	s.state.reservations = append(s.state.reservations, *r)
	return true, nil
}

func (s *Store) ListReservations(ctx context.Context, f models.ReservationFilter) ([]models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Reservation{}
	for _, r := range s.state.reservations {
		if f.Phone != "" && r.CustomerPhone != f.Phone {
			continue
		}
		if f.Date != "" && r.ReservationDate != f.Date {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ReservationDate != out[j].ReservationDate {
			return out[i].ReservationDate > out[j].ReservationDate
		}
		return out[i].ReservationTime > out[j].ReservationTime
	})
	return out, nil
}

func (s *Store) CancelReservation(ctx context.Context, number string) (*models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.reservations {
		if s.state.reservations[i].ReservationNumber == number {
			s.state.reservations[i].Status = models.ReservationCancelled
			out := s.state.reservations[i]
			return &out, nil
		}
	}
	return nil, nil
}

// Catalog

func (s *Store) AddCategory(c models.Category) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = int(s.id())
	s.state.categories = append(s.state.categories, c)
	return c
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.state.categories)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].Name < out[j].Name
	})
	if out == nil {
		out = []models.Category{}
	}
	return out, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.state.categories {
		if existing.Slug == c.Slug {
			return models.ErrDuplicate
		}
	}
	c.ID = int(s.id())
	s.state.categories = append(s.state.categories, *c)
	return nil
}

func (s *Store) category(id int) (models.Category, bool) {
	for _, c := range s.state.categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

// AddMenuItem stores m under its CategoryID, which must already exist.
func (s *Store) AddMenuItem(m models.MenuItem) models.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.category(m.CategoryID); ok {
		m.Category = models.CategoryRef{Name: c.Name, Slug: c.Slug}
	}
	m.ID = int(s.id())
	s.state.items = append(s.state.items, m)
	return m
}

func (s *Store) CreateMenuItem(ctx context.Context, m *models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.state.items {
		if existing.Slug == m.Slug {
			return models.ErrDuplicate
		}
	}
	c, ok := s.category(m.CategoryID)
	if !ok {
		return models.ErrNotFound
	}
	m.Category = models.CategoryRef{Name: c.Name, Slug: c.Slug}
	m.ID = int(s.id())
	s.state.items = append(s.state.items, *m)
	return nil
}

func (s *Store) ListMenuItems(ctx context.Context, f models.MenuFilter) ([]models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	search := strings.ToLower(f.Search)
	out := []models.MenuItem{}
	for _, m := range s.state.items {
		if !f.IncludeUnavailable && !m.IsAvailable {
			continue
		}
		if f.CategorySlug != "" && m.Category.Slug != f.CategorySlug {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(m.Name), search) &&
			!strings.Contains(strings.ToLower(m.Description), search) {
			continue
		}
		if f.SpiceLevel != "" && m.SpiceLevel != f.SpiceLevel {
			continue
		}
		if f.IsVeg != nil && m.IsVeg != *f.IsVeg {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsBestseller != out[j].IsBestseller {
			return out[i].IsBestseller
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) ListHighlights(ctx context.Context, limit int) ([]models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.MenuItem{}
	for _, m := range s.state.items {
		if m.IsBestseller && m.IsAvailable {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) GetPricing(ctx context.Context, ids []int) (map[int]models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]models.MenuItem, len(ids))
	for _, m := range s.state.items {
		if slices.Contains(ids, m.ID) {
			out[m.ID] = m
		}
	}
	return out, nil
}

// AddDeal stores an active deal created now.
func (s *Store) AddDeal(d models.Deal) models.Deal {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = int(s.id())
	s.state.deals = append(s.state.deals, deal{Deal: d, active: true, createdAt: s.now()})
	return d
}

func (s *Store) TodayDeal(ctx context.Context) (*models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var best *deal
	for i := range s.state.deals {
		d := &s.state.deals[i]
		if !d.active || (d.ExpiresAt != nil && !d.ExpiresAt.After(now)) {
			continue
		}
		if best == nil || !d.createdAt.Before(best.createdAt) {
			best = d
		}
	}
	if best == nil {
		return nil, nil
	}
	out := best.Deal
	return &out, nil
}

func (s *Store) ListHours(ctx context.Context) ([]models.OperatingHours, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.OperatingHours{}
	for day := 0; day < 7; day++ {
		if h, ok := s.state.hours[day]; ok {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *Store) UpdateHours(ctx context.Context, _ *sql.Tx, h models.HoursUpdate) error {
	row := models.OperatingHours{DayOfWeek: h.DayOfWeek, IsClosed: h.IsClosed}
	if !h.IsClosed {
		openAt, closeAt := h.OpenTime, h.CloseTime
		row.Open, row.Close = &openAt, &closeAt
	}
	s.state.hours[h.DayOfWeek] = row
	return nil
}

// AddTestimonial stores t as given, including its published flag.
func (s *Store) AddTestimonial(t models.Testimonial) models.Testimonial {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = int(s.id())
	if t.Date.IsZero() {
		t.Date = s.now()
	}
	s.state.testimonials = append(s.state.testimonials, t)
	return t
}

func (s *Store) ListTestimonials(ctx context.Context, limit int) ([]models.Testimonial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Testimonial{}
	for _, t := range s.state.testimonials {
		if t.IsPublished {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsVerified != out[j].IsVerified {
			return out[i].IsVerified
		}
		return out[i].Date.After(out[j].Date)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CreateTestimonial(ctx context.Context, t *models.Testimonial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = int(s.id())
	t.Date = s.now()
	s.state.testimonials = append(s.state.testimonials, *t)
	return nil
}

func (s *Store) AddGalleryImage(img models.GalleryImage) models.GalleryImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	img.ID = int(s.id())
	if img.CreatedAt.IsZero() {
		img.CreatedAt = s.now()
	}
	s.state.gallery = append(s.state.gallery, img)
	return img
}

func (s *Store) ListGallery(ctx context.Context, tag string) ([]models.GalleryImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.GalleryImage{}
	for _, img := range s.state.gallery {
		if tag != "" && !slices.Contains(img.Tags, tag) {
			continue
		}
		out = append(out, img)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) AddDeliveryZone(z models.DeliveryZone) models.DeliveryZone {
	s.mu.Lock()
	defer s.mu.Unlock()
	z.ID = int(s.id())
	s.state.zones = append(s.state.zones, z)
	return z
}

func (s *Store) ListDeliveryZones(ctx context.Context) ([]models.DeliveryZone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.DeliveryZone{}
	for _, z := range s.state.zones {
		if z.IsActive {
			out = append(out, z)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fee.LessThan(out[j].Fee) })
	return out, nil
}

func (s *Store) GetDeliveryZone(ctx context.Context, id int) (*models.DeliveryZone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, z := range s.state.zones {
		if z.ID == id && z.IsActive {
			return &z, nil
		}
	}
	return nil, nil
}
