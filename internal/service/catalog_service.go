package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/Cheertaboi/restaurant-service/internal/cache"
	"github.com/Cheertaboi/restaurant-service/internal/concurrency"
	"github.com/Cheertaboi/restaurant-service/internal/config"
	"github.com/Cheertaboi/restaurant-service/internal/logger"
	"github.com/Cheertaboi/restaurant-service/internal/models"
)

const (
	highlightsLimit   = 8
	testimonialsLimit = 10

	categoriesKey = "categories"
	hoursKey      = "hours"
)

var spiceLevels = []string{"none", "mild", "medium", "hot"}

type CatalogService struct {
	tx       Transactor
	repo     CatalogRepo
	orders   OrderRepo
	cache    *cache.CatalogCache
	fixtures *config.Fixtures
	timeout  time.Duration
	log      *slog.Logger
}

func NewCatalogService(tx Transactor, repo CatalogRepo, orders OrderRepo, c *cache.CatalogCache, fixtures *config.Fixtures, timeout time.Duration, log *slog.Logger) *CatalogService {
	if fixtures == nil {
		fixtures = config.DefaultFixtures()
	}
	return &CatalogService{
		tx:       tx,
		repo:     repo,
		orders:   orders,
		cache:    c,
		fixtures: fixtures,
		timeout:  timeout,
		log:      log,
	}
}

// fallback logs a store failure that is being papered over with fixtures.
func (s *CatalogService) fallback(ctx context.Context, what string, err error) {
	logger.FromContext(ctx, s.log).Warn("serving fallback content",
		slog.String("content", what),
		slog.Any("error", err),
	)
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := cache.GetOrLoad(s.cache, categoriesKey, func() ([]models.Category, error) {
		return s.repo.ListCategories(ctx)
	})
	if err != nil {
		return nil, fail(ctx, s.log, "category_list", "Failed to fetch categories", err)
	}
	return out, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, c *models.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Slug = strings.TrimSpace(c.Slug)
	if c.Name == "" || c.Slug == "" {
		return validationf("Name and slug are required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repo.CreateCategory(ctx, c); err != nil {
		classified := fail(ctx, s.log, "category_create", "Failed to create category", err)
		if se, ok := classified.(*Error); ok && se.Code == CodeDuplicate {
			se.Message = "Category with this slug already exists"
		}
		return classified
	}
	s.cache.Invalidate(categoriesKey)
	return nil
}

func (s *CatalogService) withDefaultImage(m models.MenuItem) models.MenuItem {
	if m.Image == "" {
		m.Image = s.fixtures.DefaultImages.CategoryImage(m.Category.Slug)
	}
	if m.Variants == nil {
		m.Variants = []models.Variant{}
	}
	if m.Addons == nil {
		m.Addons = []models.Addon{}
	}
	return m
}

func (s *CatalogService) Menu(ctx context.Context, f models.MenuFilter) ([]models.MenuItem, error) {
	f.Search = strings.TrimSpace(f.Search)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, err := s.repo.ListMenuItems(ctx, f)
	if err != nil {
		return nil, fail(ctx, s.log, "menu_list", "Failed to fetch menu items", err)
	}
	for i := range items {
		items[i] = s.withDefaultImage(items[i])
	}
	return items, nil
}

func (s *CatalogService) CreateMenuItem(ctx context.Context, m *models.MenuItem) error {
	m.Name = strings.TrimSpace(m.Name)
	m.Slug = strings.TrimSpace(m.Slug)
	switch {
	case m.Name == "" || m.Slug == "" || m.CategoryID == 0:
		return validationf("Name, slug, category and price are required")
	case !m.Price.IsPositive():
		return validationf("Price must be greater than zero")
	}
	if m.SpiceLevel == "" {
		m.SpiceLevel = "none"
	}
	if !slices.Contains(spiceLevels, m.SpiceLevel) {
		return validationf("Spice level must be one of %s", strings.Join(spiceLevels, ", "))
	}
	for _, v := range m.Variants {
		if v.Name == "" || v.Price.IsNegative() {
			return validationf("Every variant needs a name and a non-negative price")
		}
	}
	for _, a := range m.Addons {
		if a.Name == "" || a.Price.IsNegative() {
			return validationf("Every add-on needs a name and a non-negative price")
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repo.CreateMenuItem(ctx, m); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return &Error{Kind: KindValidation, Code: CodeNotFound, Message: "Category not found", Err: err}
		}
		classified := fail(ctx, s.log, "menu_create", "Failed to create menu item", err)
		if se, ok := classified.(*Error); ok && se.Code == CodeDuplicate {
			se.Message = "Menu item with this slug already exists"
		}
		return classified
	}
	*m = s.withDefaultImage(*m)
	return nil
}

// Highlights returns up to eight bestsellers, or the fallback set when the
// store has none or cannot be reached.
func (s *CatalogService) Highlights(ctx context.Context) ([]models.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, err := s.repo.ListHighlights(ctx, highlightsLimit)
	if err != nil {
		s.fallback(ctx, "highlights", err)
	}
	if err != nil || len(items) == 0 {
		items = slices.Clone(s.fixtures.Highlights)
	}
	for i := range items {
		if items[i].Image == "" {
			items[i].Image = s.fixtures.DefaultImages.Highlight
		}
		items[i] = s.withDefaultImage(items[i])
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	return items, nil
}

// dealSavings fills the derived savings and whole-percent discount.
func dealSavings(d models.Deal) models.Deal {
	d.Savings = d.OriginalPrice.Sub(d.DealPrice)
	if d.OriginalPrice.IsPositive() {
		d.Discount = d.Savings.Mul(hundred).Div(d.OriginalPrice).Round(0).IntPart()
	}
	return d
}

// TodayDeal returns the newest active deal. A nil deal with a nil error
// means there is nothing to show.
func (s *CatalogService) TodayDeal(ctx context.Context) (*models.Deal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	d, err := s.repo.TodayDeal(ctx)
	if err != nil {
		s.fallback(ctx, "deal", err)
	}
	if err != nil || d == nil {
		if s.fixtures.Deal == nil {
			return nil, nil
		}
		fd := *s.fixtures.Deal
		d = &fd
	}

	out := dealSavings(*d)
	if out.Items == nil {
		out.Items = []string{}
	}
	if out.Image == "" {
		out.Image = s.fixtures.DefaultImages.Deal
	}
	return &out, nil
}

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func (s *CatalogService) Hours(ctx context.Context) ([]models.OperatingHours, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	hours, err := cache.GetOrLoad(s.cache, hoursKey, func() ([]models.OperatingHours, error) {
		return s.repo.ListHours(ctx)
	})
	if err != nil {
		s.fallback(ctx, "hours", err)
	}
	if err != nil || len(hours) == 0 {
		hours = s.fixtures.Hours
	}

	out := make([]models.OperatingHours, 0, len(hours))
	for _, h := range hours {
		if h.DayOfWeek >= 0 && h.DayOfWeek < len(dayNames) {
			h.Day = dayNames[h.DayOfWeek]
		}
		if h.IsClosed {
			h.Open, h.Close = nil, nil
		}
		out = append(out, h)
	}
	return out, nil
}

// UpdateHours replaces the listed days in one transaction.
func (s *CatalogService) UpdateHours(ctx context.Context, updates []models.HoursUpdate) error {
	if len(updates) == 0 {
		return validationf("Hours array is required")
	}
	for _, h := range updates {
		if h.DayOfWeek < 0 || h.DayOfWeek > 6 {
			return validationf("Day of week must be between 0 and 6")
		}
		if h.IsClosed {
			continue
		}
		if _, err := time.Parse("15:04", h.OpenTime); err != nil {
			return validationf("Open time for %s must be HH:MM", dayNames[h.DayOfWeek])
		}
		if _, err := time.Parse("15:04", h.CloseTime); err != nil {
			return validationf("Close time for %s must be HH:MM", dayNames[h.DayOfWeek])
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
		for _, h := range updates {
			if err := s.repo.UpdateHours(ctx, tx, h); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fail(ctx, s.log, "hours_update", "Failed to update hours", err)
	}
	s.cache.Invalidate(hoursKey)
	return nil
}

// Testimonials returns up to ten published testimonials, verified first.
func (s *CatalogService) Testimonials(ctx context.Context) ([]models.Testimonial, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.repo.ListTestimonials(ctx, testimonialsLimit)
	if err != nil {
		s.fallback(ctx, "testimonials", err)
	}
	if err != nil || len(out) == 0 {
		out = slices.Clone(s.fixtures.Testimonials)
	}
	for i := range out {
		if out[i].Avatar == "" {
			out[i].Avatar = s.fixtures.DefaultImages.Avatar
		}
	}
	if out == nil {
		out = []models.Testimonial{}
	}
	return out, nil
}

// TestimonialInput is a customer review submission. Email and order number
// are only used to mark the review as verified.
type TestimonialInput struct {
	Name          string
	Rating        int
	Comment       string
	CustomerEmail string
	OrderNumber   string
}

// SubmitTestimonial stores a review for moderation. It is never published
// directly.
func (s *CatalogService) SubmitTestimonial(ctx context.Context, in TestimonialInput) (*models.Testimonial, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Comment = strings.TrimSpace(in.Comment)
	if in.Name == "" || in.Comment == "" || in.Rating == 0 {
		return nil, validationf("Name, rating and comment are required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, validationf("Rating must be between 1 and 5")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	verified := false
	email, number := strings.TrimSpace(in.CustomerEmail), strings.TrimSpace(in.OrderNumber)
	if email != "" && number != "" {
		ok, err := s.orders.HasCompletedOrder(ctx, email, number)
		if err != nil {
			return nil, fail(ctx, s.log, "testimonial_verify", "Failed to submit testimonial", err)
		}
		verified = ok
	}

	t := &models.Testimonial{
		Name:       in.Name,
		Rating:     in.Rating,
		Comment:    in.Comment,
		IsVerified: verified,
	}
	if err := s.repo.CreateTestimonial(ctx, t); err != nil {
		return nil, fail(ctx, s.log, "testimonial_create", "Failed to submit testimonial", err)
	}
	return t, nil
}

func (s *CatalogService) Gallery(ctx context.Context, tag string) ([]models.GalleryImage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.repo.ListGallery(ctx, strings.TrimSpace(tag))
	if err != nil {
		return nil, fail(ctx, s.log, "gallery_list", "Failed to fetch gallery", err)
	}
	return out, nil
}

func (s *CatalogService) DeliveryZones(ctx context.Context) ([]models.DeliveryZone, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.repo.ListDeliveryZones(ctx)
	if err != nil {
		return nil, fail(ctx, s.log, "zone_list", "Failed to fetch delivery zones", err)
	}
	return out, nil
}

// Home loads the landing page sections concurrently.
func (s *CatalogService) Home(ctx context.Context) (*models.HomePage, error) {
	page := &models.HomePage{}
	err := concurrency.FanOut(ctx, 4,
		func(ctx context.Context) (err error) {
			page.Highlights, err = s.Highlights(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			page.Deal, err = s.TodayDeal(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			page.Testimonials, err = s.Testimonials(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			page.Hours, err = s.Hours(ctx)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return page, nil
}

