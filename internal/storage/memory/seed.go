package memory

import (
	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/restaurant-service/internal/config"
	"github.com/Cheertaboi/restaurant-service/internal/models"
)

// Seed loads fixture content so a store started with driver "memory" serves
// a usable demo menu: one category holding the fixture highlights, the
// fixture deal, published testimonials, hours and one delivery zone.
func (s *Store) Seed(f *config.Fixtures) {
	desi := s.AddCategory(models.Category{Name: "Desi", Slug: "desi", DisplayOrder: 1})

	for _, item := range f.Highlights {
		item.CategoryID = desi.ID
		if item.Slug == "" {
			item.Slug = slugify(item.Name)
		}
		s.AddMenuItem(item)
	}
	if f.Deal != nil {
		s.AddDeal(*f.Deal)
	}
	for _, t := range f.Testimonials {
		t.IsPublished = true
		s.AddTestimonial(t)
	}

	s.mu.Lock()
	for _, h := range f.Hours {
		s.state.hours[h.DayOfWeek] = h
	}
	s.mu.Unlock()

	minutes := 30
	s.AddDeliveryZone(models.DeliveryZone{
		Name:             "City Centre",
		Fee:              decimal.NewFromInt(150),
		MinOrder:         decimal.NewFromInt(500),
		EstimatedMinutes: &minutes,
		IsActive:         true,
	})
}

func slugify(name string) string {
	out := make([]rune, 0, len(name))
	dash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
			dash = false
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
			dash = false
		default:
			if !dash && len(out) > 0 {
				out = append(out, '-')
				dash = true
			}
		}
	}
	if dash {
		out = out[:len(out)-1]
	}
	return string(out)
}
