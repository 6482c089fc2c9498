package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Cheertaboi/restaurant-service/internal/models"
)

// Fixtures is fallback catalog content served when the store is empty or
// unreachable, plus the default images used when a row has none.
type Fixtures struct {
	Highlights    []models.MenuItem       `yaml:"highlights"`
	Deal          *models.Deal            `yaml:"deal"`
	Testimonials  []models.Testimonial    `yaml:"testimonials"`
	Hours         []models.OperatingHours `yaml:"hours"`
	DefaultImages DefaultImages           `yaml:"default_images"`
}

type DefaultImages struct {
	// ByCategory maps a category slug to an image; the "default" key is used
	// for slugs that are not listed.
	ByCategory map[string]string `yaml:"by_category"`
	Highlight  string            `yaml:"highlight"`
	Deal       string            `yaml:"deal"`
	Avatar     string            `yaml:"avatar"`
}

// CategoryImage returns the default image for a category slug.
func (d DefaultImages) CategoryImage(slug string) string {
	if img, ok := d.ByCategory[slug]; ok {
		return img
	}
	return d.ByCategory["default"]
}

// LoadFixtures reads fixtures from path, or returns the built-in set when
// path is empty. Missing default images are filled from the built-in set.
func LoadFixtures(path string) (*Fixtures, error) {
	if path == "" {
		return DefaultFixtures(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures file: %w", err)
	}
	f := &Fixtures{}
	if err := yaml.Unmarshal(content, f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures file: %w", err)
	}

	builtin := DefaultFixtures().DefaultImages
	if len(f.DefaultImages.ByCategory) == 0 {
		f.DefaultImages.ByCategory = builtin.ByCategory
	}
	if f.DefaultImages.Highlight == "" {
		f.DefaultImages.Highlight = builtin.Highlight
	}
	if f.DefaultImages.Deal == "" {
		f.DefaultImages.Deal = builtin.Deal
	}
	if f.DefaultImages.Avatar == "" {
		f.DefaultImages.Avatar = builtin.Avatar
	}
	return f, nil
}

func unsplash(photo string, width int) string {
	return fmt.Sprintf("https://images.unsplash.com/%s?auto=format&fit=crop&w=%d&q=80", photo, width)
}

func strPtr(s string) *string { return &s }

func DefaultFixtures() *Fixtures {
	karahi := unsplash("photo-1565557623262-b51c2513a641", 400)
	grill := unsplash("photo-1599487488170-d11ec9c172f0", 400)
	burger := unsplash("photo-1568901346375-23c9450c58cd", 400)
	charga := unsplash("photo-1562967916-eb82221dfb92", 400)

	hours := make([]models.OperatingHours, 0, 7)
	for day := 0; day < 7; day++ {
		closing := "23:00"
		if day == 5 || day == 6 {
			closing = "00:00"
		}
		hours = append(hours, models.OperatingHours{
			DayOfWeek: day,
			Open:      strPtr("12:00"),
			Close:     strPtr(closing),
		})
	}

	return &Fixtures{
		Highlights: []models.MenuItem{
			{
				ID: 1, Name: "Chicken Karahi", Price: decimal.NewFromInt(1190), SpiceLevel: "medium",
				Description:  "Traditional chicken karahi cooked with tomatoes, ginger, and green chilies",
				IsBestseller: true, IsAvailable: true, Image: karahi,
			},
			{
				ID: 2, Name: "Malai Boti", Price: decimal.NewFromInt(990), SpiceLevel: "mild",
				Description:  "Creamy marinated tender chicken pieces grilled to perfection",
				IsBestseller: true, IsAvailable: true, Image: grill,
			},
			{
				ID: 3, Name: "Zinger Burger", Price: decimal.NewFromInt(590), SpiceLevel: "mild",
				Description: "Crispy chicken fillet with mayo and fresh vegetables in a soft bun",
				IsAvailable: true, Image: burger,
			},
			{
				ID: 4, Name: "Charga", Price: decimal.NewFromInt(1990), SpiceLevel: "medium",
				Description:  "Deep-fried whole chicken with special spices, serves 2-3 people",
				IsBestseller: true, IsAvailable: true, Image: charga,
			},
		},
		Deal: &models.Deal{
			ID:            1,
			Title:         "Family Feast Special",
			Description:   "Complete family dinner for 4 people",
			Items:         []string{"Chicken Karahi Full", "4 Naan", "Salad", "2 Drinks"},
			OriginalPrice: decimal.NewFromInt(2800),
			DealPrice:     decimal.NewFromInt(2399),
		},
		Testimonials: []models.Testimonial{
			{
				ID: 1, Name: "Ayesha Khan", Rating: 5, IsVerified: true,
				Comment: "Best karahi in town! The family seating is super comfortable and the food quality is exceptional.",
				Avatar:  unsplash("photo-1494790108755-2616b612b1d1", 150),
			},
			{
				ID: 2, Name: "Hassan Ali", Rating: 5, IsVerified: true,
				Comment: "Crispy zinger and quick delivery. The taste is amazing and portion sizes are generous.",
				Avatar:  unsplash("photo-1472099645785-5658abf4ff4e", 150),
			},
			{
				ID: 3, Name: "Fatima Ahmed", Rating: 5, IsVerified: true,
				Comment: "Authentic Desi flavors with modern presentation. The karahi was perfectly spiced and the naan was fresh and warm.",
				Avatar:  unsplash("photo-1438761681033-6461ffad8d80", 150),
			},
		},
		Hours: hours,
		DefaultImages: DefaultImages{
			ByCategory: map[string]string{
				"default":   karahi,
				"desi":      karahi,
				"karahi":    karahi,
				"bbq":       grill,
				"tikka":     grill,
				"boti":      grill,
				"charga":    charga,
				"fast-food": burger,
				"burgers":   burger,
				"sides":     unsplash("photo-1518779578993-ec3579fee39f", 400),
				"drinks":    unsplash("photo-1541807084-5c52b6b3adef", 400),
				"desserts":  unsplash("photo-1551024601-bec78aea704b", 400),
			},
			Highlight: unsplash("photo-1565299624946-b28f40a0ca4b", 400),
			Deal:      unsplash("photo-1546833999-b9f581a1996d", 600),
			Avatar:    unsplash("photo-1494790108755-2616b612b1d1", 150),
		},
	}
}
