package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  *string `json:"description"`
	Image        *string `json:"image"`
	DisplayOrder int     `json:"displayOrder"`
}

type Variant struct {
	Name  string          `json:"name" yaml:"name"`
	Price decimal.Decimal `json:"price" yaml:"price"`
}

type Addon struct {
	Name  string          `json:"name" yaml:"name"`
	Price decimal.Decimal `json:"price" yaml:"price"`
}

type CategoryRef struct {
	Name string `json:"name" yaml:"name"`
	Slug string `json:"slug" yaml:"slug"`
}

type MenuItem struct {
	ID           int             `json:"id" yaml:"id"`
	CategoryID   int             `json:"-" yaml:"-"`
	Name         string          `json:"name" yaml:"name"`
	Slug         string          `json:"slug" yaml:"slug"`
	Description  string          `json:"description" yaml:"description"`
	Price        decimal.Decimal `json:"price" yaml:"price"`
	SpiceLevel   string          `json:"spiceLevel" yaml:"spice_level"`
	IsVeg        bool            `json:"isVeg" yaml:"is_veg"`
	Image        string          `json:"image" yaml:"image"`
	IsBestseller bool            `json:"isBestseller" yaml:"is_bestseller"`
	IsAvailable  bool            `json:"isAvailable" yaml:"is_available"`
	Variants     []Variant       `json:"variants" yaml:"variants"`
	Addons       []Addon         `json:"addons" yaml:"addons"`
	Category     CategoryRef     `json:"category" yaml:"category"`
}

// FindVariant looks a variant up by exact name.
func (m MenuItem) FindVariant(name string) (Variant, bool) {
	for _, v := range m.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

func (m MenuItem) FindAddon(name string) (Addon, bool) {
	for _, a := range m.Addons {
		if a.Name == name {
			return a, true
		}
	}
	return Addon{}, false
}

// MenuFilter holds the optional menu query parameters. A nil pointer means
// the filter is not applied. Unavailable items are left out unless
// IncludeUnavailable is set.
type MenuFilter struct {
	CategorySlug       string
	Search             string
	SpiceLevel         string
	IsVeg              *bool
	IncludeUnavailable bool
}

type Deal struct {
	ID            int             `json:"id" yaml:"id"`
	Title         string          `json:"title" yaml:"title"`
	Description   string          `json:"description" yaml:"description"`
	Items         []string        `json:"items" yaml:"items"`
	OriginalPrice decimal.Decimal `json:"originalPrice" yaml:"original_price"`
	DealPrice     decimal.Decimal `json:"dealPrice" yaml:"deal_price"`
	Savings       decimal.Decimal `json:"savings" yaml:"-"`
	Discount      int64           `json:"discount" yaml:"-"`
	ExpiresAt     *time.Time      `json:"expiresAt" yaml:"expires_at"`
	Image         string          `json:"image" yaml:"image"`
}

type OperatingHours struct {
	DayOfWeek int     `json:"-" yaml:"day_of_week"`
	Day       string  `json:"day" yaml:"-"`
	Open      *string `json:"open" yaml:"open"`
	Close     *string `json:"close" yaml:"close"`
	IsClosed  bool    `json:"isClosed" yaml:"is_closed"`
}

// HoursUpdate is one day in an admin hours update.
type HoursUpdate struct {
	DayOfWeek int    `json:"dayOfWeek"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
	IsClosed  bool   `json:"isClosed"`
}

type Testimonial struct {
	ID          int       `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Rating      int       `json:"rating" yaml:"rating"`
	Comment     string    `json:"comment" yaml:"comment"`
	Avatar      string    `json:"avatar" yaml:"avatar"`
	IsVerified  bool      `json:"isVerified" yaml:"is_verified"`
	IsPublished bool      `json:"-" yaml:"-"`
	Date        time.Time `json:"date" yaml:"date"`
}

type GalleryImage struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Image        string    `json:"image"`
	Tags         []string  `json:"tags"`
	AltText      string    `json:"alt_text"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

type DeliveryZone struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	Fee              decimal.Decimal `json:"fee"`
	MinOrder         decimal.Decimal `json:"min_order"`
	EstimatedMinutes *int            `json:"estimated_minutes"`
	IsActive         bool            `json:"is_active"`
}

// HomePage bundles the reads behind the landing page.
type HomePage struct {
	Highlights   []MenuItem       `json:"highlights"`
	Deal         *Deal            `json:"deal"`
	Testimonials []Testimonial    `json:"testimonials"`
	Hours        []OperatingHours `json:"hours"`
}
