package handlers

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/restaurant-service/internal/models"
	"github.com/Cheertaboi/restaurant-service/internal/service"
)

type CreateCategoryRequest struct {
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  *string `json:"description"`
	Image        *string `json:"image"`
	DisplayOrder int     `json:"displayOrder"`
}

type CreateMenuItemRequest struct {
	CategoryID   int              `json:"categoryId"`
	Name         string           `json:"name"`
	Slug         string           `json:"slug"`
	Description  string           `json:"description"`
	Price        decimal.Decimal  `json:"price"`
	SpiceLevel   string           `json:"spiceLevel"`
	IsVeg        bool             `json:"isVeg"`
	Image        string           `json:"image"`
	IsBestseller bool             `json:"isBestseller"`
	IsAvailable  *bool            `json:"isAvailable"`
	Variants     []models.Variant `json:"variants"`
	Addons       []models.Addon   `json:"addons"`
}

type UpdateHoursRequest struct {
	Hours []models.HoursUpdate `json:"hours"`
}

type CreateTestimonialRequest struct {
	Name          string `json:"name"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	CustomerEmail string `json:"customerEmail"`
	OrderNumber   string `json:"orderNumber"`
}

type CatalogHandler struct {
	service *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// ListCategories handles GET /categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Categories(r.Context())
	if err != nil {
		writeBareError(w, err)
		return
	}
	cacheFor(w, 3600, 7200)
	writeJSON(w, http.StatusOK, out)
}

// CreateCategory handles POST /categories
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBareError(w, err)
		return
	}

	c := &models.Category{
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		Image:        req.Image,
		DisplayOrder: req.DisplayOrder,
	}
	if err := h.service.CreateCategory(r.Context(), c); err != nil {
		writeBareError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Category created successfully",
		"category": c,
	})
}

// ListMenu handles GET /menu?category=&search=&spiceLevel=&isVeg=&available=
func (h *CatalogHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.MenuFilter{
		CategorySlug: q.Get("category"),
		Search:       q.Get("search"),
		SpiceLevel:   q.Get("spiceLevel"),
	}
	if v := q.Get("isVeg"); v != "" {
		isVeg, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "isVeg must be true or false"})
			return
		}
		f.IsVeg = &isVeg
	}
	if v := q.Get("available"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "available must be true or false"})
			return
		}
		f.IncludeUnavailable = !available
	}

	out, err := h.service.Menu(r.Context(), f)
	if err != nil {
		writeBareError(w, err)
		return
	}
	cacheFor(w, 300, 600)
	writeJSON(w, http.StatusOK, out)
}

// CreateMenuItem handles POST /menu
func (h *CatalogHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req CreateMenuItemRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBareError(w, err)
		return
	}

	m := &models.MenuItem{
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		Price:        req.Price,
		SpiceLevel:   req.SpiceLevel,
		IsVeg:        req.IsVeg,
		Image:        req.Image,
		IsBestseller: req.IsBestseller,
		IsAvailable:  true,
		Variants:     req.Variants,
		Addons:       req.Addons,
	}
	if req.IsAvailable != nil {
		m.IsAvailable = *req.IsAvailable
	}

	if err := h.service.CreateMenuItem(r.Context(), m); err != nil {
		writeBareError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Menu item created successfully",
		"item":    m,
	})
}

// Highlights handles GET /menu/highlights
func (h *CatalogHandler) Highlights(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Highlights(r.Context())
	if err != nil {
		writeBareError(w, err)
		return
	}
	cacheFor(w, 300, 600)
	writeJSON(w, http.StatusOK, out)
}

// TodayDeal handles GET /deals/today. The body is null when there is no deal.
func (h *CatalogHandler) TodayDeal(w http.ResponseWriter, r *http.Request) {
	deal, err := h.service.TodayDeal(r.Context())
	if err != nil {
		writeBareError(w, err)
		return
	}
	if deal == nil {
		cacheFor(w, 300, 600)
		writeJSON(w, http.StatusOK, nil)
		return
	}
	cacheFor(w, 120, 300)
	writeJSON(w, http.StatusOK, deal)
}

// Hours handles GET /hours
func (h *CatalogHandler) Hours(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Hours(r.Context())
	if err != nil {
		writeBareError(w, err)
		return
	}
	cacheFor(w, 3600, 7200)
	writeJSON(w, http.StatusOK, out)
}

// UpdateHours handles PUT /hours
func (h *CatalogHandler) UpdateHours(w http.ResponseWriter, r *http.Request) {
	var req UpdateHoursRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBareError(w, err)
		return
	}
	if err := h.service.UpdateHours(r.Context(), req.Hours); err != nil {
		writeBareError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hours updated successfully"})
}

// Testimonials handles GET /testimonials
func (h *CatalogHandler) Testimonials(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Testimonials(r.Context())
	if err != nil {
		writeBareError(w, err)
		return
	}
	cacheFor(w, 600, 1200)
	writeJSON(w, http.StatusOK, out)
}

// CreateTestimonial handles POST /testimonials
func (h *CatalogHandler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req CreateTestimonialRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBareError(w, err)
		return
	}

	t, err := h.service.SubmitTestimonial(r.Context(), service.TestimonialInput{
		Name:          req.Name,
		Rating:        req.Rating,
		Comment:       req.Comment,
		CustomerEmail: req.CustomerEmail,
		OrderNumber:   req.OrderNumber,
	})
	if err != nil {
		writeBareError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "Thank you for your feedback! Your review will be published after moderation.",
		"testimonial": t,
	})
}

// Gallery handles GET /gallery?tag=
func (h *CatalogHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Gallery(r.Context(), r.URL.Query().Get("tag"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, out, "")
}

// DeliveryZones handles GET /delivery-zones
func (h *CatalogHandler) DeliveryZones(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.DeliveryZones(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, out, "")
}

// Home handles GET /home
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Home(r.Context())
	if err != nil {
		writeBareError(w, err)
		return
	}
	cacheFor(w, 120, 300)
	writeJSON(w, http.StatusOK, page)
}
