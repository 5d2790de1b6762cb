package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inventory/internal/middleware"
	"inventory/internal/models"
	"inventory/internal/repository"
	"inventory/internal/service"
	"inventory/internal/upload"
)

// ProductForm son los valores iniciales del formulario de alta y edición
type ProductForm struct {
	ID          string
	Title       string
	Slug        string
	Description string
	Selling     string
	Original    string
	Images      []string
	Category    string
	Stock       int
	Status      string
	Notes       string
	Deleted     bool
}

// NewProductForm prepara el formulario; nil da un formulario vacío con defaults
func NewProductForm(p *models.Product) ProductForm {
	if p == nil {
		return ProductForm{
			Images:   []string{},
			Category: models.DefaultCategory,
			Status:   models.StatusDraft,
		}
	}

	form := ProductForm{
		ID:          p.ID.Hex(),
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Selling:     strconv.FormatFloat(p.Price.Selling, 'f', -1, 64),
		Images:      p.Images,
		Category:    p.CategoryOrDefault(),
		Stock:       p.Stock,
		Status:      p.Status,
		Notes:       p.Notes,
		Deleted:     p.IsDeleted(),
	}
	if p.Price.Original != nil {
		form.Original = strconv.FormatFloat(*p.Price.Original, 'f', -1, 64)
	}
	if form.Images == nil {
		form.Images = []string{}
	}
	if form.Status == "" {
		form.Status = models.StatusDraft
	}
	return form
}

type Options struct {
	SiteURL        string
	DashboardLimit int
}

type Handler struct {
	service *service.ProductService
	uploads *upload.Client
	opts    Options
	logger  *zap.Logger
}

func NewHandler(svc *service.ProductService, uploads *upload.Client, opts Options, logger *zap.Logger) *Handler {
	if opts.DashboardLimit < 1 {
		opts.DashboardLimit = service.MaxLimit
	}
	return &Handler{
		service: svc,
		uploads: uploads,
		opts:    opts,
		logger:  logger,
	}
}

// Login muestra el formulario de PIN
func (h *Handler) Login(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title":    "Staff Login",
		"SiteURL":  h.opts.SiteURL,
		"Redirect": SafeRedirect(c.Query("redirect")),
	})
}

// Dashboard lista los productos agrupados por categoría
func (h *Handler) Dashboard(c *gin.Context) {
	search := c.Query("search")
	result, err := h.service.List(c.Request.Context(), models.ListQuery{
		Page:   1,
		Limit:  h.opts.DashboardLimit,
		Search: search,
	})
	if err != nil {
		h.renderError(c, err, "Failed to load products")
		return
	}

	groups := GroupByCategory(result.Data)
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Title":      "Inventory",
		"SiteURL":    h.opts.SiteURL,
		"Search":     search,
		"Groups":     groups,
		"Categories": CategoryNames(groups),
		"Total":      result.Meta.Total,
		"Shown":      len(result.Data),
	})
}

// NewProduct muestra el formulario vacío
func (h *Handler) NewProduct(c *gin.Context) {
	h.renderForm(c, http.StatusOK, NewProductForm(nil), false)
}

// EditProduct muestra el formulario con el producto; si no existe, vacío con aviso
func (h *Handler) EditProduct(c *gin.Context) {
	product, err := h.service.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.renderForm(c, http.StatusNotFound, NewProductForm(nil), true)
	case err != nil:
		h.renderError(c, err, "Failed to load product")
	default:
		h.renderForm(c, http.StatusOK, NewProductForm(product), false)
	}
}

func (h *Handler) renderForm(c *gin.Context, status int, form ProductForm, notFound bool) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.logger.Warn("failed to load categories for form",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		categories = nil
	}

	title := "New Product"
	if form.ID != "" {
		title = "Edit Product"
	}
	c.HTML(status, "product_form.html", gin.H{
		"Title":      title,
		"SiteURL":    h.opts.SiteURL,
		"Form":       form,
		"ProductID":  c.Param("id"),
		"NotFound":   notFound,
		"Categories": categories,
		"Upload":     h.uploads.Config(),
		"Statuses":   []string{models.StatusDraft, models.StatusActive, models.StatusArchived},
	})
}

func (h *Handler) renderError(c *gin.Context, err error, message string) {
	_ = c.Error(err)
	h.logger.Error(message,
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Error(err),
	)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Error",
		"SiteURL": h.opts.SiteURL,
		"Message": message,
	})
}

// SafeRedirect solo acepta rutas locales; cualquier otra cosa vuelve a "/"
func SafeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}
