package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inventory/internal/models"
	"inventory/internal/service"
)

type ProductHandler struct {
	service *service.ProductService
	logger  *zap.Logger
}

func NewProductHandler(svc *service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// ListProducts lista productos con paginación y búsqueda
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.service.List(c.Request.Context(), models.ListQuery{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateProduct crea un nuevo producto
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input service.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidBody(c, err)
		return
	}

	product, err := h.service.Create(c.Request.Context(), &input)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProduct obtiene un producto por ID
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProduct aplica una actualización parcial
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var input service.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidBody(c, err)
		return
	}

	product, err := h.service.Update(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct hace el borrado lógico
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	product, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted", "product": product})
}

// ReorderProducts guarda el orden manual de una categoría
func (h *ProductHandler) ReorderProducts(c *gin.Context) {
	var input service.ReorderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidBody(c, err)
		return
	}

	if err := h.service.Reorder(c.Request.Context(), &input); err != nil {
		respondError(c, h.logger, err, "Failed to reorder products")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListCategories devuelve las categorías en uso
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}
