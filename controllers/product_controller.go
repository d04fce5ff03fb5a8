package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_seller_admin/app"
	"Gin_postgres_redis_seller_admin/models"

	"github.com/gin-gonic/gin"
)

type ProductController struct{ *Srv }

func GetProductController(s *Srv) *ProductController { return &ProductController{Srv: s} }

// GET /api/products?q=&category=&page=&size=
func (pc *ProductController) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := pc.Repo.ListProducts(c.Request.Context(), c.Query("q"), c.Query("category"), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "products": res.Products})
}

// GET /api/products/:id 带变体
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid id"})
		return
	}
	p, err := pc.Repo.FindProductByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, app.H{"product": p})
}

// POST /api/products
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var in struct {
		Name        string  `json:"name" binding:"required"`
		SKU         string  `json:"sku" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Category    string  `json:"category"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	p := &models.Product{
		Name:        in.Name,
		SKU:         in.SKU,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Active:      true,
	}
	if err := pc.Repo.CreateProduct(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// PUT /api/products/:id
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid id"})
		return
	}
	var in struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Category    *string  `json:"category"`
		Active      *bool    `json:"active"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}
	if in.Active != nil {
		fields["active"] = *in.Active
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "nothing to update"})
		return
	}

	if err := pc.Repo.UpdateProduct(c.Request.Context(), uint(id), fields); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// DELETE /api/products/:id
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid id"})
		return
	}
	if err := pc.Repo.DeleteProductByID(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// Variants

// GET /api/products/:id/variants
func (pc *ProductController) ListVariants(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid id"})
		return
	}
	vs, err := pc.Repo.ListVariants(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"variants": vs})
}

// POST /api/products/:id/variants 后台直接加变体（区别于公共上传链接）
func (pc *ProductController) CreateVariant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid id"})
		return
	}
	var in struct {
		Name     string  `json:"name" binding:"required"`
		Color    string  `json:"color"`
		Size     string  `json:"size"`
		Price    float64 `json:"price"`
		ImageKey string  `json:"imageKey"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	uploadedBy := ""
	if v, ok := c.Get("username"); ok {
		uploadedBy, _ = v.(string)
	}
	variant := &models.Variant{
		ProductID:  uint(id),
		Name:       in.Name,
		Color:      in.Color,
		Size:       in.Size,
		Price:      in.Price,
		ImageKey:   in.ImageKey,
		UploadedBy: uploadedBy,
	}
	if err := pc.Repo.CreateVariant(c.Request.Context(), variant); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, variant)
}

// DELETE /api/products/:id/variants/:variantId
func (pc *ProductController) DeleteVariant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid id"})
		return
	}
	vid, err := strconv.ParseUint(c.Param("variantId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid variant id"})
		return
	}
	if err := pc.Repo.DeleteVariantByID(c.Request.Context(), uint(id), uint(vid)); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
