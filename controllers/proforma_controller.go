package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_seller_admin/app"
	"Gin_postgres_redis_seller_admin/models"

	"github.com/gin-gonic/gin"
)

type ProformaController struct{ *Srv }

func GetProformaController(s *Srv) *ProformaController { return &ProformaController{Srv: s} }

var proformaStatuses = map[string]bool{
	models.ProformaStatusDraft:     true,
	models.ProformaStatusSent:      true,
	models.ProformaStatusConfirmed: true,
	models.ProformaStatusCancelled: true,
}

// GET /api/proformas?q=&status=&page=&size=
func (fc *ProformaController) ListProformas(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	status := c.Query("status")
	if status != "" && !proformaStatuses[status] {
		c.JSON(http.StatusBadRequest, app.H{"error": "unknown status"})
		return
	}

	res, err := fc.Repo.ListProformas(c.Request.Context(), c.Query("q"), status, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "proformas": res.Proformas})
}

// GET /api/proformas/:id 带条目
func (fc *ProformaController) GetProforma(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid id"})
		return
	}
	p, err := fc.Repo.FindProformaByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "proforma not found"})
		return
	}
	c.JSON(http.StatusOK, app.H{"proforma": p})
}

// POST /api/proformas
func (fc *ProformaController) CreateProforma(c *gin.Context) {
	var in struct {
		Number       string `json:"number" binding:"required"`
		CustomerName string `json:"customerName" binding:"required"`
		Note         string `json:"note"`
		Items        []struct {
			ProductID *uint   `json:"productId"`
			Label     string  `json:"label" binding:"required"`
			Quantity  int     `json:"quantity" binding:"required,min=1"`
			UnitPrice float64 `json:"unitPrice"`
		} `json:"items" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	p := &models.Proforma{
		Number:       in.Number,
		CustomerName: in.CustomerName,
		Status:       models.ProformaStatusDraft,
		Note:         in.Note,
	}
	for _, it := range in.Items {
		p.Items = append(p.Items, models.ProformaItem{
			ProductID: it.ProductID,
			Label:     it.Label,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	if err := fc.Repo.CreateProforma(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// PUT /api/proformas/:id/status
func (fc *ProformaController) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid id"})
		return
	}
	var in struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if !proformaStatuses[in.Status] {
		c.JSON(http.StatusBadRequest, app.H{"error": "unknown status"})
		return
	}

	if err := fc.Repo.UpdateProformaStatus(c.Request.Context(), uint(id), in.Status); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// DELETE /api/proformas/:id
func (fc *ProformaController) DeleteProforma(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid id"})
		return
	}
	if err := fc.Repo.DeleteProformaByID(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
