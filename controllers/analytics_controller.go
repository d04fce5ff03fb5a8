package controllers

import (
	"net/http"
	"strconv"
	"time"

	"Gin_postgres_redis_seller_admin/app"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct{ *Srv }

func GetAnalyticsController(s *Srv) *AnalyticsController { return &AnalyticsController{Srv: s} }

// GET /api/analytics/summary 仪表盘首页的几个数字
func (ac *AnalyticsController) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	products, err := ac.Repo.CountProducts(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	employees, err := ac.Repo.CountEmployees(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	proformas, err := ac.Repo.CountProformas(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	users, err := ac.Repo.CountUsers(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	openLinks, err := ac.Repo.CountOpenTokens(ctx, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, app.H{
		"products":  products,
		"employees": employees,
		"proformas": proformas,
		"users":     users,
		"openLinks": openLinks,
	})
}

// GET /api/analytics/recent?limit=10
func (ac *AnalyticsController) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	rows, err := ac.Repo.RecentProformas(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"proformas": rows})
}
