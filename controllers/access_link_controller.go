package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"Gin_postgres_redis_seller_admin/app"
	"Gin_postgres_redis_seller_admin/privatelink"

	"github.com/gin-gonic/gin"
)

// AccessLinkController 管理端的私有链接签发/列表/删除
type AccessLinkController struct{ *Srv }

func GetAccessLinkController(s *Srv) *AccessLinkController { return &AccessLinkController{Srv: s} }

// POST /admin/private-links
func (ac *AccessLinkController) CreateLink(c *gin.Context) {
	var in struct {
		TargetType     string `json:"targetType" binding:"required"`
		TargetUserName string `json:"targetUserName" binding:"required"`
		ValidHours     int    `json:"validHours" binding:"required"`
		TargetID       *uint  `json:"targetId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	createdBy := ""
	if v, ok := c.Get("username"); ok {
		createdBy, _ = v.(string)
	}

	t, err := ac.Links.Issue(c.Request.Context(), privatelink.IssueParams{
		TargetType:     privatelink.TargetType(in.TargetType),
		TargetUserName: in.TargetUserName,
		ValidHours:     in.ValidHours,
		TargetID:       in.TargetID,
		CreatedBy:      createdBy,
	})
	if err != nil {
		if errors.Is(err, privatelink.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, app.H{
		"token": t,
		"link":  privatelink.BuildLink(ac.WebOrigin, t), // 方便直接复制给对方
	})
}

// GET /admin/private-links?type=&page=&size=
func (ac *AccessLinkController) ListLinks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := ac.Repo.ListTokens(c.Request.Context(), c.Query("type"), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	now := time.Now()
	out := make([]app.H, 0, len(res.Tokens))
	for i := range res.Tokens {
		t := &res.Tokens[i]
		state := "open"
		switch {
		case t.Used:
			state = "used"
		case t.IsExpired(now):
			state = "expired"
		}
		out = append(out, app.H{
			"token": t,
			"state": state,
			"link":  privatelink.BuildLink(ac.WebOrigin, t),
		})
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "links": out})
}

// DELETE /admin/private-links/:id
// DELETE /admin/private-links?ids=1,2,3
func (ac *AccessLinkController) DeleteLinks(c *gin.Context) {
	var ids []uint
	if s := c.Param("id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": "invalid id"})
			return
		}
		ids = append(ids, uint(id))
	} else {
		for _, s := range strings.Split(c.Query("ids"), ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			id, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, app.H{"error": "invalid ids"})
				return
			}
			ids = append(ids, uint(id))
		}
	}
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "no ids given"})
		return
	}

	n, err := ac.Repo.DeleteTokensByID(c.Request.Context(), ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "deleted": n})
}
