package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"Gin_postgres_redis_seller_admin/app"
	"Gin_postgres_redis_seller_admin/models"
	"Gin_postgres_redis_seller_admin/privatelink"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// 对未登录调用方只说这一句，不区分究竟哪一步失败
const invalidLinkMsg = "link invalid or expired"

// PublicLinkController 未认证第三方访问的公共端点：
// 校验链接 + 提交绑定动作（兑换）
type PublicLinkController struct {
	*Srv
	handlers map[privatelink.TargetType]redeemHandler
}

// redeemHandler 在 token 已被原子占用之后执行绑定动作；
// 返回的错误会让 Redeem 回滚 used 标志
type redeemHandler func(ctx context.Context, c *gin.Context, t *models.AccessToken) (app.H, error)

func GetPublicLinkController(s *Srv) *PublicLinkController {
	pc := &PublicLinkController{Srv: s}
	// 每种目标类型一个处理器；新增类型 = 表里加一行
	pc.handlers = map[privatelink.TargetType]redeemHandler{
		privatelink.TargetEmployeeSignup:          pc.redeemEmployeeSignup,
		privatelink.TargetUserCreationForEmployee: pc.redeemUserCreation,
		privatelink.TargetVariantUpload:           pc.redeemVariantUpload,
	}
	return pc
}

// badPayloadError 表单内容不合法：映射成 400，而不是当下游故障处理
type badPayloadError struct{ err error }

func (e *badPayloadError) Error() string { return e.err.Error() }
func (e *badPayloadError) Unwrap() error { return e.err }

// GET /public/links/:user/:token 纯读校验，页面加载时可反复调用
func (pc *PublicLinkController) ValidateLink(c *gin.Context) {
	v, err := pc.Links.Validate(c.Request.Context(), c.Param("token"), c.Param("user"))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, app.H{"error": "temporarily unavailable"})
		return
	}
	if !v.Valid {
		c.JSON(http.StatusOK, app.H{"valid": false, "error": invalidLinkMsg})
		return
	}
	out := app.H{"valid": true, "targetType": v.Token.TargetType}
	if v.Target != nil {
		out["target"] = v.Target
	}
	c.JSON(http.StatusOK, out)
}

// POST /public/links/:user/:token 兑换：恰好一次
func (pc *PublicLinkController) RedeemLink(c *gin.Context) {
	var result app.H
	_, err := pc.Links.Redeem(c.Request.Context(), c.Param("token"), c.Param("user"),
		func(ctx context.Context, t *models.AccessToken) error {
			h, ok := pc.handlers[privatelink.TargetType(t.TargetType)]
			if !ok {
				return fmt.Errorf("no handler for target type %q", t.TargetType)
			}
			out, err := h(ctx, c, t)
			if err != nil {
				return err
			}
			result = out
			return nil
		})
	if err != nil {
		pc.respondRedeemError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (pc *PublicLinkController) respondRedeemError(c *gin.Context, err error) {
	var ae *privatelink.ActionError
	switch {
	case errors.Is(err, privatelink.ErrInvalidLink),
		errors.Is(err, privatelink.ErrAlreadyUsed),
		errors.Is(err, privatelink.ErrExpired):
		c.JSON(http.StatusGone, app.H{"error": invalidLinkMsg})
	case errors.As(err, &ae):
		var bad *badPayloadError
		if errors.As(ae.Err, &bad) {
			c.JSON(http.StatusBadRequest, app.H{"error": bad.Error()})
			return
		}
		// 动作失败已回滚，链接还能重试
		c.JSON(http.StatusInternalServerError, app.H{"error": "request failed, please retry"})
	default:
		c.JSON(http.StatusServiceUnavailable, app.H{"error": "temporarily unavailable"})
	}
}

// --- 各目标类型的绑定动作 ---

// employeeSignup：新员工自己填表建档，工号用链接里绑定的 targetUserName
func (pc *PublicLinkController) redeemEmployeeSignup(ctx context.Context, c *gin.Context, t *models.AccessToken) (app.H, error) {
	var in struct {
		FirstName  string `json:"firstName" binding:"required"`
		LastName   string `json:"lastName" binding:"required"`
		Department string `json:"department"`
		Phone      string `json:"phone"`
		Email      string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		return nil, &badPayloadError{err: err}
	}
	e := &models.Employee{
		Code:       t.TargetUserName,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Department: in.Department,
		Phone:      in.Phone,
		Email:      in.Email,
		Active:     true,
	}
	if err := pc.Repo.CreateEmployee(ctx, e); err != nil {
		return nil, err
	}
	return app.H{"ok": true, "employee": e}, nil
}

// userCreationForEmployee：给已有员工档案开平台账号
func (pc *PublicLinkController) redeemUserCreation(ctx context.Context, c *gin.Context, t *models.AccessToken) (app.H, error) {
	var in struct {
		Password    string `json:"password" binding:"required,min=8"`
		DisplayName string `json:"displayName"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		return nil, &badPayloadError{err: err}
	}
	if t.TargetID == nil {
		return nil, errors.New("link has no employee bound")
	}
	e, err := pc.Repo.FindEmployeeByID(ctx, *t.TargetID)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	display := in.DisplayName
	if display == "" {
		display = e.FirstName + " " + e.LastName
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     t.TargetUserName,
		DisplayName:  display,
		PasswordHash: string(hash),
		EmployeeID:   &e.ID,
	}
	if err := pc.Repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return app.H{"ok": true, "userId": u.ID}, nil
}

// variantUpload：外部贡献者给指定商品上传变体（图片已传对象存储，这里只收 key）
func (pc *PublicLinkController) redeemVariantUpload(ctx context.Context, c *gin.Context, t *models.AccessToken) (app.H, error) {
	var in struct {
		Name     string  `json:"name" binding:"required"`
		Color    string  `json:"color"`
		Size     string  `json:"size"`
		Price    float64 `json:"price"`
		ImageKey string  `json:"imageKey"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		return nil, &badPayloadError{err: err}
	}
	if t.TargetID == nil {
		return nil, errors.New("link has no product bound")
	}
	if _, err := pc.Repo.FindProductByID(ctx, *t.TargetID); err != nil {
		return nil, err
	}

	v := &models.Variant{
		ProductID:  *t.TargetID,
		Name:       in.Name,
		Color:      in.Color,
		Size:       in.Size,
		Price:      in.Price,
		ImageKey:   in.ImageKey,
		UploadedBy: t.TargetUserName,
	}
	if err := pc.Repo.CreateVariant(ctx, v); err != nil {
		return nil, err
	}
	return app.H{"ok": true, "variant": v}, nil
}
