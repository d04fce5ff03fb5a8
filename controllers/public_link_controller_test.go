package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Gin_postgres_redis_seller_admin/db"
	"Gin_postgres_redis_seller_admin/models"
	"Gin_postgres_redis_seller_admin/privatelink"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestSrv(t *testing.T) *Srv {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	repo := db.NewRepo(gdb)
	return &Srv{
		Repo:      repo,
		Links:     privatelink.NewService(repo, &linkTargetResolver{repo: repo}, nil),
		WebOrigin: "https://admin.example.com",
	}
}

func newPublicRouter(s *Srv) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	pc := GetPublicLinkController(s)
	r.GET("/public/links/:user/:token", pc.ValidateLink)
	r.POST("/public/links/:user/:token", pc.RedeemLink)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func issueLink(t *testing.T, s *Srv, p privatelink.IssueParams) *models.AccessToken {
	t.Helper()
	tok, err := s.Links.Issue(context.Background(), p)
	require.NoError(t, err)
	return tok
}

func TestEmployeeSignupFlow(t *testing.T) {
	s := newTestSrv(t)
	r := newPublicRouter(s)
	tok := issueLink(t, s, privatelink.IssueParams{
		TargetType:     privatelink.TargetEmployeeSignup,
		TargetUserName: "61010131",
		ValidHours:     2,
	})
	url := "/public/links/61010131/" + tok.Token

	// 表单页加载时的校验
	w, out := doJSON(t, r, http.MethodGet, url, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, out["valid"])
	assert.Equal(t, string(privatelink.TargetEmployeeSignup), out["targetType"])

	// 提交表单：建档 + 消费链接
	w, out = doJSON(t, r, http.MethodPost, url, gin.H{
		"firstName":  "Sara",
		"lastName":   "Tehrani",
		"department": "sales",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, out["ok"])

	e, err := s.Repo.FindEmployeeByCode(context.Background(), "61010131")
	require.NoError(t, err)
	assert.Equal(t, "Sara", e.FirstName)

	// 双击/二次提交：同一消息，不再建第二条
	w, out = doJSON(t, r, http.MethodPost, url, gin.H{
		"firstName": "Sara",
		"lastName":  "Tehrani",
	})
	assert.Equal(t, http.StatusGone, w.Code)
	assert.Equal(t, "link invalid or expired", out["error"])

	// 校验也变成 invalid
	w, out = doJSON(t, r, http.MethodGet, url, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, out["valid"])
}

func TestValidateWrongUserIsGeneric(t *testing.T) {
	s := newTestSrv(t)
	r := newPublicRouter(s)
	tok := issueLink(t, s, privatelink.IssueParams{
		TargetType:     privatelink.TargetEmployeeSignup,
		TargetUserName: "61010131",
		ValidHours:     2,
	})

	w, out := doJSON(t, r, http.MethodGet, "/public/links/othername/"+tok.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, out["valid"])
	assert.Equal(t, "link invalid or expired", out["error"])

	w, out = doJSON(t, r, http.MethodPost, "/public/links/othername/"+tok.Token, gin.H{
		"firstName": "x",
		"lastName":  "y",
	})
	assert.Equal(t, http.StatusGone, w.Code)
	assert.Equal(t, "link invalid or expired", out["error"])
}

func TestUserCreationForEmployeeFlow(t *testing.T) {
	s := newTestSrv(t)
	r := newPublicRouter(s)
	ctx := context.Background()

	e := &models.Employee{Code: "61010131", FirstName: "Sara", LastName: "Tehrani", Department: "sales", Active: true}
	require.NoError(t, s.Repo.CreateEmployee(ctx, e))

	tok := issueLink(t, s, privatelink.IssueParams{
		TargetType:     privatelink.TargetUserCreationForEmployee,
		TargetUserName: "61010131",
		ValidHours:     2,
		TargetID:       &e.ID,
	})
	url := "/public/links/61010131/" + tok.Token

	// 校验时带出公开上下文（姓名/部门，不带敏感字段）
	w, out := doJSON(t, r, http.MethodGet, url, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, out["valid"])
	target, ok := out["target"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Sara", target["firstName"])
	assert.Equal(t, "sales", target["department"])

	w, out = doJSON(t, r, http.MethodPost, url, gin.H{"password": "s3cret-pass"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, out["ok"])

	u, err := s.Repo.FindUserByUsername(ctx, "61010131")
	require.NoError(t, err)
	require.NotNil(t, u.EmployeeID)
	assert.Equal(t, e.ID, *u.EmployeeID)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
}

func TestVariantUploadFlow(t *testing.T) {
	s := newTestSrv(t)
	r := newPublicRouter(s)
	ctx := context.Background()

	p := &models.Product{Name: "Denim Jacket", SKU: "DJ-01", Active: true}
	require.NoError(t, s.Repo.CreateProduct(ctx, p))

	tok := issueLink(t, s, privatelink.IssueParams{
		TargetType:     privatelink.TargetVariantUpload,
		TargetUserName: "vendor-a",
		ValidHours:     2,
		TargetID:       &p.ID,
	})
	url := "/public/links/vendor-a/" + tok.Token

	w, out := doJSON(t, r, http.MethodGet, url, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, out["valid"])
	target, ok := out["target"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Denim Jacket", target["productName"])

	w, out = doJSON(t, r, http.MethodPost, url, gin.H{
		"name":     "Denim Jacket Blue L",
		"color":    "blue",
		"size":     "L",
		"price":    49.9,
		"imageKey": "variants/dj-01-blue-l.jpg",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, out["ok"])

	vs, err := s.Repo.ListVariants(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, "vendor-a", vs[0].UploadedBy)
}

func TestBadPayloadKeepsLinkRedeemable(t *testing.T) {
	s := newTestSrv(t)
	r := newPublicRouter(s)
	tok := issueLink(t, s, privatelink.IssueParams{
		TargetType:     privatelink.TargetEmployeeSignup,
		TargetUserName: "61010131",
		ValidHours:     2,
	})
	url := "/public/links/61010131/" + tok.Token

	// 缺必填字段：400，token 回滚
	w, _ := doJSON(t, r, http.MethodPost, url, gin.H{"firstName": "only"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	got, err := s.Repo.GetToken(context.Background(), tok.Token)
	require.NoError(t, err)
	assert.False(t, got.Used)

	// 补全后同一条链接可以成功
	w, _ = doJSON(t, r, http.MethodPost, url, gin.H{
		"firstName": "Sara",
		"lastName":  "Tehrani",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestExpiredLinkRejected(t *testing.T) {
	s := newTestSrv(t)
	r := newPublicRouter(s)
	ctx := context.Background()

	// 直接落一条已过期的 token，绕过 Issue 的窗口下限
	at := &models.AccessToken{
		Token:          "expiredtoken000000000000000000ab",
		TargetType:     string(privatelink.TargetEmployeeSignup),
		TargetUserName: "61010131",
		IssuedAt:       time.Now().Add(-2 * time.Hour),
		ExpiresAt:      time.Now().Add(-time.Hour),
	}
	require.NoError(t, s.Repo.CreateToken(ctx, at))
	url := "/public/links/61010131/" + at.Token

	w, out := doJSON(t, r, http.MethodGet, url, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, out["valid"])

	w, out = doJSON(t, r, http.MethodPost, url, gin.H{
		"firstName": "Sara",
		"lastName":  "Tehrani",
	})
	assert.Equal(t, http.StatusGone, w.Code)
	assert.Equal(t, "link invalid or expired", out["error"])
}
