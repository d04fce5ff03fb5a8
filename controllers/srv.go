// controllers/srv.go
package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"Gin_postgres_redis_seller_admin/app"
	"Gin_postgres_redis_seller_admin/db"
	"Gin_postgres_redis_seller_admin/models"
	"Gin_postgres_redis_seller_admin/privatelink"
	"Gin_postgres_redis_seller_admin/session"

	"github.com/google/uuid"
)

type Srv struct {
	Repo      *db.Repo
	Links     *privatelink.Service
	AppSess   *session.AppSessionStore
	WebOrigin string
	Cfg       app.Config
}

func GetSrv(a *app.App) *Srv {
	repo := db.NewRepo(a.DB)
	return &Srv{
		Repo:      repo,
		Links:     privatelink.NewService(repo, &linkTargetResolver{repo: repo}, nil),
		AppSess:   a.AppSessions(),
		WebOrigin: a.Config.WebOrigin,
		Cfg:       a.Config,
	}
}

// --- helpers ---

// 统一设置业务会话 Cookie
func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

// 登录成功：创建会话 + 触发登录快照
func (s *Srv) issueSession(ctx context.Context, w http.ResponseWriter, userID string, ip, ua string) error {
	if err := s.Repo.TouchUserLogin(ctx, userID, ip, ua); err != nil {
		// 不阻塞
	}
	id := uuid.NewString()
	if err := s.AppSess.Create(ctx, id, userID); err != nil {
		return err
	}
	s.setAppCookie(w, id, s.Cfg.SessionTTL)
	return nil
}

// linkTargetResolver 私有链接校验时返回的公开上下文，
// 只挑对外安全的字段
type linkTargetResolver struct {
	repo *db.Repo
}

func (r *linkTargetResolver) Resolve(ctx context.Context, t *models.AccessToken) (any, error) {
	switch privatelink.TargetType(t.TargetType) {
	case privatelink.TargetUserCreationForEmployee:
		if t.TargetID == nil {
			return nil, nil
		}
		e, err := r.repo.FindEmployeeByID(ctx, *t.TargetID)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"firstName":  e.FirstName,
			"lastName":   e.LastName,
			"department": e.Department,
		}, nil
	case privatelink.TargetVariantUpload:
		if t.TargetID == nil {
			return nil, nil
		}
		p, err := r.repo.FindProductByID(ctx, *t.TargetID)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"productName": p.Name,
			"sku":         p.SKU,
		}, nil
	default:
		// employeeSignup：员工记录在兑换时才创建，无上下文可解析
		return nil, nil
	}
}
