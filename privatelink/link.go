package privatelink

import (
	"net/url"
	"strings"

	"Gin_postgres_redis_seller_admin/models"
)

// 不同目标类型分流到不同的公共表单页
var linkPaths = map[TargetType]string{
	TargetEmployeeSignup:          "/signup",
	TargetUserCreationForEmployee: "/create-credentials",
	TargetVariantUpload:           "/upload-variant",
}

// BuildLink 拼出可分享的链接：<origin><path>/<targetUserName>/<token>
// 纯格式化，只用 token 自身字段
func BuildLink(webOrigin string, t *models.AccessToken) string {
	base := strings.TrimRight(webOrigin, "/")
	p := linkPaths[TargetType(t.TargetType)]
	if p == "" {
		p = "/link"
	}
	return base + p + "/" + url.PathEscape(t.TargetUserName) + "/" + t.Token
}
