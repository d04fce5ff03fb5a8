package routes

import (
	"Gin_postgres_redis_seller_admin/app"
	"Gin_postgres_redis_seller_admin/controllers"
	"time"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	uc := controllers.GetUserController(s)
	ec := controllers.GetEmployeeController(s)
	pc := controllers.GetProductController(s)
	fc := controllers.GetProformaController(s)
	anc := controllers.GetAnalyticsController(s)
	linkCtl := controllers.GetAccessLinkController(s)
	publicCtl := controllers.GetPublicLinkController(s)

	// 复用的中间件
	authMW := app.AuthRequired(s.AppSess, s.Repo, a.Config)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// 登录/登出（公开）
	// ------------------------------
	auth := r.Group("/auth")
	{
		auth.POST("/login", uc.Login)
		auth.POST("/logout", uc.Logout)
	}

	// ------------------------------
	// 公共私有链接端点（未认证第三方）
	// ------------------------------
	public := r.Group("/public")
	{
		public.GET("/links/:user/:token", publicCtl.ValidateLink)
		public.POST("/links/:user/:token", publicCtl.RedeemLink)
	}

	// ------------------------------
	// 已登录用户
	// ------------------------------
	api := r.Group("/api", authMW, seenMW)
	{
		api.GET("/whoami", uc.Whoami)
		api.PUT("/profile", uc.UpdateProfile)

		api.GET("/employees", ec.ListEmployees)
		api.GET("/employees/:id", ec.GetEmployee)

		api.GET("/products", pc.ListProducts)
		api.GET("/products/:id", pc.GetProduct)
		api.GET("/products/:id/variants", pc.ListVariants)

		api.GET("/proformas", fc.ListProformas)
		api.GET("/proformas/:id", fc.GetProforma)
		api.POST("/proformas", fc.CreateProforma)
		api.PUT("/proformas/:id/status", fc.UpdateStatus)

		api.GET("/analytics/summary", anc.Summary)
		api.GET("/analytics/recent", anc.Recent)
	}

	// ------------------------------
	// 仅管理员
	// ------------------------------
	apiAdmin := r.Group("/api", authMW, adminMW)
	{
		apiAdmin.GET("/users", uc.ListUsers)
		apiAdmin.GET("/users/:id", uc.GetUser)
		apiAdmin.POST("/users", uc.CreateUser)
		apiAdmin.DELETE("/users/:id", uc.DeleteUser)

		apiAdmin.POST("/employees", ec.CreateEmployee)
		apiAdmin.PUT("/employees/:id", ec.UpdateEmployee)
		apiAdmin.DELETE("/employees/:id", ec.DeleteEmployee)

		apiAdmin.POST("/products", pc.CreateProduct)
		apiAdmin.PUT("/products/:id", pc.UpdateProduct)
		apiAdmin.DELETE("/products/:id", pc.DeleteProduct)
		apiAdmin.POST("/products/:id/variants", pc.CreateVariant)
		apiAdmin.DELETE("/products/:id/variants/:variantId", pc.DeleteVariant)

		apiAdmin.DELETE("/proformas/:id", fc.DeleteProforma)
	}

	admin := r.Group("/admin", authMW, adminMW)
	{
		admin.POST("/private-links", linkCtl.CreateLink)
		admin.GET("/private-links", linkCtl.ListLinks)
		admin.DELETE("/private-links", linkCtl.DeleteLinks)
		admin.DELETE("/private-links/:id", linkCtl.DeleteLinks)
	}
}
