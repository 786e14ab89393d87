package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"orgdesk/internal/core/auth"
	"orgdesk/internal/domain"
	"orgdesk/internal/transport/http/handler"
	mdw "orgdesk/internal/transport/http/middleware"
)

// Handlers 路由需要的全部 handler
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Employee *handler.EmployeeHandler
	Project  *handler.ProjectHandler
	Expense  *handler.ExpenseHandler
}

// NewAPIEngine 组装 gin 引擎：中间件链 + 路由分组
func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, h Handlers, uploadDir, uploadPath string) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		cors.Default(),
		mdw.Metrics(),
		mdw.AccessLog(l),
		mdw.ErrorSink(l),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 上传文件静态访问
	if uploadDir != "" && uploadPath != "" {
		r.Static(uploadPath, uploadDir)
	}

	api := r.Group("/api/v1")

	// 公共路由（无需登录），按 IP 再限一道，防撞库
	public := api.Group("")
	public.Use(mdw.RateLimitPerIP(5, 20))
	{
		public.POST("/users/register", h.Auth.Register)
		public.POST("/users/login", h.Auth.Login)
		public.POST("/users/reset-password-request", h.Auth.RequestPasswordReset)
		public.POST("/users/:id/reset-password/:token", h.Auth.ResetPassword)
	}

	// 鉴权分组（任意角色）
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter, ""))
	{
		authed.GET("/users", h.User.List)
		authed.GET("/users/:id", h.User.Get)
		authed.PATCH("/users/:id", h.User.Update)
		authed.DELETE("/users/:id", h.User.Delete)

		authed.GET("/employees", h.Employee.List)
		authed.GET("/employees/:id", h.Employee.Get)

		authed.GET("/projects", h.Project.List)
		authed.GET("/projects/:id", h.Project.Get)

		authed.GET("/expenses", h.Expense.List)
		authed.GET("/expenses/:id", h.Expense.Get)
		authed.POST("/expenses", h.Expense.Create)
		authed.PATCH("/expenses/:id", h.Expense.Update)
	}

	// 管理分组（仅 admin）
	admin := api.Group("")
	admin.Use(mdw.AuthJWT(jwter, domain.RoleAdmin))
	{
		admin.POST("/employees", h.Employee.Create)
		admin.PATCH("/employees/:id", h.Employee.Update)
		admin.DELETE("/employees/:id", h.Employee.Delete)

		admin.POST("/projects", h.Project.Create)
		admin.PATCH("/projects/:id", h.Project.Update)
		admin.DELETE("/projects/:id", h.Project.Delete)

		admin.DELETE("/expenses/:id", h.Expense.Delete)
	}

	return r
}
