package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"geoattend/backend/config"
	"geoattend/backend/internal/api/handler"
	"geoattend/backend/internal/api/middleware"
	"geoattend/backend/internal/model"
	"geoattend/backend/pkg/jwt"
	"geoattend/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	loginLimit := middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateLimitWindow)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", loginLimit, h.Auth.Register)
			auth.POST("/login", loginLimit, h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 办公地点查询对外公开（客户端签到前需要拉取地点列表）
		v1.GET("/offices", h.Office.ListOffices)
		v1.GET("/offices/:id", h.Office.GetOffice)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 办公地点管理（仅管理员）
			offices := authorized.Group("/offices")
			{
				offices.POST("", middleware.RoleAuth(model.RoleAdmin), h.Office.CreateOffice)
				offices.PUT("/:id", middleware.RoleAuth(model.RoleAdmin), h.Office.UpdateOffice)
				offices.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Office.DeleteOffice)
			}

			// 考勤模块
			attendance := authorized.Group("/attendance")
			{
				attendance.POST("/check-in", h.Attendance.CheckIn)
				attendance.POST("/check-out", h.Attendance.CheckOut)
				attendance.GET("/history/:userId", h.Attendance.GetHistory) // 本人或 admin/manager（Service 层鉴权）
				attendance.GET("/daily-report", middleware.RoleAuth(model.RoleAdmin, model.RoleManager), h.Attendance.GetDailyReport)
			}

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", middleware.RoleAuth(model.RoleAdmin, model.RoleManager), h.User.ListUsers)
				users.GET("/:id", middleware.RoleAuth(model.RoleAdmin, model.RoleManager), h.User.GetUser)
				users.PUT("/:id/role", middleware.RoleAuth(model.RoleAdmin), h.User.AssignRole)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/daily-report", middleware.RoleAuth(model.RoleAdmin, model.RoleManager), h.Export.ExportDailyReport)
				export.GET("/history.ics", h.Export.ExportHistoryICS)
			}
		}
	}

	return r
}
