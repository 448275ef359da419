// Package api 组装 HTTP 路由
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/blog-admin/config"
	_ "github.com/d60-Lab/blog-admin/docs"
	"github.com/d60-Lab/blog-admin/internal/api/handler"
	"github.com/d60-Lab/blog-admin/internal/api/middleware"
	"github.com/d60-Lab/blog-admin/internal/auth"
	"github.com/d60-Lab/blog-admin/internal/model"
	"github.com/d60-Lab/blog-admin/pkg/logger"
)

// Deps 路由依赖
type Deps struct {
	Config  *config.Config
	Handler *handler.Handler
	Auth    *auth.Authenticator
	Metrics *middleware.Metrics
	DB      *gorm.DB
}

func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Warn("invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Sentry(),
		middleware.Logger(),
		d.Metrics.Middleware(),
		gzip.Gzip(gzip.DefaultCompression),
	)
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	if len(cfg.Server.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
			ExposeHeaders:    []string{"Authorization", "Link", "X-Total-Count", "X-blogAdminApp-alert", "X-blogAdminApp-error", "X-blogAdminApp-params"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	mgmt := r.Group("/management")
	mgmt.GET("/health", health(d.DB))
	mgmt.GET("/prometheus", d.Metrics.Handler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	h := d.Handler
	api := r.Group("/api", middleware.RateLimit(middleware.NewIPRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateBurst)))
	api.POST("/authenticate", h.Authenticate)

	secured := api.Group("", middleware.JWTAuth(d.Auth))
	{
		ps := secured.Group("/post-statuses")
		ps.POST("", h.CreatePostStatus)
		ps.PUT("/:id", h.UpdatePostStatus)
		ps.PATCH("/:id", h.PatchPostStatus)
		ps.GET("", h.ListPostStatuses)
		ps.GET("/:id", h.GetPostStatus)
		ps.DELETE("/:id", h.DeletePostStatus)

		posts := secured.Group("/posts")
		posts.POST("", h.CreatePost)
		posts.PUT("/:id", h.UpdatePost)
		posts.PATCH("/:id", h.PatchPost)
		posts.GET("", h.ListPosts)
		posts.GET("/count", h.CountPosts)
		posts.GET("/:id", h.GetPost)
		posts.DELETE("/:id", h.DeletePost)

		comments := secured.Group("/comments")
		comments.POST("", h.CreateComment)
		comments.PUT("/:id", h.UpdateComment)
		comments.PATCH("/:id", h.PatchComment)
		comments.GET("", h.ListComments)
		comments.GET("/count", h.CountComments)
		comments.GET("/:id", h.GetComment)
		comments.DELETE("/:id", h.DeleteComment)

		secured.GET("/export/posts", h.ExportPosts)

		admin := secured.Group("/authorities", middleware.RequireAuthority(model.RoleAdmin))
		admin.POST("", h.CreateAuthority)
		admin.GET("", h.ListAuthorities)
		admin.GET("/:name", h.GetAuthority)
		admin.DELETE("/:name", h.DeleteAuthority)
	}

	return r
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "UP"
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			dbStatus = "DOWN"
		}
		status, code := "UP", http.StatusOK
		if dbStatus != "UP" {
			status, code = "DOWN", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "components": gin.H{"db": gin.H{"status": dbStatus}}})
	}
}
