package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-auth-service/internal/core/auth"
	"go-auth-service/internal/core/config"
	"go-auth-service/internal/domain"
	"go-auth-service/internal/service"
	"go-auth-service/internal/transport/http/handler"
	mdw "go-auth-service/internal/transport/http/middleware"
)

func NewAPIEngine(l *zap.Logger, svc *service.AuthService, users domain.UserRepository, jwter *auth.JWTer, cfg *config.Config) *gin.Engine {
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	corsCfg := cors.DefaultConfig()
	if cfg.App.FrontendURL != "" {
		corsCfg.AllowOrigins = []string{cfg.App.FrontendURL}
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowCredentials = cfg.App.FrontendURL != ""
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Server is running"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handler.NewAuthHandler(svc, cfg.IsDev())

	ag := r.Group("/api/auth")
	{
		ag.POST("/signup", h.Signup)
		ag.POST("/login", h.Login)
		ag.POST("/forgot-password", h.ForgotPassword)
		ag.POST("/reset-password", h.ResetPassword)

		// /me 必须挂鉴权分组
		authed := ag.Group("")
		authed.Use(mdw.AuthGate(jwter, users, l))
		authed.GET("/me", h.Me)
	}

	return r
}
