package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-auth-service/internal/core/auth"
	"go-auth-service/internal/domain"
	resp "go-auth-service/internal/transport/http/response"
)

const (
	KeyUserID = "userId"
	KeyUser   = "user"
)

// AuthGate 校验 Bearer token 并按 uid 回查用户。
// 缺头/坏 token/用户已不存在：对外统一 401，只在日志里区分原因。
func AuthGate(jwter *auth.JWTer, users domain.UserRepository, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			l.Debug("auth gate: missing bearer header", zap.String("rid", c.GetString(KeyRequestID)))
			resp.Unauthorized(c, "Unauthorized")
			return
		}

		claims, err := jwter.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			reason := "invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				reason = "token expired"
			}
			l.Debug("auth gate: "+reason, zap.String("rid", c.GetString(KeyRequestID)))
			resp.Unauthorized(c, "Unauthorized")
			return
		}

		u, err := users.FindByID(c.Request.Context(), claims.UID)
		if err != nil {
			l.Error("auth gate: user lookup failed", zap.Error(err))
			resp.Fail(c, err, false)
			return
		}
		if u == nil {
			l.Debug("auth gate: user not found", zap.String("uid", claims.UID))
			resp.Unauthorized(c, "Unauthorized")
			return
		}

		c.Set(KeyUserID, u.ID)
		c.Set(KeyUser, u.Public())
		c.Next()
	}
}
