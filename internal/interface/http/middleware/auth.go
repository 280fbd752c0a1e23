package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookcart/pkg/errors"
	"github.com/xiebiao/bookcart/pkg/jwt"
	"github.com/xiebiao/bookcart/pkg/logger"
	"github.com/xiebiao/bookcart/pkg/response"
)

const (
	ctxKeyUserID      = "user_id"
	ctxKeyEmail       = "email"
	ctxKeyNickname    = "nickname"
	ctxKeyAccessToken = "access_token"
	ctxKeyClaims      = "claims"
)

// TokenBlacklist Token黑名单(Redis SessionStore实现)
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 1. 从Header提取Token
// 2. 检查Token黑名单
// 3. 验证Token有效性
// 4. 将用户信息注入Context,用户ID即顾客ID
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager, blacklist: blacklist}
}

// RequireAuth 要求登录
// 使用方式：
//
//	authorized := r.Group("/api/v1")
//	authorized.Use(authMiddleware.RequireAuth())
//	authorized.POST("/carts", cartHandler.CreateCart)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 格式：Authorization: Bearer <token>
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		// 已登出或被强制失效的Token
		blocked, err := m.blacklist.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("检查Token黑名单失败", zap.Error(err))
			response.Error(c, err)
			c.Abort()
			return
		}
		if blocked {
			response.ErrorWithCode(c, apperrors.ErrCodeTokenExpired, "Token已失效，请重新登录")
			c.Abort()
			return
		}

		claims, err := m.jwtManager.ParseAccessToken(tokenString)
		if err != nil {
			response.Error(c, err) // 自动处理ErrTokenExpired、ErrInvalidToken
			c.Abort()
			return
		}

		c.Set(ctxKeyUserID, claims.UserID)
		c.Set(ctxKeyEmail, claims.Email)
		c.Set(ctxKeyNickname, claims.Nickname)
		c.Set(ctxKeyAccessToken, tokenString)
		c.Set(ctxKeyClaims, claims)

		// 后续日志自动带上user_id
		ctx := logger.WithContext(c.Request.Context(), logger.FromContext(c.Request.Context()).With(zap.Uint("user_id", claims.UserID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetUserID 从Context获取当前登录用户ID,未登录返回0
func GetUserID(c *gin.Context) uint {
	if userID, exists := c.Get(ctxKeyUserID); exists {
		if uid, ok := userID.(uint); ok {
			return uid
		}
	}
	return 0
}

// MustGetUserID 用于已经通过RequireAuth中间件的Handler
func MustGetUserID(c *gin.Context) uint {
	userID := GetUserID(c)
	if userID == 0 {
		panic("user_id not found in context")
	}
	return userID
}

// GetAccessToken 当前请求使用的Access Token
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxKeyAccessToken)
}

// GetClaims 当前请求的Token Claims
func GetClaims(c *gin.Context) *jwt.Claims {
	if v, ok := c.Get(ctxKeyClaims); ok {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetTokenTTL Access Token剩余有效期,用于登出时设置黑名单过期时间
func GetTokenTTL(c *gin.Context, now time.Time) time.Duration {
	claims := GetClaims(c)
	if claims == nil {
		return 0
	}
	return claims.RemainingTTL(now)
}
