package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookcart/internal/domain/user"
	apperrors "github.com/xiebiao/bookcart/pkg/errors"
	"github.com/xiebiao/bookcart/pkg/jwt"
	"github.com/xiebiao/bookcart/pkg/logger"
)

// SessionStore 会话与Token黑名单存储(Redis实现)
type SessionStore interface {
	SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error
	SessionExists(ctx context.Context, userID uint) (bool, error)
	DeleteSession(ctx context.Context, userID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

// LoginUseCase 用户登录用例
// 1. 验证邮箱密码
// 2. 生成JWT Token对
// 3. 保存会话到Redis
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore SessionStore
	sessionTTL   time.Duration
}

// NewLoginUseCase 创建登录用例,sessionTTL一般与Refresh Token有效期一致
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore SessionStore,
	sessionTTL time.Duration,
) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		sessionTTL:   sessionTTL,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResult 登录结果
type LoginResult struct {
	User   *user.User
	Tokens *jwt.TokenPair
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	tokens, err := uc.jwtManager.GenerateToken(u.ID, u.Email, u.Nickname)
	if err != nil {
		return nil, err
	}

	session := map[string]interface{}{
		"user_id":  u.ID,
		"email":    u.Email,
		"nickname": u.Nickname,
		"login_at": time.Now().Unix(),
		"ip":       req.ClientIP,
	}
	// 会话保存失败不影响登录
	if err := uc.sessionStore.SaveSession(ctx, u.ID, session, uc.sessionTTL); err != nil {
		logger.FromContext(ctx).Warn("保存会话失败", zap.Uint("user_id", u.ID), zap.Error(err))
	}

	return &LoginResult{User: u, Tokens: tokens}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessionStore SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore}
}

// LogoutRequest 登出请求
type LogoutRequest struct {
	UserID      uint
	AccessToken string
	TokenTTL    time.Duration // Token剩余有效期,黑名单只需保留这么久
}

// Execute 删除会话并把Access Token加入黑名单
func (uc *LogoutUseCase) Execute(ctx context.Context, req LogoutRequest) error {
	if err := uc.sessionStore.DeleteSession(ctx, req.UserID); err != nil {
		return err
	}
	if req.TokenTTL <= 0 {
		return nil
	}
	return uc.sessionStore.AddToBlacklist(ctx, req.AccessToken, req.TokenTTL)
}

// RefreshUseCase 刷新Access Token
// Refresh Token本身无法撤销，登出时删除的会话作为撤销标记
type RefreshUseCase struct {
	jwtManager   *jwt.Manager
	sessionStore SessionStore
}

// NewRefreshUseCase 创建刷新用例
func NewRefreshUseCase(jwtManager *jwt.Manager, sessionStore SessionStore) *RefreshUseCase {
	return &RefreshUseCase{jwtManager: jwtManager, sessionStore: sessionStore}
}

// Execute 校验Refresh Token与会话，签发新的Access Token
func (uc *RefreshUseCase) Execute(ctx context.Context, refreshToken string) (string, error) {
	claims, err := uc.jwtManager.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	ok, err := uc.sessionStore.SessionExists(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperrors.ErrUnauthorized
	}
	return uc.jwtManager.RefreshAccessToken(refreshToken)
}
