package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookcart/pkg/errors"
)

// DefaultBcryptCost 默认bcrypt强度
// cost每+1耗时翻倍，12约250ms
const DefaultBcryptCost = 12

// Service 用户领域服务
// 对购物车和订单来说，用户是外部协作者：只提供已认证的顾客ID（即用户ID）
type Service interface {
	// Register 用户注册
	Register(ctx context.Context, email, password, nickname string) (*User, error)

	// Login 用户登录，返回通过密码校验的用户
	Login(ctx context.Context, email, password string) (*User, error)

	// GetUser 按ID查询用户
	GetUser(ctx context.Context, id uint) (*User, error)
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建用户服务，cost<=0时使用DefaultBcryptCost
func NewService(repo Repository, cost int) Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &service{repo: repo, cost: cost}
}

// Register 用户注册
// 业务规则：
// 1. 邮箱格式校验
// 2. 密码强度校验（8-20位，包含字母和数字）
// 3. 邮箱唯一性由数据库UNIQUE索引保证，Repository转换为ErrEmailDuplicate
func (s *service) Register(ctx context.Context, email, password, nickname string) (*User, error) {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return nil, ErrInvalidEmail
	}

	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	if n := utf8.RuneCountInString(strings.TrimSpace(nickname)); n < 2 || n > 50 {
		return nil, ErrInvalidNickname
	}

	// bcrypt自动加盐，相同密码每次结果都不同
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	u := newUser(email, string(hashed), nickname, time.Now())
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login 用户登录
// 邮箱不存在和密码错误返回同一个错误，避免暴露注册状态
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}
	if err := u.VerifyPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser 按ID查询用户
func (s *service) GetUser(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	letterPattern = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
)

// validatePasswordStrength 8-20位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}
	if !letterPattern.MatchString(password) || !digitPattern.MatchString(password) {
		return apperrors.ErrWeakPassword
	}
	return nil
}
