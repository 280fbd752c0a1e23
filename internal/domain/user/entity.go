package user

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookcart/pkg/errors"
)

// User 用户即顾客,购物车和订单都以User.ID标识归属
type User struct {
	ID        uint
	Email     string // 小写存储
	Password  string // bcrypt哈希,不对外暴露
	Nickname  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func newUser(email, hashedPassword, nickname string, now time.Time) *User {
	return &User{
		Email:     NormalizeEmail(email),
		Password:  hashedPassword,
		Nickname:  strings.TrimSpace(nickname),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// VerifyPassword 校验明文密码
func (u *User) VerifyPassword(plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return apperrors.ErrInvalidPassword
	default:
		return apperrors.Wrap(err, "密码验证失败")
	}
}

// NormalizeEmail 邮箱不区分大小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var (
	ErrInvalidEmail    = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	ErrInvalidNickname = apperrors.New(apperrors.ErrCodeInvalidParams, "昵称长度应为2-50个字符")
)
