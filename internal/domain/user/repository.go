package user

import "context"

// Repository 用户仓储,邮箱以小写形式存取
type Repository interface {
	// Create 邮箱已存在返回errors.ErrEmailDuplicate
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
