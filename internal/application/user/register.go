package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookcart/internal/domain/user"
	"github.com/xiebiao/bookcart/pkg/logger"
)

// RegisterUseCase 注册顾客账号,返回的用户ID即顾客ID
type RegisterUseCase struct {
	users user.Service
}

func NewRegisterUseCase(users user.Service) *RegisterUseCase {
	return &RegisterUseCase{users: users}
}

type RegisterRequest struct {
	Email    string
	Password string
	Nickname string
}

func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*user.User, error) {
	u, err := uc.users.Register(ctx, req.Email, req.Password, req.Nickname)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("顾客注册", zap.Uint("user_id", u.ID))
	return u, nil
}
