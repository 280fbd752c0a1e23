package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/bookcart/internal/domain/user"
	"github.com/xiebiao/bookcart/internal/testutil/memstore"
	apperrors "github.com/xiebiao/bookcart/pkg/errors"
)

func TestRegisterAndLogin(t *testing.T) {
	svc := user.NewService(memstore.New().Users(), bcrypt.MinCost)
	ctx := context.Background()

	u, err := svc.Register(ctx, "reader@example.com", "password123", "读者")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "password123", u.Password)

	_, err = svc.Register(ctx, "reader@example.com", "password123", "读者二号")
	assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)

	got, err := svc.Login(ctx, "reader@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	// 邮箱大小写不敏感
	got, err = svc.Login(ctx, " Reader@Example.COM", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Register(ctx, "READER@example.com", "password123", "读者三号")
	assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)

	_, err = svc.Login(ctx, "reader@example.com", "wrong123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}

func TestRegisterValidation(t *testing.T) {
	svc := user.NewService(memstore.New().Users(), bcrypt.MinCost)
	ctx := context.Background()

	_, err := svc.Register(ctx, "not-an-email", "password123", "读者")
	assert.ErrorIs(t, err, user.ErrInvalidEmail)

	_, err = svc.Register(ctx, "a@b.cn", "short1", "读者")
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)

	_, err = svc.Register(ctx, "a@b.cn", "onlyletters", "读者")
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)

	_, err = svc.Register(ctx, "a@b.cn", "password123", "x")
	assert.ErrorIs(t, err, user.ErrInvalidNickname)
}
