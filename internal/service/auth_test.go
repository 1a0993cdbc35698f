package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-auth-service/internal/core/auth"
	"go-auth-service/internal/domain"
	"go-auth-service/internal/repo"
	"go-auth-service/pkg/utils"
)

// memRepo 是 domain.UserRepository 的内存实现，按值存取避免别名共享
type memRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemRepo() *memRepo { return &memRepo{users: map[string]domain.User{}} }

func (m *memRepo) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.users {
		if ex.Email == u.Email {
			return repo.ErrDuplicateEmail
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = *u
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *memRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memRepo) FindByResetDigest(_ context.Context, digest string, now time.Time) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ResetDigest != nil && *u.ResetDigest == digest &&
			u.ResetExpiresAt != nil && u.ResetExpiresAt.After(now) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memRepo) Update(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.UpdatedAt = time.Now()
	m.users[u.ID] = *u
	return nil
}

func newTestService(t *testing.T, users domain.UserRepository, dev bool) *AuthService {
	t.Helper()
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: 7 * 24 * time.Hour}
	return NewAuthService(users, jwter, 10*time.Minute, "http://localhost:5173", dev, zap.NewNop())
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and issues a valid token", func(t *testing.T) {
		users := newMemRepo()
		svc := newTestService(t, users, false)

		out, err := svc.Signup(ctx, "A@X.com ", "password1", " Alice ")
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", out.User.Email) // trim + lowercase
		assert.Equal(t, "Alice", out.User.Name)
		assert.NotEmpty(t, out.User.ID)
		assert.NotEmpty(t, out.Token)

		stored, err := users.FindByID(ctx, out.User.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.True(t, utils.CheckPassword("password1", stored.PasswordHash))
	})

	t.Run("distinct emails get distinct ids", func(t *testing.T) {
		users := newMemRepo()
		svc := newTestService(t, users, false)

		a, err := svc.Signup(ctx, "a@x.com", "password1", "")
		require.NoError(t, err)
		b, err := svc.Signup(ctx, "b@x.com", "password1", "")
		require.NoError(t, err)
		assert.NotEqual(t, a.User.ID, b.User.ID)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		users := newMemRepo()
		svc := newTestService(t, users, false)

		_, err := svc.Signup(ctx, "a@x.com", "password1", "")
		require.NoError(t, err)

		_, err = svc.Signup(ctx, "A@X.COM", "password2", "")
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	users := newMemRepo()
	svc := newTestService(t, users, false)

	_, err := svc.Signup(ctx, "a@x.com", "password1", "")
	require.NoError(t, err)

	t.Run("valid credentials issue a fresh token", func(t *testing.T) {
		out, err := svc.Login(ctx, "a@x.com", "password1")
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", out.User.Email)
		assert.NotEmpty(t, out.Token)
	})

	t.Run("wrong password and unknown email yield the identical error", func(t *testing.T) {
		_, errPwd := svc.Login(ctx, "a@x.com", "wrongpass")
		_, errMail := svc.Login(ctx, "nobody@x.com", "password1")
		assert.ErrorIs(t, errPwd, ErrInvalidCredentials)
		assert.ErrorIs(t, errMail, ErrInvalidCredentials)
		assert.Equal(t, errPwd.Error(), errMail.Error())
	})
}

func TestForgotPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("known and unknown email return the same message", func(t *testing.T) {
		users := newMemRepo()
		svc := newTestService(t, users, false)
		_, err := svc.Signup(ctx, "a@x.com", "password1", "")
		require.NoError(t, err)

		hit, err := svc.ForgotPassword(ctx, "a@x.com")
		require.NoError(t, err)
		miss, err := svc.ForgotPassword(ctx, "nobody@x.com")
		require.NoError(t, err)
		assert.Equal(t, hit.Message, miss.Message)
	})

	t.Run("unknown email stores nothing", func(t *testing.T) {
		users := newMemRepo()
		svc := newTestService(t, users, true)

		out, err := svc.ForgotPassword(ctx, "nobody@x.com")
		require.NoError(t, err)
		assert.Empty(t, out.ResetToken)
		assert.Empty(t, out.ResetURL)
	})

	t.Run("dev mode surfaces the reset secret, production does not", func(t *testing.T) {
		users := newMemRepo()
		dev := newTestService(t, users, true)
		_, err := dev.Signup(ctx, "a@x.com", "password1", "")
		require.NoError(t, err)

		out, err := dev.ForgotPassword(ctx, "a@x.com")
		require.NoError(t, err)
		assert.NotEmpty(t, out.ResetToken)
		assert.Contains(t, out.ResetURL, out.ResetToken)

		prod := newTestService(t, users, false)
		out, err = prod.ForgotPassword(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Empty(t, out.ResetToken)
		assert.Empty(t, out.ResetURL)
	})

	t.Run("a second request overwrites the pending reset", func(t *testing.T) {
		users := newMemRepo()
		svc := newTestService(t, users, true)
		signed, err := svc.Signup(ctx, "a@x.com", "password1", "")
		require.NoError(t, err)

		first, err := svc.ForgotPassword(ctx, "a@x.com")
		require.NoError(t, err)
		second, err := svc.ForgotPassword(ctx, "a@x.com")
		require.NoError(t, err)
		require.NotEqual(t, first.ResetToken, second.ResetToken)

		// 旧口令已被覆盖
		_, err = svc.ResetPassword(ctx, first.ResetToken, "newpass12")
		assert.ErrorIs(t, err, ErrInvalidOrExpiredReset)

		_, err = svc.ResetPassword(ctx, second.ResetToken, "newpass12")
		require.NoError(t, err)

		stored, err := users.FindByID(ctx, signed.User.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.ResetDigest)
		assert.Nil(t, stored.ResetExpiresAt)
	})
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*AuthService, *memRepo, string) {
		users := newMemRepo()
		svc := newTestService(t, users, true)
		_, err := svc.Signup(ctx, "a@x.com", "password1", "")
		require.NoError(t, err)
		out, err := svc.ForgotPassword(ctx, "a@x.com")
		require.NoError(t, err)
		return svc, users, out.ResetToken
	}

	t.Run("valid secret resets the password once", func(t *testing.T) {
		svc, _, secret := setup(t)

		msg, err := svc.ResetPassword(ctx, secret, "newpass12")
		require.NoError(t, err)
		assert.NotEmpty(t, msg)

		// 旧密码失效，新密码可登录
		_, err = svc.Login(ctx, "a@x.com", "password1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = svc.Login(ctx, "a@x.com", "newpass12")
		assert.NoError(t, err)

		// 口令一次性，重放失败
		_, err = svc.ResetPassword(ctx, secret, "another12")
		assert.ErrorIs(t, err, ErrInvalidOrExpiredReset)
	})

	t.Run("unknown secret is rejected", func(t *testing.T) {
		svc, _, _ := setup(t)
		_, err := svc.ResetPassword(ctx, "deadbeef", "newpass12")
		assert.ErrorIs(t, err, ErrInvalidOrExpiredReset)
	})

	t.Run("expired secret is rejected", func(t *testing.T) {
		svc, users, secret := setup(t)

		// 把过期时间拨到过去
		u, err := users.FindByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		past := time.Now().Add(-time.Minute)
		u.ResetExpiresAt = &past
		require.NoError(t, users.Update(ctx, u))

		_, err = svc.ResetPassword(ctx, secret, "newpass12")
		assert.ErrorIs(t, err, ErrInvalidOrExpiredReset)
	})
}
