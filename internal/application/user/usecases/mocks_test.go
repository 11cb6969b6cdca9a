package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/autopro-kz/autopro/internal/domain/user"
	vo "github.com/autopro-kz/autopro/internal/domain/user/valueobjects"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type mockUserRepository struct {
	CreateFunc        func(ctx context.Context, u *user.User) error
	UpdateFunc        func(ctx context.Context, u *user.User) error
	GetByIDFunc       func(ctx context.Context, id uint) (*user.User, error)
	GetByLoginFunc    func(ctx context.Context, login string) (*user.User, error)
	ExistsByLoginFunc func(ctx context.Context, login string) (bool, error)

	updated []*user.User
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	u.SetID(1)
	return nil
}

func (m *mockUserRepository) Update(ctx context.Context, u *user.User) error {
	m.updated = append(m.updated, u)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, u)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, user.ErrUserNotFound
}

func (m *mockUserRepository) GetByLogin(ctx context.Context, login string) (*user.User, error) {
	if m.GetByLoginFunc != nil {
		return m.GetByLoginFunc(ctx, login)
	}
	return nil, user.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	if m.ExistsByLoginFunc != nil {
		return m.ExistsByLoginFunc(ctx, login)
	}
	return false, nil
}

// plainHasher stores "hashed:" + password.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Verify(password, hash string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type mockTokenIssuer struct {
	err error
}

func (m *mockTokenIssuer) Issue(userID uint, role vo.Role) (string, int64, error) {
	if m.err != nil {
		return "", 0, m.err
	}
	return "token-" + role.String(), 86400, nil
}

func storedUser(id uint, login, password string, role vo.Role) *user.User {
	u, err := user.ReconstructUser(user.UserParams{
		ID:           id,
		Login:        login,
		Name:         "Aidar",
		Role:         role,
		PasswordHash: "hashed:" + password,
		IsActive:     true,
		CreatedAt:    fixedNow,
		UpdatedAt:    fixedNow,
	})
	if err != nil {
		panic(err)
	}
	return u
}
