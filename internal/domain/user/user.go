package user

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/autopro-kz/autopro/internal/domain/user/valueobjects"
)

const (
	maxFailedLoginAttempts = 5
	lockDuration           = 15 * time.Minute
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// User is an account that can sign in. Owners publish listings and buy
// subscriptions; admins manage plans and payment accounts.
type User struct {
	id                  uint
	login               *vo.Login
	name                string
	phoneNumber         *string
	role                vo.Role
	passwordHash        string
	isActive            bool
	failedLoginAttempts int
	lockedUntil         *time.Time
	createdAt           time.Time
	updatedAt           time.Time
}

func NewUser(login *vo.Login, name string, phoneNumber *string, role vo.Role, now time.Time) (*User, error) {
	if login == nil {
		return nil, fmt.Errorf("login is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if len(name) > 255 {
		return nil, fmt.Errorf("name cannot exceed 255 characters")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}

	return &User{
		login:       login,
		name:        name,
		phoneNumber: phoneNumber,
		role:        role,
		isActive:    true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

type UserParams struct {
	ID                  uint
	Login               string
	Name                string
	PhoneNumber         *string
	Role                vo.Role
	PasswordHash        string
	IsActive            bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ReconstructUser rebuilds a user from persistence
func ReconstructUser(p UserParams) (*User, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	login, err := vo.NewLogin(p.Login)
	if err != nil {
		return nil, err
	}
	return &User{
		id:                  p.ID,
		login:               login,
		name:                p.Name,
		phoneNumber:         p.PhoneNumber,
		role:                p.Role,
		passwordHash:        p.PasswordHash,
		isActive:            p.IsActive,
		failedLoginAttempts: p.FailedLoginAttempts,
		lockedUntil:         p.LockedUntil,
		createdAt:           p.CreatedAt,
		updatedAt:           p.UpdatedAt,
	}, nil
}

func (u *User) SetPassword(password *vo.Password, hasher PasswordHasher, now time.Time) error {
	if password == nil {
		return fmt.Errorf("password cannot be nil")
	}

	hash, err := hasher.Hash(password.String())
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u.passwordHash = hash
	u.updatedAt = now
	return nil
}

// Authenticate checks the password and maintains the lockout counter.
// The caller persists the user whatever the outcome.
func (u *User) Authenticate(plainPassword string, hasher PasswordHasher, now time.Time) error {
	if !u.isActive {
		return ErrAccountDisabled
	}
	if u.IsLocked(now) {
		return ErrAccountLocked
	}
	if u.passwordHash == "" {
		return ErrInvalidCredential
	}

	if err := hasher.Verify(plainPassword, u.passwordHash); err != nil {
		u.failedLoginAttempts++
		if u.failedLoginAttempts >= maxFailedLoginAttempts {
			until := now.Add(lockDuration)
			u.lockedUntil = &until
			u.failedLoginAttempts = 0
		}
		u.updatedAt = now
		return ErrInvalidCredential
	}

	u.failedLoginAttempts = 0
	u.lockedUntil = nil
	u.updatedAt = now
	return nil
}

func (u *User) IsLocked(now time.Time) bool {
	return u.lockedUntil != nil && now.Before(*u.lockedUntil)
}

func (u *User) IsAdmin() bool {
	return u.role.IsAdmin()
}

func (u *User) SetID(id uint) {
	u.id = id
}

func (u *User) ID() uint {
	return u.id
}

func (u *User) Login() string {
	return u.login.String()
}

func (u *User) Name() string {
	return u.name
}

func (u *User) PhoneNumber() *string {
	return u.phoneNumber
}

func (u *User) Role() vo.Role {
	return u.role
}

func (u *User) PasswordHash() string {
	return u.passwordHash
}

func (u *User) IsActive() bool {
	return u.isActive
}

func (u *User) FailedLoginAttempts() int {
	return u.failedLoginAttempts
}

func (u *User) LockedUntil() *time.Time {
	return u.lockedUntil
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}
