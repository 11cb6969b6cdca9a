package dto

import (
	"time"

	"github.com/autopro-kz/autopro/internal/domain/user"
)

type UserDTO struct {
	ID          uint      `json:"id"`
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	PhoneNumber *string   `json:"phone_number"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

type AuthResultDTO struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	User        *UserDTO `json:"user"`
}

func ToUserDTO(u *user.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID(),
		Login:       u.Login(),
		Name:        u.Name(),
		PhoneNumber: u.PhoneNumber(),
		Role:        u.Role().String(),
		CreatedAt:   u.CreatedAt(),
	}
}
