package handlers

import (
	"context"

	userdto "github.com/autopro-kz/autopro/internal/application/user/dto"
	userUsecases "github.com/autopro-kz/autopro/internal/application/user/usecases"
)

// Use case interfaces for AuthHandler

type registerUseCase interface {
	Execute(ctx context.Context, cmd userUsecases.RegisterCommand) (*userdto.UserDTO, error)
}

type loginUseCase interface {
	Execute(ctx context.Context, cmd userUsecases.LoginCommand) (*userdto.AuthResultDTO, error)
}

type getMeUseCase interface {
	Execute(ctx context.Context, userID uint) (*userdto.UserDTO, error)
}
