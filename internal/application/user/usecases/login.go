package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/autopro-kz/autopro/internal/application/user/dto"
	"github.com/autopro-kz/autopro/internal/domain/user"
	vo "github.com/autopro-kz/autopro/internal/domain/user/valueobjects"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	apperrors "github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(userID uint, role vo.Role) (token string, expiresIn int64, err error)
}

type LoginCommand struct {
	Login    string
	Password string
}

type LoginUseCase struct {
	userRepo user.Repository
	hasher   user.PasswordHasher
	tokens   TokenIssuer
	clock    biztime.Clock
	logger   logger.Interface
}

func NewLoginUseCase(
	userRepo user.Repository,
	hasher user.PasswordHasher,
	tokens TokenIssuer,
	clock biztime.Clock,
	logger logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		clock:    clock,
		logger:   logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*dto.AuthResultDTO, error) {
	existing, err := uc.userRepo.GetByLogin(ctx, strings.ToLower(strings.TrimSpace(cmd.Login)))
	if err != nil {
		// do not reveal whether the login exists
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError(i18n.KeyAuthFailed)
		}
		uc.logger.Errorw("failed to get user by login", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	authErr := existing.Authenticate(cmd.Password, uc.hasher, uc.clock.Now())
	// failed-attempt counters change on both outcomes
	if err := uc.userRepo.Update(ctx, existing); err != nil {
		uc.logger.Warnw("failed to save login attempt", "user_id", existing.ID(), "error", err)
	}
	if authErr != nil {
		switch {
		case errors.Is(authErr, user.ErrAccountLocked):
			uc.logger.Warnw("login attempt on locked account", "user_id", existing.ID())
			return nil, apperrors.NewTooManyRequestsError(i18n.KeyAuthFailed, authErr.Error())
		case errors.Is(authErr, user.ErrAccountDisabled):
			return nil, apperrors.NewForbiddenError(i18n.KeyForbidden, authErr.Error())
		default:
			return nil, apperrors.NewUnauthorizedError(i18n.KeyAuthFailed)
		}
	}

	token, expiresIn, err := uc.tokens.Issue(existing.ID(), existing.Role())
	if err != nil {
		uc.logger.Errorw("failed to issue access token", "user_id", existing.ID(), "error", err)
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	uc.logger.Infow("user logged in", "user_id", existing.ID())
	return &dto.AuthResultDTO{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		User:        dto.ToUserDTO(existing),
	}, nil
}
