package usecases

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopro-kz/autopro/internal/domain/listing"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	apperrors "github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

func TestCreateCar_AllowedCreatesInactiveAndNotifies(t *testing.T) {
	var created *listing.Car
	repo := &mockCarRepository{
		CreateFunc: func(ctx context.Context, car *listing.Car) error {
			car.SetID(11)
			created = car
			return nil
		},
	}
	notifier := &chanNotifier{notices: make(chan NewListingNotice, 1)}
	uc := NewCreateCarUseCase(repo, allow(), passthroughTx{}, biztime.FixedClock{T: fixedNow}, logger.NewNop())
	uc.SetNotifier(notifier)

	price := int64(25000)
	got, err := uc.Execute(context.Background(), CreateCarCommand{OwnerID: 9, Name: "Kia K5", PricePerDay: &price})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, uint(11), got.ID)
	assert.False(t, got.IsActive)
	assert.Equal(t, uint(9), got.AuthorID)

	select {
	case notice := <-notifier.notices:
		assert.Equal(t, uint(11), notice.CarID)
		assert.Equal(t, "Kia K5", notice.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("moderators not notified")
	}
}

func TestCreateCar_DeniedByEntitlement(t *testing.T) {
	for _, reason := range []string{i18n.KeyNoSubscription, i18n.KeyCarLimitReached} {
		t.Run(reason, func(t *testing.T) {
			repo := &mockCarRepository{
				CreateFunc: func(ctx context.Context, car *listing.Car) error {
					t.Fatal("car must not be created")
					return nil
				},
			}
			uc := NewCreateCarUseCase(repo, denyWith(reason), passthroughTx{}, biztime.FixedClock{T: fixedNow}, logger.NewNop())

			_, err := uc.Execute(context.Background(), CreateCarCommand{OwnerID: 9, Name: "Kia K5"})

			require.Error(t, err)
			appErr := apperrors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, http.StatusForbidden, appErr.Code)
			assert.Equal(t, reason, appErr.Message)
		})
	}
}

func TestCreateCar_ValidationAndCheckerError(t *testing.T) {
	uc := NewCreateCarUseCase(&mockCarRepository{}, allow(), passthroughTx{}, biztime.FixedClock{T: fixedNow}, logger.NewNop())
	_, err := uc.Execute(context.Background(), CreateCarCommand{OwnerID: 9, Name: "  "})
	assert.True(t, apperrors.IsValidationError(err))

	uc = NewCreateCarUseCase(&mockCarRepository{}, &stubChecker{err: errors.New("db down")}, passthroughTx{}, biztime.FixedClock{T: fixedNow}, logger.NewNop())
	_, err = uc.Execute(context.Background(), CreateCarCommand{OwnerID: 9, Name: "Kia"})
	require.Error(t, err)
	assert.False(t, apperrors.IsAppError(err))
}

func TestDeleteCar(t *testing.T) {
	tests := []struct {
		name     string
		cmd      DeleteCarCommand
		wantCode int
		wantKey  string
	}{
		{name: "author deletes", cmd: DeleteCarCommand{CarID: 1, UserID: 9}},
		{name: "admin deletes", cmd: DeleteCarCommand{CarID: 1, UserID: 2, IsAdmin: true}},
		{name: "stranger", cmd: DeleteCarCommand{CarID: 1, UserID: 2}, wantCode: http.StatusForbidden, wantKey: i18n.KeyNotAuthorized},
		{name: "missing", cmd: DeleteCarCommand{CarID: 5, UserID: 9}, wantCode: http.StatusNotFound, wantKey: i18n.KeyCarNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var saved *listing.Car
			repo := &mockCarRepository{
				GetByIDFunc: func(ctx context.Context, id uint) (*listing.Car, error) {
					if id == 1 {
						return storedCar(1, 9), nil
					}
					return nil, listing.ErrCarNotFound
				},
				UpdateFunc: func(ctx context.Context, car *listing.Car) error {
					saved = car
					return nil
				},
			}
			uc := NewDeleteCarUseCase(repo, biztime.FixedClock{T: fixedNow}, logger.NewNop())

			err := uc.Execute(context.Background(), tt.cmd)

			if tt.wantKey != "" {
				require.Error(t, err)
				appErr := apperrors.GetAppError(err)
				require.NotNil(t, appErr)
				assert.Equal(t, tt.wantCode, appErr.Code)
				assert.Equal(t, tt.wantKey, appErr.Message)
				assert.Nil(t, saved)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, saved)
			assert.True(t, saved.IsDeleted())
			assert.Equal(t, fixedNow, *saved.DeleteDate())
		})
	}
}

func TestListMyCars(t *testing.T) {
	repo := &mockCarRepository{
		ListByAuthorFunc: func(ctx context.Context, authorID uint) ([]*listing.Car, error) {
			if authorID == 9 {
				return []*listing.Car{storedCar(1, 9), storedCar(2, 9)}, nil
			}
			return nil, nil
		},
	}
	uc := NewListMyCarsUseCase(repo, logger.NewNop())

	mine, err := uc.Execute(context.Background(), 9)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := uc.Execute(context.Background(), 3)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestListCars_PassesModerationFilter(t *testing.T) {
	var got listing.CarFilter
	repo := &mockCarRepository{
		ListFunc: func(ctx context.Context, filter listing.CarFilter) ([]*listing.Car, error) {
			got = filter
			return []*listing.Car{storedCar(4, 9)}, nil
		},
	}
	uc := NewListCarsUseCase(repo, logger.NewNop())

	active := true
	cars, err := uc.Execute(context.Background(), ListCarsQuery{IsActive: &active})
	require.NoError(t, err)
	require.Len(t, cars, 1)
	require.NotNil(t, got.IsActive)
	assert.True(t, *got.IsActive)

	_, err = uc.Execute(context.Background(), ListCarsQuery{})
	require.NoError(t, err)
	assert.Nil(t, got.IsActive)
}

func TestToggleCarActive(t *testing.T) {
	t.Run("publishes a pending car", func(t *testing.T) {
		var saved *listing.Car
		repo := &mockCarRepository{
			GetByIDFunc: func(ctx context.Context, id uint) (*listing.Car, error) {
				return listing.ReconstructCar(listing.CarParams{ID: id, AuthorID: 9, Name: "Camry"}), nil
			},
			UpdateFunc: func(ctx context.Context, car *listing.Car) error {
				saved = car
				return nil
			},
		}
		uc := NewToggleCarActiveUseCase(repo, biztime.FixedClock{T: fixedNow}, logger.NewNop())

		car, err := uc.Execute(context.Background(), 4)
		require.NoError(t, err)
		assert.True(t, car.IsActive)
		require.NotNil(t, saved)
		assert.True(t, saved.IsActive())
		assert.Equal(t, fixedNow, saved.UpdatedAt())
	})

	t.Run("missing car", func(t *testing.T) {
		uc := NewToggleCarActiveUseCase(&mockCarRepository{}, biztime.FixedClock{T: fixedNow}, logger.NewNop())

		_, err := uc.Execute(context.Background(), 4)
		appErr := apperrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusNotFound, appErr.Code)
		assert.Equal(t, i18n.KeyCarNotFound, appErr.Message)
	})
}
