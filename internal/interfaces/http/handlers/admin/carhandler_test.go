package admin

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	listingdto "github.com/autopro-kz/autopro/internal/application/listing/dto"
	listingUsecases "github.com/autopro-kz/autopro/internal/application/listing/usecases"
	"github.com/autopro-kz/autopro/internal/interfaces/http/handlers/testutil"
	apperrors "github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
)

type mockListCarsUC struct {
	got listingUsecases.ListCarsQuery
}

func (m *mockListCarsUC) Execute(ctx context.Context, q listingUsecases.ListCarsQuery) ([]*listingdto.CarDTO, error) {
	m.got = q
	return []*listingdto.CarDTO{}, nil
}

type mockToggleCarUC struct {
	got uint
	err error
}

func (m *mockToggleCarUC) Execute(ctx context.Context, carID uint) (*listingdto.CarDTO, error) {
	m.got = carID
	if m.err != nil {
		return nil, m.err
	}
	return &listingdto.CarDTO{ID: carID, IsActive: true}, nil
}

func TestCarHandler_ListFilter(t *testing.T) {
	list := &mockListCarsUC{}
	h := NewCarHandler(list, &mockToggleCarUC{}, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/admin/cars?is_active=false", nil)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, list.got.IsActive)
	assert.False(t, *list.got.IsActive)

	c, w = testutil.NewTestContext(http.MethodGet, "/admin/cars", nil)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, list.got.IsActive)

	c, w = testutil.NewTestContext(http.MethodGet, "/admin/cars?is_active=maybe", nil)
	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCarHandler_ToggleActive(t *testing.T) {
	toggle := &mockToggleCarUC{}
	h := NewCarHandler(&mockListCarsUC{}, toggle, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/admin/cars/7/toggle-active", nil)
	testutil.SetURLParam(c, "id", "7")
	h.ToggleActive(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(7), toggle.got)

	h = NewCarHandler(&mockListCarsUC{}, &mockToggleCarUC{err: apperrors.NewNotFoundError(i18n.KeyCarNotFound)}, testutil.NewMockLogger())
	c, w = testutil.NewTestContext(http.MethodPost, "/admin/cars/8/toggle-active", nil)
	testutil.SetURLParam(c, "id", "8")
	h.ToggleActive(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
