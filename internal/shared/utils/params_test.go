package utils

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopro-kz/autopro/internal/shared/errors"
)

func TestParseUintParam(t *testing.T) {
	c, _ := newContext("")
	c.Params = gin.Params{{Key: "id", Value: "42"}, {Key: "bad", Value: "x1"}, {Key: "zero", Value: "0"}}

	id, err := ParseUintParam(c, "id")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = ParseUintParam(c, "bad")
	assert.True(t, errors.IsValidationError(err))

	_, err = ParseUintParam(c, "zero")
	assert.True(t, errors.IsValidationError(err))
}

func TestGetUserID(t *testing.T) {
	c, _ := newContext("")
	_, ok := GetUserID(c)
	assert.False(t, ok)

	c.Set("user_id", uint(7))
	id, ok := GetUserID(c)
	assert.True(t, ok)
	assert.Equal(t, uint(7), id)
}
