package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/dmwangi/sokoni-backend/pkg/errors"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
)

type samplePayload struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"min=1"`
}

func TestDecodeJSONBody(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"basket","count":2}`))
		var payload samplePayload
		require.NoError(t, DecodeJSONBody(r, &payload))
		assert.Equal(t, "basket", payload.Name)
	})

	t.Run("unknownFieldRejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"basket","count":2,"extra":true}`))
		var payload samplePayload
		err := DecodeJSONBody(r, &payload)
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	})

	t.Run("fieldErrorsUseJSONNames", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"count":0}`))
		var payload samplePayload
		err := DecodeJSONBody(r, &payload)
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		details, ok := typed.Details().(map[string]string)
		require.True(t, ok)
		assert.Contains(t, details, "name")
		assert.Contains(t, details, "count")
	})
}

func TestParsePagination(t *testing.T) {
	t.Run("defaultsToFetchAll", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		params, err := ParsePagination(r)
		require.NoError(t, err)
		assert.Equal(t, 1, params.Page)
		assert.True(t, params.Unlimited())
	})

	t.Run("explicitPage", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?page=3&page_size=10", nil)
		params, err := ParsePagination(r)
		require.NoError(t, err)
		assert.Equal(t, 3, params.Page)
		assert.Equal(t, 10, params.PageSize)
	})

	t.Run("nonNumericRejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?page=abc", nil)
		_, err := ParsePagination(r)
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	})
}

func TestParseQueryModerationStatus(t *testing.T) {
	t.Run("absentMeansNoFilter", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		status, err := ParseQueryModerationStatus(r)
		require.NoError(t, err)
		assert.Nil(t, status)
	})

	t.Run("valid", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?status=pending", nil)
		status, err := ParseQueryModerationStatus(r)
		require.NoError(t, err)
		require.NotNil(t, status)
		assert.Equal(t, enums.ModerationStatusPending, *status)
	})

	t.Run("bogusRejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?status=maybe", nil)
		_, err := ParseQueryModerationStatus(r)
		require.Error(t, err)
	})
}
