package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/flowbit/backend/internal/models"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{models.NewValidationError("name", "please add a name"), http.StatusBadRequest, "name: please add a name"},
		{models.ErrDuplicateEmail, http.StatusBadRequest, "user already exists"},
		{models.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
		{models.ErrUnauthenticated, http.StatusUnauthorized, "not authorized, no token"},
		{fmt.Errorf("%w: token is expired", models.ErrInvalidToken), http.StatusUnauthorized, "not authorized, token failed"},
		{models.ErrForbidden, http.StatusForbidden, "user not authorized"},
		{models.ErrNotFound, http.StatusNotFound, "not found"},
		{NotFoundMessage(models.ErrNotFound, "subscription not found"), http.StatusNotFound, "subscription not found"},
		{errors.New("mongo insert: connection refused"), http.StatusInternalServerError, "server error"},
	}
	for _, tt := range tests {
		status, msg := StatusFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.msg, msg, tt.err.Error())
	}
}

func TestNotFoundMessage_PassesOtherErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	assert.Same(t, boom, NotFoundMessage(boom, "user not found"))
	assert.ErrorIs(t, NotFoundMessage(models.ErrNotFound, "user not found"), models.ErrNotFound)
}

func TestError_HidesInternals(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/subscriptions", nil)
	Error(rec, req, errors.New("pq: password authentication failed for user admin"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"server error"}`, rec.Body.String())
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		var v models.RegisterRequest
		err := Decode(req, &v)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.EqualError(t, err, "invalid request body")
	})

	t.Run("field decoder error is kept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"category":"Travel"}`))
		var v models.SubscriptionFields
		err := Decode(req, &v)
		var ve *models.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "category", ve.Field)
	})

	t.Run("ok", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.c","password":"secret1"}`))
		var v models.LoginRequest
		require.NoError(t, Decode(req, &v))
		assert.Equal(t, "a@b.c", v.Email)
	})
}
