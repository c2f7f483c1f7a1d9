package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/ayush/flowbit/backend/internal/models"
)

func TestMapPgError(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, mapPgError("get", pgx.ErrNoRows), models.ErrNotFound)
	assert.ErrorIs(t, mapPgError("get", fmt.Errorf("scan: %w", pgx.ErrNoRows)), models.ErrNotFound)
	assert.ErrorIs(t, mapPgError("create", &pgconn.PgError{Code: "23505"}), models.ErrDuplicateEmail)
	assert.ErrorIs(t, mapPgError("get user by id", &pgconn.PgError{Code: "22P02"}), models.ErrNotFound)

	boom := errors.New("connection reset")
	err := mapPgError("create user", boom)
	assert.ErrorIs(t, err, boom)
	assert.EqualError(t, err, "create user: connection reset")
}
