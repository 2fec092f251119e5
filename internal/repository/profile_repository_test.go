package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "display_name", "slug", "timezone", "active", "last_login", "created_at", "updated_at"}).
		AddRow("prof-1", "ana@example.com", "hash", "Ana", "ana", "Pacific/Auckland", true, nil, time.Now(), time.Now())
}

func TestProfileRepositoryFindBySlug(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewProfileRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE slug").
		WithArgs("ana").
		WillReturnRows(profileRows())

	profile, err := repo.FindBySlug(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, "prof-1", profile.ID)
	assert.Equal(t, "Pacific/Auckland", profile.Timezone)
}

func TestProfileRepositoryFindBySlugMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewProfileRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE slug").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindBySlug(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestProfileRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewProfileRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE LOWER\\(email\\)").
		WithArgs("Ana@Example.com").
		WillReturnRows(profileRows())

	profile, err := repo.FindByEmail(context.Background(), "Ana@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", profile.Email)
}

func TestProfileRepositoryUpdateTimezone(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewProfileRepository(db)

	mock.ExpectExec("UPDATE profiles SET timezone").
		WithArgs("prof-1", "America/New_York", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateTimezone(context.Background(), "prof-1", "America/New_York"))
	require.NoError(t, mock.ExpectationsWereMet())
}
