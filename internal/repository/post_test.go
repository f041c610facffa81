package repository

import (
	"context"
	"testing"

	"athlos/internal/models"
	"athlos/internal/policy"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_Like(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	requester := policy.ForProfile(uuid.New())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`UPDATE "posts" SET "likes_count"=likes_count \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Like(ctx, 7, requester)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Like_DuplicateIsConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	requester := policy.ForProfile(uuid.New())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "likes"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_like_post_profile"})
	mock.ExpectRollback()

	err := repo.Like(ctx, 7, requester)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConstraintViolation, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Like_InvisiblePostIsNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	requester := policy.ForProfile(uuid.New())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	err := repo.Like(ctx, 99, requester)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Unlike_DecrementsFlooredAtZero(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	requester := policy.ForProfile(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "likes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "posts" SET "likes_count"=GREATEST\(likes_count - 1, 0\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Unlike(ctx, 7, requester)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Unlike_MissingLikeLeavesCounterAlone(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	requester := policy.ForProfile(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "likes"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Unlike(ctx, 7, requester)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_RepairCounter(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE posts SET likes_count = sub\.actual`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	fixed, err := repo.RepairCounter(ctx, CounterLikes)
	require.NoError(t, err)
	assert.Equal(t, int64(3), fixed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_RepairCounter_UnknownCounter(t *testing.T) {
	db, _ := setupMockDB(t)
	repo := NewPostRepository(db)

	_, err := repo.RepairCounter(context.Background(), PostCounter("shares_count"))
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidationFailed, appErr.Code)
}
