package repository

import (
	"context"
	"testing"

	"athlos/internal/models"
	"athlos/internal/policy"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestProfileRepository_GetByID_AnonymousSeesOnlyPublic(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	id := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "handle", "visibility"}).
		AddRow(id, "runner42", "public")
	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE profiles\.visibility = \$1 AND profiles\.id = \$2`).
		WithArgs("public", id, 1).
		WillReturnRows(rows)

	profile, err := repo.GetByID(ctx, id, policy.Anonymous)
	require.NoError(t, err)
	assert.Equal(t, id, profile.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(ctx, id, policy.Anonymous)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_GetVisibility_SkipsReadabilityScope(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	id := uuid.New()
	// No visibility predicate in the WHERE clause: follow requests must see
	// the visibility of targets they cannot otherwise read.
	mock.ExpectQuery(`SELECT "visibility" FROM "profiles" WHERE id = \$1`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"visibility"}).AddRow("followers"))

	visibility, err := repo.GetVisibility(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityFollowers, visibility)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_HandleTaken(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	self := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "profiles" WHERE LOWER\(handle\) = LOWER\(\$1\) AND id != \$2`).
		WithArgs("runner42", self).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	taken, err := repo.HandleTaken(ctx, "runner42", self)
	require.NoError(t, err)
	assert.True(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_Delete_ReconcilesCountersOnOtherPosts(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE posts SET likes_count = GREATEST\(posts\.likes_count - sub\.removed, 0\)[\s\S]*FROM likes[\s\S]*posts\.profile_id != `).
		WithArgs(id, id).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE posts SET comments_count = GREATEST\(posts\.comments_count - sub\.removed, 0\)[\s\S]*FROM comments`).
		WithArgs(id, id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE posts SET saves_count = GREATEST\(posts\.saves_count - sub\.removed, 0\)[\s\S]*FROM saved_posts`).
		WithArgs(id, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "profiles" WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(ctx, id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
