package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB opens a GORM connection backed by sqlmock, to assert the exact
// SQL the repository issues.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func TestGormUserRepository_FindByUsername(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "username", "email", "role", "status"}).
		AddRow(1, "alice", "alice@example.com", "USER", "ACTIVE")
	mock.ExpectQuery("SELECT (.+) FROM `users` WHERE username = (.+)").
		WillReturnRows(rows)

	user, err := repo.FindByUsername("alice")

	require.NoError(t, err)
	assert.Equal(t, uint64(1), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_FindByUsername_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `users` WHERE username = (.+)").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByUsername("ghost")

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_FindByEmail_ExcludesSoftDeleted(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	// The default scope must filter deleted rows
	mock.ExpectQuery("SELECT (.+) FROM `users` WHERE email = (.+)`deleted_at` IS NULL(.+)").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(1, "alice@example.com"))

	user, err := repo.FindByEmail("alice@example.com")

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_SoftDelete_ClearsAssignments(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	// Assigned tasks lose the assignee reference first
	mock.ExpectExec("UPDATE `tasks` SET `assignee_id`=(.+)").
		WillReturnResult(sqlmock.NewResult(0, 2))
	// Then the user row is soft deleted
	mock.ExpectExec("UPDATE `users` SET `deleted_at`=(.+)").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SoftDelete(7)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_SoftDelete_RollsBackOnFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `tasks` SET `assignee_id`=(.+)").
		WillReturnError(gorm.ErrInvalidTransaction)
	mock.ExpectRollback()

	err := repo.SoftDelete(7)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
