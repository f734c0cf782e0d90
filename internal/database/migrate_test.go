package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements(t *testing.T) {
	stmts := Statements()
	require.Len(t, stmts, 12)
	for _, s := range stmts {
		assert.True(t, strings.HasPrefix(s, "CREATE TABLE IF NOT EXISTS"), s)
		assert.NotContains(t, s, "--")
	}
	assert.Contains(t, stmts[4], "reservations")
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range Statements() {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_StopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS refresh_tokens").WillReturnError(errors.New("boom"))

	err = Migrate(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statement 2")
	assert.NoError(t, mock.ExpectationsWereMet())
}
