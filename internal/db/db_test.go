package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	mysql, err := DialectFor("mysql")
	require.NoError(t, err)
	assert.Equal(t, "?", mysql.Placeholder(3))

	pg, err := DialectFor("postgres")
	require.NoError(t, err)
	assert.Equal(t, "pgx", pg.Driver)
	assert.Equal(t, "$3", pg.Placeholder(3))

	_, err = DialectFor("sqlite")
	assert.Error(t, err)
}

func TestInitDB_RequiresURL(t *testing.T) {
	_, err := InitDB(MySQL, "")
	assert.EqualError(t, err, "DB_URL is required")
}

func TestBootstrap_RunsEveryStatement(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		count   int
	}{
		{"mysql", MySQL, len(mysqlSchema)},
		{"postgres", Postgres, len(postgresSchema)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer conn.Close()

			for i := 0; i < tt.count; i++ {
				mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
			}

			require.NoError(t, Bootstrap(context.Background(), conn, tt.dialect))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBootstrap_StopsOnError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS categories").WillReturnError(errors.New("permission denied"))

	err = Bootstrap(context.Background(), conn, MySQL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}
