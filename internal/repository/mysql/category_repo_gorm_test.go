package mysql

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepo_ListActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `categories` WHERE active = ? ORDER BY name")).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "active"}).
			AddRow(2, "Accesorios", true).
			AddRow(1, "Camisas", true))

	cats, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Accesorios", cats[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
