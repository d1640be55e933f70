package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInRepo_CountSinceIncluyeEliminadas(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM check_ins WHERE company_id = $1 AND created_at >= $2`)).
		WithArgs("c1", since).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))

	n, err := NewCheckInRepository(mock).CountSince(context.Background(), "c1", since)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
