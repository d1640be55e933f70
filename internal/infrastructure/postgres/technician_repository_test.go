package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
)

var technicianCols = []string{"id", "company_id", "user_id", "name", "email", "phone", "specialty", "location",
	"active", "created_at", "updated_at", "deleted_at"}

func TestTechnicianRepo_GetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE company_id = $1 AND lower(email) = lower($2) AND active = true AND deleted_at IS NULL`)).
		WithArgs("c1", "zoe@acme.com").
		WillReturnRows(pgxmock.NewRows(technicianCols).AddRow(
			"t-zoe", "c1", (*string)(nil), "Zoe", "zoe@acme.com", "", "", "", true, now, now, (*time.Time)(nil),
		))

	got, err := NewTechnicianRepository(mock).GetByEmail(context.Background(), "c1", "zoe@acme.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "t-zoe", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTechnicianRepo_GetByID_UUIDMalFormadoEsNoEncontrado(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM technicians`).
		WithArgs("abc", "c1").
		WillReturnError(&pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"})

	got, err := NewTechnicianRepository(mock).GetByID(context.Background(), "c1", "abc")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTechnicianRepo_Create_UsuarioYaVinculado(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	userID := "u1"
	now := time.Now()
	mock.ExpectExec(`INSERT INTO technicians`).
		WithArgs("t2", "c1", &userID, "Ana", "", "", "", "", true, now, now).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "ux_technicians_user"})

	err = NewTechnicianRepository(mock).Create(context.Background(), &entity.Technician{
		ID: "t2", CompanyID: "c1", UserID: &userID, Name: "Ana", Active: true, CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
