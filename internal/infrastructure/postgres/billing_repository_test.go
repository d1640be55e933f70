package postgres

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rankitpro-api/internal/domain"
)

func TestBillingRepo_MarkCommissionPaid(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "pendiente pasa a pagada", affected: 1},
		{name: "ya pagada", affected: 0, wantErr: domain.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectExec(`UPDATE sales_commissions SET status = 'paid'`).
				WithArgs("com-1").
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			err = NewBillingRepository(mock).MarkCommissionPaid(context.Background(), "com-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBillingRepo_CommissionExistsForInvoice(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM sales_commissions WHERE invoice_id = \$1\)`).
		WithArgs("inv-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := NewBillingRepository(mock).CommissionExistsForInvoice(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.True(t, ok)
}
