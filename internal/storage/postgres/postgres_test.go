package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/mmynk/coverwise/internal/storage"
)

func TestDialect_ClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "email unique violation",
			err:  &pgconn.PgError{Code: uniqueViolation, ConstraintName: "policyholders_email_key"},
			want: storage.ErrDuplicateEmail,
		},
		{
			name: "primary key violation",
			err:  &pgconn.PgError{Code: uniqueViolation, ConstraintName: "claims_pkey"},
			want: storage.ErrDuplicateID,
		},
		{
			name: "wrapped violation",
			err:  fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "policies_pkey"}),
			want: storage.ErrDuplicateID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, dialect{}.ClassifyError(tt.err), tt.want)
		})
	}

	t.Run("other errors pass through", func(t *testing.T) {
		fk := &pgconn.PgError{Code: "23503"}
		assert.Same(t, fk, dialect{}.ClassifyError(fk))

		plain := errors.New("boom")
		assert.Equal(t, plain, dialect{}.ClassifyError(plain))
	})
}

func TestDialect_Rebind(t *testing.T) {
	got := dialect{}.Rebind("SELECT 1 FROM claims WHERE policy_id = ? AND status <> ?")
	assert.Equal(t, "SELECT 1 FROM claims WHERE policy_id = $1 AND status <> $2", got)
	assert.Equal(t, " FOR UPDATE", dialect{}.LockClause())
}
