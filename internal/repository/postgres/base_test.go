package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/medisetu/portal-api/internal/repository"
)

func TestTranslateErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "nil passes through",
			err:  nil,
			want: nil,
		},
		{
			name: "no rows becomes not found",
			err:  sql.ErrNoRows,
			want: repository.ErrNotFound,
		},
		{
			name: "email unique violation",
			err:  &pq.Error{Code: "23505", Constraint: "doctors_email_key"},
			want: repository.ErrDuplicateEmail,
		},
		{
			name: "patient email unique violation",
			err:  &pq.Error{Code: "23505", Constraint: "patients_email_key"},
			want: repository.ErrDuplicateEmail,
		},
		{
			name: "license unique violation",
			err:  &pq.Error{Code: "23505", Constraint: "doctors_license_number_key"},
			want: repository.ErrDuplicateLicense,
		},
		{
			name: "wrapped unique violation",
			err:  fmt.Errorf("exec: %w", &pq.Error{Code: "23505", Constraint: "doctors_license_number_key"}),
			want: repository.ErrDuplicateLicense,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateErr(tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestTranslateErrOtherErrorsUntouched(t *testing.T) {
	boom := errors.New("connection reset")
	assert.Equal(t, boom, translateErr(boom))

	fk := &pq.Error{Code: "23503", Constraint: "outbox_events_fk"}
	assert.Equal(t, error(fk), translateErr(fk))
}
