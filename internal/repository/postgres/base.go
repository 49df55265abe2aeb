package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/medisetu/portal-api/internal/repository"
)

const (
	uniqueViolation = "23505"

	licenseNumberConstraint = "doctors_license_number_key"
)

// translateErr maps driver errors onto the repository sentinels. The
// unique indexes are the authoritative duplicate guards; the
// service-level existence check is only a fast path. Which sentinel a
// 23505 becomes depends on the violated constraint.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		if pqErr.Constraint == licenseNumberConstraint {
			return repository.ErrDuplicateLicense
		}
		return repository.ErrDuplicateEmail
	}
	return err
}
