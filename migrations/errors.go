package migrations

import (
	"errors"
	"fmt"
)

// ConsolidatedUnit is the unit name reported for failures of the
// consolidated script.
const ConsolidatedUnit = "consolidated"

var (
	// ErrNilDB is returned when no database handle is provided.
	ErrNilDB = errors.New("db is nil")

	// ErrUnitWithoutVersion is returned for an embedded file without a
	// numeric version prefix.
	ErrUnitWithoutVersion = errors.New("migration file name has no numeric version prefix")
)

// ProvisioningError reports a failed schema migration to the operator.
type ProvisioningError struct {
	// Unit is the file name of the failing unit, empty when the failure
	// happened before any unit ran.
	Unit string
	Err  error
}

func (e *ProvisioningError) Error() string {
	if e.Unit == "" {
		return fmt.Sprintf("migration error: %v", e.Err)
	}
	return fmt.Sprintf("migration error: unit %s: %v", e.Unit, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}
