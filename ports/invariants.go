package ports

import (
	"context"

	"gqaudit/domain/core"
)

// InvariantSourcePort maps a structural object (a finite geometry, a
// group) to its finite list of numeric invariants: point counts, line
// counts, group orders. How the invariants were derived is an opaque
// concern of the computer-algebra backend; the audit core only consumes
// the numbers.
type InvariantSourcePort interface {
	// Invariants returns the ordered invariant list for a named structure
	Invariants(ctx context.Context, key core.StructureKey) ([]int64, error)

	// Structures lists the catalog keys available from this source
	Structures(ctx context.Context) ([]core.StructureKey, error)
}
