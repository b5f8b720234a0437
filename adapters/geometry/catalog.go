package geometry

import (
	"context"
	"sort"

	"gqaudit/domain/core"
	"gqaudit/ports"
)

// Catalog is a static invariant source for classical finite geometries.
// It stands in for the computer-algebra backend: the audit core only
// consumes the numeric invariants (point counts, line counts, group
// orders), never the enumeration that derived them. Group orders below
// are the standard automorphism group orders from the literature.
type Catalog struct {
	entries map[core.StructureKey][]int64
}

// NewCatalog builds the default structure catalog
func NewCatalog() *Catalog {
	return &Catalog{
		entries: map[core.StructureKey][]int64{
			// Generalized quadrangles GQ(s,t): points (s+1)(st+1),
			// lines (t+1)(st+1), full automorphism group order.
			"GQ(2,2)": {GQPoints(2, 2), GQLines(2, 2), 1440},
			"GQ(2,4)": {GQPoints(2, 4), GQLines(2, 4), 51840},
			"GQ(3,3)": {GQPoints(3, 3), GQLines(3, 3), 51840},
			"GQ(4,4)": {GQPoints(4, 4), GQLines(4, 4), 1958400},

			// Projective spaces: point/line counts plus collineation
			// group order.
			"PG(2,2)": {7, 7, 168},
			"PG(2,3)": {13, 13, 5616},
			"PG(2,4)": {21, 21, 120960},
			"PG(3,2)": {15, 35, 20160},
		},
	}
}

// GQPoints returns (s+1)(st+1), the point count of GQ(s,t)
func GQPoints(s, t int64) int64 { return (s + 1) * (s*t + 1) }

// GQLines returns (t+1)(st+1), the line count of GQ(s,t)
func GQLines(s, t int64) int64 { return (t + 1) * (s*t + 1) }

// Invariants returns the ordered invariant list for a named structure
func (c *Catalog) Invariants(ctx context.Context, key core.StructureKey) ([]int64, error) {
	values, ok := c.entries[key]
	if !ok {
		return nil, core.NewNotFoundError("structure", key.String())
	}
	out := make([]int64, len(values))
	copy(out, values)
	return out, nil
}

// Structures lists the catalog keys in stable order
func (c *Catalog) Structures(ctx context.Context) ([]core.StructureKey, error) {
	keys := make([]core.StructureKey, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys, nil
}

var _ ports.InvariantSourcePort = (*Catalog)(nil)
