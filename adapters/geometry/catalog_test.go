package geometry

import (
	"context"
	"testing"

	"gqaudit/domain/core"
)

// TestGQCountFormulas tests the generalized-quadrangle point/line counts
func TestGQCountFormulas(t *testing.T) {
	tests := []struct {
		s, tt         int64
		points, lines int64
	}{
		{2, 2, 15, 15},
		{2, 4, 27, 45},
		{3, 3, 40, 40},
		{4, 4, 85, 85},
	}

	for _, test := range tests {
		if got := GQPoints(test.s, test.tt); got != test.points {
			t.Errorf("GQPoints(%d,%d): expected %d, got %d", test.s, test.tt, test.points, got)
		}
		if got := GQLines(test.s, test.tt); got != test.lines {
			t.Errorf("GQLines(%d,%d): expected %d, got %d", test.s, test.tt, test.lines, got)
		}
	}
}

// TestCatalogInvariants tests known catalog entries
func TestCatalogInvariants(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalog()

	tests := []struct {
		key      core.StructureKey
		expected []int64
	}{
		{"GQ(2,2)", []int64{15, 15, 1440}},
		{"PG(2,2)", []int64{7, 7, 168}},
		{"PG(3,2)", []int64{15, 35, 20160}},
	}

	for _, test := range tests {
		values, err := catalog.Invariants(ctx, test.key)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.key, err)
			continue
		}
		if len(values) != len(test.expected) {
			t.Errorf("%s: expected %v, got %v", test.key, test.expected, values)
			continue
		}
		for i := range values {
			if values[i] != test.expected[i] {
				t.Errorf("%s: expected %v, got %v", test.key, test.expected, values)
				break
			}
		}
	}
}

// TestCatalogUnknownStructure tests the not-found path
func TestCatalogUnknownStructure(t *testing.T) {
	catalog := NewCatalog()
	_, err := catalog.Invariants(context.Background(), "GQ(9,9)")
	if err == nil {
		t.Fatal("Expected error for an unknown structure")
	}
	if !core.IsNotFoundError(err) {
		t.Errorf("Expected a not-found error, got %v", err)
	}
}

// TestCatalogStructuresOrdered tests stable listing
func TestCatalogStructuresOrdered(t *testing.T) {
	catalog := NewCatalog()
	keys, err := catalog.Structures(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(keys) != 8 {
		t.Errorf("Expected 8 catalog entries, got %d", len(keys))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Errorf("Keys not in stable sorted order: %s before %s", keys[i-1], keys[i])
		}
	}
}
