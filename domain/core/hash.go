package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Domain-specific hash types
type (
	ConfigHash Hash
	PoolHash   Hash
)

func NewConfigHash(data []byte) ConfigHash { return ConfigHash(NewHash(data)) }
func NewPoolHash(data []byte) PoolHash     { return PoolHash(NewHash(data)) }

func (h ConfigHash) String() string { return Hash(h).String() }
func (h PoolHash) String() string   { return Hash(h).String() }

// ComputeConfigHash hashes an ordered representation of run options so
// that two runs with identical inputs carry identical fingerprints.
func ComputeConfigHash(options map[string]interface{}) ConfigHash {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var data strings.Builder
	for _, key := range keys {
		data.WriteString(key)
		data.WriteString(fmt.Sprintf("%v", options[key]))
	}

	return NewConfigHash([]byte(data.String()))
}

// ComputePoolHash hashes the ordered value sequence of an expression pool.
// Values are formatted at full float64 precision so the hash detects any
// enumeration drift between runs.
func ComputePoolHash(values []float64) PoolHash {
	var data strings.Builder
	for _, v := range values {
		data.WriteString(strconv.FormatFloat(v, 'x', -1, 64))
		data.WriteByte('|')
	}
	return NewPoolHash([]byte(data.String()))
}
