package compressor

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CollisionResolver hands out destination paths inside the flat output
// directory. Two sources with the same base name would otherwise write the
// same file; the second one gets a " - dupN" suffix instead.
type CollisionResolver struct {
	owners   map[string]string // destination -> source that claimed it
	counters map[string]int    // requested destination -> next dup counter
}

func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Resolve returns requested when it is free or already owned by source,
// and a " - dupN" variant otherwise.
func (cr *CollisionResolver) Resolve(source, requested string) string {
	owner, exists := cr.owners[requested]
	if !exists || owner == source {
		cr.owners[requested] = source
		return requested
	}

	dir := filepath.Dir(requested)
	base := filepath.Base(requested)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	counter := cr.counters[requested]
	if counter == 0 {
		counter = 1
	}

	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, counter, ext))
		cOwner, cExists := cr.owners[candidate]
		if !cExists || cOwner == source {
			cr.counters[requested] = counter + 1
			cr.owners[candidate] = source
			return candidate
		}
		counter++
	}
}
