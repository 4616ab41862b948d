// pkg/index/hash.go
package index

import (
	"math"

	"minidb/pkg/types"
)

// hashEntry is one link in a bucket's chain.
type hashEntry struct {
	key  types.Value
	pos  int
	next *hashEntry
}

// Hash is an open-chained hash table keyed by typed Value, as described
// in spec.md §4.4: an array of bucket heads each pointing to a singly
// linked chain of (key, row_position) pairs. The bucket count is fixed
// at construction.
type Hash struct {
	buckets []*hashEntry
	count   int
}

// NewHash allocates an empty hash index with the given fixed bucket
// count.
func NewHash(bucketCount int) *Hash {
	if bucketCount < 1 {
		bucketCount = 1
	}
	return &Hash{buckets: make([]*hashEntry, bucketCount)}
}

// BuildHash builds a hash index over a column from a full table scan,
// matching spec.md §4.4's "build-from-scan" operation.
func BuildHash(bucketCount int, rows []types.Row, colIdx int) *Hash {
	h := NewHash(bucketCount)
	for pos, row := range rows {
		key := row.At(colIdx)
		if key.IsNull() {
			continue
		}
		_ = h.Insert(key, pos)
	}
	return h
}

// bucketFor hashes the typed value into a bucket index. INT hashes by
// value mod bucket count; FLOAT hashes its bit pattern mod bucket count;
// STRING mixes bytes via FNV-1a. Other types fall back to their textual
// form, since equality probes only ever target comparable index keys.
func (h *Hash) bucketFor(key types.Value) int {
	var hashVal uint64
	switch key.Type() {
	case types.TypeInt:
		hashVal = uint64(key.Int())
	case types.TypeFloat:
		hashVal = math.Float64bits(key.Float())
	case types.TypeString:
		hashVal = fnv1a(key.Text())
	default:
		hashVal = fnv1a(key.String())
	}
	return int(hashVal % uint64(len(h.buckets)))
}

func fnv1a(s string) uint64 {
	const (
		offset = 14695981039346656037
		prime  = 1099511628211
	)
	h := uint64(offset)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	return h
}

// Insert adds a (key, pos) entry, maintaining (I4) for this index.
func (h *Hash) Insert(key types.Value, pos int) error {
	b := h.bucketFor(key)
	h.buckets[b] = &hashEntry{key: key.Clone(), pos: pos, next: h.buckets[b]}
	h.count++
	return nil
}

// Delete removes the chain entry whose key and row position both match,
// resolving collisions by value equality as spec.md §4.4 requires.
func (h *Hash) Delete(key types.Value, pos int) error {
	b := h.bucketFor(key)
	var prev *hashEntry
	cur := h.buckets[b]
	for cur != nil {
		if cur.pos == pos && types.Equal(cur.key, key) {
			if prev == nil {
				h.buckets[b] = cur.next
			} else {
				prev.next = cur.next
			}
			h.count--
			return nil
		}
		prev = cur
		cur = cur.next
	}
	return nil
}

// FindEqual returns every row position whose indexed column equals key.
func (h *Hash) FindEqual(key types.Value) []int {
	var out []int
	b := h.bucketFor(key)
	for cur := h.buckets[b]; cur != nil; cur = cur.next {
		if types.Equal(cur.key, key) {
			out = append(out, cur.pos)
		}
	}
	return out
}

// FindRange scans every bucket for keys within [min, max]. Hash indexes
// are built for equality lookups; a range probe degrades to a full
// linear scan of the index rather than the table, which still beats a
// table scan when the projected columns are narrower than the row.
func (h *Hash) FindRange(min, max *types.Value) []int {
	var out []int
	for _, head := range h.buckets {
		for cur := head; cur != nil; cur = cur.next {
			if min != nil && types.Compare(cur.key, *min) < 0 {
				continue
			}
			if max != nil && types.Compare(cur.key, *max) > 0 {
				continue
			}
			out = append(out, cur.pos)
		}
	}
	return out
}

// KeyCount returns the number of live entries.
func (h *Hash) KeyCount() int { return h.count }
