// pkg/index/btree.go
package index

import "minidb/pkg/types"

// btEntry pairs an indexed key with the table row position it names,
// stored at leaf slots in key order.
type btEntry struct {
	key types.Value
	pos int
}

// node is a single B-tree node. Internal nodes navigate by keys[i]
// separating children[i] (keys <= keys[i]) from children[i+1] (keys >=
// keys[i]); equal keys land on both sides only when duplicates straddle a
// split. Leaves hold the (key, row position) entries themselves.
type node struct {
	leaf     bool
	entries  []btEntry // leaves only
	keys     []types.Value
	children []*node // internal only, len(children) == len(keys)+1
}

// BTree is an order-m B-tree index (spec.md §4.4). Order is the minimum
// degree t: internal/leaf nodes hold at most 2t-1 keys and, except for
// the root, at least t-1.
type BTree struct {
	root  *node
	order int
}

// NewBTree constructs an empty B-tree of the given order (default 4 per
// spec.md §6's configuration surface).
func NewBTree(order int) *BTree {
	if order < 2 {
		order = 2
	}
	return &BTree{order: order, root: &node{leaf: true}}
}

// BuildBTree builds a B-tree index over a column from a full table scan.
func BuildBTree(order int, rows []types.Row, colIdx int) *BTree {
	bt := NewBTree(order)
	for pos, row := range rows {
		v := row.At(colIdx)
		if v.IsNull() {
			continue
		}
		_ = bt.Insert(v, pos)
	}
	return bt
}

func (bt *BTree) maxKeys() int { return 2*bt.order - 1 }

// Insert adds a (key, pos) entry, splitting full nodes on the way down
// and promoting the median key upward — splitting a full root creates a
// new root, per spec.md §4.4.
func (bt *BTree) Insert(key types.Value, pos int) error {
	root := bt.root
	if nodeKeyCount(root) >= bt.maxKeys() {
		newRoot := &node{leaf: false, children: []*node{root}}
		bt.splitChild(newRoot, 0)
		bt.root = newRoot
	}
	bt.insertNonFull(bt.root, key, pos)
	return nil
}

// nodeKeyCount returns the number of keys/entries held directly by n,
// regardless of whether it's a leaf (entries) or internal (keys) node.
func nodeKeyCount(n *node) int {
	if n.leaf {
		return len(n.entries)
	}
	return len(n.keys)
}

// splitChild splits the full child at index i of parent, promoting its
// median key/entry up into parent.
func (bt *BTree) splitChild(parent *node, i int) {
	full := parent.children[i]
	t := bt.order

	if full.leaf {
		mid := full.entries[t-1]
		right := &node{leaf: true, entries: append([]btEntry{}, full.entries[t:]...)}
		full.entries = full.entries[:t-1]

		parent.keys = insertAt(parent.keys, i, mid.key)
		parent.children = insertNodeAt(parent.children, i+1, right)
		// Re-insert the promoted leaf entry into the right sibling so no
		// row position is lost; leaf layers carry every entry, internal
		// keys are navigation-only copies.
		right.entries = append([]btEntry{mid}, right.entries...)
	} else {
		midKey := full.keys[t-1]
		right := &node{
			leaf:     false,
			keys:     append([]types.Value{}, full.keys[t:]...),
			children: append([]*node{}, full.children[t:]...),
		}
		full.keys = full.keys[:t-1]
		full.children = full.children[:t]

		parent.keys = insertAt(parent.keys, i, midKey)
		parent.children = insertNodeAt(parent.children, i+1, right)
	}
}

func insertAt(s []types.Value, i int, v types.Value) []types.Value {
	s = append(s, types.Value{})
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func insertNodeAt(s []*node, i int, v *node) []*node {
	s = append(s, nil)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func insertEntryAt(s []btEntry, i int, e btEntry) []btEntry {
	s = append(s, btEntry{})
	copy(s[i+1:], s[i:])
	s[i] = e
	return s
}

func (bt *BTree) insertNonFull(n *node, key types.Value, pos int) {
	if n.leaf {
		i := len(n.entries)
		for i > 0 && types.Compare(key, n.entries[i-1].key) < 0 {
			i--
		}
		n.entries = insertEntryAt(n.entries, i, btEntry{key: key.Clone(), pos: pos})
		return
	}
	i := len(n.keys)
	for i > 0 && types.Compare(key, n.keys[i-1]) < 0 {
		i--
	}
	child := n.children[i]
	if nodeKeyCount(child) >= bt.maxKeys() {
		bt.splitChild(n, i)
		if types.Compare(key, n.keys[i]) >= 0 {
			i++
		}
	}
	bt.insertNonFull(n.children[i], key, pos)
}

// Delete removes the (key, pos) entry from its leaf. Underflowing leaves
// are not rebalanced: spec.md §4.4 requires find/insert correctness and
// storage release on drop, not delete-time rebalancing, and no live row
// ever points at a stale position after the executor compacts its table,
// so a thinner-than-minimum leaf is harmless here.
func (bt *BTree) Delete(key types.Value, pos int) error {
	bt.deleteFrom(bt.root, key, pos)
	return nil
}

func (bt *BTree) deleteFrom(n *node, key types.Value, pos int) bool {
	if n.leaf {
		for i, e := range n.entries {
			if e.pos == pos && types.Equal(e.key, key) {
				n.entries = append(n.entries[:i], n.entries[i+1:]...)
				return true
			}
		}
		return false
	}
	// Duplicates of key may sit on either side of an equal separator, so
	// every child whose key span can contain it is searched.
	for i, child := range n.children {
		if i > 0 && types.Compare(n.keys[i-1], key) > 0 {
			break
		}
		if i < len(n.keys) && types.Compare(n.keys[i], key) < 0 {
			continue
		}
		if bt.deleteFrom(child, key, pos) {
			return true
		}
	}
	return false
}

// FindEqual is range search with min == max == key (spec.md §4.4).
func (bt *BTree) FindEqual(key types.Value) []int {
	return bt.FindRange(&key, &key)
}

// FindRange walks the tree collecting row positions whose key falls
// within [min, max] (inclusive; either bound may be nil/open).
func (bt *BTree) FindRange(min, max *types.Value) []int {
	var out []int
	bt.collectRange(bt.root, min, max, &out)
	return out
}

func (bt *BTree) collectRange(n *node, min, max *types.Value, out *[]int) {
	if n.leaf {
		for _, e := range n.entries {
			if min != nil && types.Compare(e.key, *min) < 0 {
				continue
			}
			if max != nil && types.Compare(e.key, *max) > 0 {
				continue
			}
			*out = append(*out, e.pos)
		}
		return
	}
	// Internal keys are the first leaf key of the following child, so a
	// child can only be skipped once max already lies strictly before
	// its lower-bounding separator; otherwise recurse and let the leaf
	// level apply the precise filter.
	for i, child := range n.children {
		if max != nil && i > 0 && types.Compare(n.keys[i-1], *max) > 0 {
			continue
		}
		bt.collectRange(child, min, max, out)
	}
}

// KeyCount returns the total number of entries across all leaves.
func (bt *BTree) KeyCount() int {
	return bt.count(bt.root)
}

func (bt *BTree) count(n *node) int {
	if n.leaf {
		return len(n.entries)
	}
	total := 0
	for _, c := range n.children {
		total += bt.count(c)
	}
	return total
}
