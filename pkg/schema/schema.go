// pkg/schema/schema.go
package schema

import (
	"minidb/pkg/dberr"
	"minidb/pkg/types"
)

// MaxTables is the per-process ceiling on live tables (spec.md §1).
const MaxTables = 32

// ColumnFlag is a bitmask drawn from spec.md §3's column flag set.
type ColumnFlag uint8

const (
	FlagNullable ColumnFlag = 1 << iota
	FlagPrimaryKey
	FlagUnique
	FlagForeignKey
	FlagCheck
)

// Has reports whether the flag set contains f.
func (c ColumnFlag) Has(f ColumnFlag) bool { return c&f != 0 }

// ColumnDef describes one column of a TableDef.
type ColumnDef struct {
	Name      string
	Type      types.ValueType
	Flags     ColumnFlag
	RefTable  string // FOREIGN_KEY: referenced table
	RefColumn string // FOREIGN_KEY: referenced column
	CheckExpr string // CHECK: expression rendered back to SQL text, for introspection
	Precision int    // DECIMAL
	Scale     int    // DECIMAL
}

// NotNull reports whether the column rejects NULL. PRIMARY_KEY implies
// NOT NULL even when FlagNullable isn't explicitly cleared (spec.md §3).
func (c ColumnDef) NotNull() bool {
	if c.Flags.Has(FlagPrimaryKey) {
		return true
	}
	return !c.Flags.Has(FlagNullable)
}

// TableDef is the ordered schema of a table.
type TableDef struct {
	Name        string
	Columns     []ColumnDef
	TableChecks []string // table-level CHECK expressions, raw SQL text
	Strict      bool
}

// ColumnIndex returns the position of the named column, or -1.
func (d TableDef) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (d TableDef) Column(name string) (ColumnDef, bool) {
	i := d.ColumnIndex(name)
	if i < 0 {
		return ColumnDef{}, false
	}
	return d.Columns[i], true
}

// Table is a live table: a stable id, its schema, and its row sequence.
// Row identity is the current slice position; deletions compact the
// sequence (spec.md §3), so row positions are only valid within a single
// statement.
type Table struct {
	ID   int
	Def  TableDef
	Rows []types.Row
}

// IndexKind distinguishes the two index data structures spec.md §4.4
// describes.
type IndexKind int

const (
	HashIndex IndexKind = iota
	BTreeIndex
)

func (k IndexKind) String() string {
	if k == BTreeIndex {
		return "BTREE"
	}
	return "HASH"
}

// IndexHandle is the {insert, delete, find_equal, find_range, key_count}
// interface spec.md's design notes ask indexes to share. pkg/index's hash
// and B-tree implementations satisfy it structurally; schema never
// imports pkg/index, avoiding an import cycle with the planner/executor
// which depend on both.
type IndexHandle interface {
	Insert(key types.Value, pos int) error
	Delete(key types.Value, pos int) error
	FindEqual(key types.Value) []int
	FindRange(min, max *types.Value) []int
	KeyCount() int
}

// Index is a catalog entry pairing metadata with its backing structure.
type Index struct {
	Name      string
	TableName string
	Columns   []string
	Kind      IndexKind
	Impl      IndexHandle
}

// Catalog is the process-wide collection of tables, indexes, and
// statistics (spec.md §3). It is handed explicitly to the planner and
// executor (the parser never sees it) rather than held in package globals, per the
// re-architecture guidance in spec.md §9.
type Catalog struct {
	tables        []*Table
	tablesByName  map[string]*Table
	indexes       []*Index
	indexesByName map[string]*Index
	stats         map[string]*TableStats
	nextID        int
}

// NewCatalog returns an empty, ready-to-use catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		tablesByName:  make(map[string]*Table),
		indexesByName: make(map[string]*Index),
		stats:         make(map[string]*TableStats),
	}
}

// Reset clears all tables, indexes, and statistics and reinitializes the
// catalog, matching spec.md §3's reset_database lifecycle operation.
func (c *Catalog) Reset() {
	c.tables = nil
	c.tablesByName = make(map[string]*Table)
	c.indexes = nil
	c.indexesByName = make(map[string]*Index)
	c.stats = make(map[string]*TableStats)
	c.nextID = 0
}

// CreateTable installs a new table, enforcing (I1) name uniqueness and
// the MaxTables ceiling.
func (c *Catalog) CreateTable(def TableDef) (*Table, error) {
	if _, exists := c.tablesByName[def.Name]; exists {
		return nil, dberr.NewTable(dberr.Schema, dberr.CodeTableExists, "table already exists", def.Name)
	}
	if len(c.tables) >= MaxTables {
		return nil, dberr.New(dberr.Resource, dberr.CodeTableLimit, "table limit reached")
	}
	t := &Table{ID: c.nextID, Def: def}
	c.nextID++
	c.tables = append(c.tables, t)
	c.tablesByName[def.Name] = t
	c.stats[def.Name] = NewTableStats(def)
	return t, nil
}

// DropTable removes a table and every index registered over it.
// Subsequent lookups of the name return TABLE_NOT_FOUND (spec.md §4.5).
func (c *Catalog) DropTable(name string) error {
	t, ok := c.tablesByName[name]
	if !ok {
		return dberr.NewTable(dberr.Schema, dberr.CodeTableNotFound, "table not found", name)
	}
	for _, idx := range c.IndexesForTable(name) {
		delete(c.indexesByName, idx.Name)
	}
	filtered := c.indexes[:0]
	for _, idx := range c.indexes {
		if idx.TableName != name {
			filtered = append(filtered, idx)
		}
	}
	c.indexes = filtered

	delete(c.tablesByName, name)
	delete(c.stats, name)
	for i, tbl := range c.tables {
		if tbl == t {
			c.tables = append(c.tables[:i], c.tables[i+1:]...)
			break
		}
	}
	return nil
}

// FindTable is the read-only table lookup exposed at the boundary
// (spec.md §6).
func (c *Catalog) FindTable(name string) (*Table, bool) {
	t, ok := c.tablesByName[name]
	return t, ok
}

// Tables returns tables in creation order.
func (c *Catalog) Tables() []*Table {
	return c.tables
}

// CreateIndex registers a new index, enforcing (I3) global name
// uniqueness.
func (c *Catalog) CreateIndex(idx *Index) error {
	if _, exists := c.indexesByName[idx.Name]; exists {
		return dberr.New(dberr.Schema, dberr.CodeIndexExists, "index already exists: "+idx.Name)
	}
	c.indexes = append(c.indexes, idx)
	c.indexesByName[idx.Name] = idx
	return nil
}

// DropIndex releases an index's catalog entry. The backing storage is
// released by the garbage collector once unreferenced; spec.md §4.4
// only requires that drop-index "releases storage" at the interface
// level, which holding no further reference satisfies.
func (c *Catalog) DropIndex(name string) error {
	idx, ok := c.indexesByName[name]
	if !ok {
		return dberr.New(dberr.Schema, dberr.CodeIndexNotFound, "index not found: "+name)
	}
	delete(c.indexesByName, name)
	for i, x := range c.indexes {
		if x == idx {
			c.indexes = append(c.indexes[:i], c.indexes[i+1:]...)
			break
		}
	}
	return nil
}

func (c *Catalog) FindIndex(name string) (*Index, bool) {
	idx, ok := c.indexesByName[name]
	return idx, ok
}

// IndexesForTable returns every index registered over a table, in
// creation order.
func (c *Catalog) IndexesForTable(tableName string) []*Index {
	var out []*Index
	for _, idx := range c.indexes {
		if idx.TableName == tableName {
			out = append(out, idx)
		}
	}
	return out
}

// IndexForColumn returns the first single-column index over the given
// column, if any. The planner uses this to decide INDEX_SCAN eligibility.
func (c *Catalog) IndexForColumn(tableName, column string) (*Index, bool) {
	for _, idx := range c.indexes {
		if idx.TableName == tableName && len(idx.Columns) == 1 && idx.Columns[0] == column {
			return idx, true
		}
	}
	return nil, false
}

// Stats returns the live TableStats for a table, or nil if the table
// doesn't exist.
func (c *Catalog) Stats(tableName string) *TableStats {
	return c.stats[tableName]
}
