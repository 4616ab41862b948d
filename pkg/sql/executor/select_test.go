package executor

import (
	"testing"
)

func seedUsers(t *testing.T, e *Executor) {
	t.Helper()
	mustExec(t, e, "CREATE TABLE users (id INT PRIMARY KEY, name TEXT, age INT)")
	mustExec(t, e, "INSERT INTO users VALUES (1, 'alice', 30)")
	mustExec(t, e, "INSERT INTO users VALUES (2, 'bob', 25)")
	mustExec(t, e, "INSERT INTO users VALUES (3, 'carol', 25)")
}

func TestSelectFilterAndProject(t *testing.T) {
	e := newTestExecutor()
	seedUsers(t, e)
	res := mustExec(t, e, "SELECT name FROM users WHERE age = 25")
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
}

func TestSelectStarExpandsAllColumns(t *testing.T) {
	e := newTestExecutor()
	seedUsers(t, e)
	res := mustExec(t, e, "SELECT * FROM users WHERE id = 1")
	if len(res.Columns) != 3 {
		t.Errorf("expected 3 columns from *, got %d", len(res.Columns))
	}
}

func TestSelectOrderByAscendingNullsFirst(t *testing.T) {
	e := newTestExecutor()
	mustExec(t, e, "CREATE TABLE users (id INT PRIMARY KEY, age INT)")
	mustExec(t, e, "INSERT INTO users VALUES (1, 30)")
	mustExec(t, e, "INSERT INTO users (id) VALUES (2)")
	mustExec(t, e, "INSERT INTO users VALUES (3, 10)")
	res := mustExec(t, e, "SELECT id FROM users ORDER BY age")
	if res.Rows[0][0].Int() != 2 {
		t.Errorf("expected the NULL-age row (id=2) to sort first, got order %v", res.Rows)
	}
}

func TestSelectOrderByDescending(t *testing.T) {
	e := newTestExecutor()
	seedUsers(t, e)
	res := mustExec(t, e, "SELECT id FROM users ORDER BY age DESC, id ASC")
	if res.Rows[0][0].Int() != 1 {
		t.Errorf("expected age=30 (id=1) first in DESC order, got %v", res.Rows)
	}
}

func TestSelectLimit(t *testing.T) {
	e := newTestExecutor()
	seedUsers(t, e)
	res := mustExec(t, e, "SELECT id FROM users ORDER BY id LIMIT 2")
	if len(res.Rows) != 2 {
		t.Errorf("expected 2 rows under LIMIT, got %d", len(res.Rows))
	}
}

func TestSelectDistinct(t *testing.T) {
	e := newTestExecutor()
	seedUsers(t, e)
	res := mustExec(t, e, "SELECT DISTINCT age FROM users")
	if len(res.Rows) != 2 {
		t.Errorf("expected 2 distinct ages, got %d", len(res.Rows))
	}
}

func TestSelectAggregateCollapsesToOneRow(t *testing.T) {
	e := newTestExecutor()
	seedUsers(t, e)
	res := mustExec(t, e, "SELECT COUNT(*), AVG(age) FROM users")
	if len(res.Rows) != 1 {
		t.Fatalf("expected exactly one aggregate row, got %d", len(res.Rows))
	}
	if res.Rows[0][0].Int() != 3 {
		t.Errorf("expected COUNT(*) = 3, got %v", res.Rows[0][0])
	}
}

func TestSelectInnerJoin(t *testing.T) {
	e := newTestExecutor()
	mustExec(t, e, "CREATE TABLE users (id INT PRIMARY KEY, name TEXT)")
	mustExec(t, e, "CREATE TABLE orders (id INT PRIMARY KEY, user_id INT, total INT)")
	mustExec(t, e, "INSERT INTO users VALUES (1, 'alice')")
	mustExec(t, e, "INSERT INTO orders VALUES (100, 1, 50)")
	res := mustExec(t, e, "SELECT users.name, orders.total FROM users JOIN orders ON users.id = orders.user_id")
	if len(res.Rows) != 1 || res.Rows[0][0].Text() != "alice" || res.Rows[0][1].Int() != 50 {
		t.Errorf("unexpected join result: %+v", res.Rows)
	}
}

func TestSelectLeftJoinFillsNullForUnmatched(t *testing.T) {
	e := newTestExecutor()
	mustExec(t, e, "CREATE TABLE users (id INT PRIMARY KEY, name TEXT)")
	mustExec(t, e, "CREATE TABLE orders (id INT PRIMARY KEY, user_id INT, total INT)")
	mustExec(t, e, "INSERT INTO users VALUES (1, 'alice')")
	mustExec(t, e, "INSERT INTO users VALUES (2, 'bob')")
	mustExec(t, e, "INSERT INTO orders VALUES (100, 1, 50)")
	res := mustExec(t, e, "SELECT users.name, orders.total FROM users LEFT JOIN orders ON users.id = orders.user_id")
	if len(res.Rows) != 2 {
		t.Fatalf("expected every user to appear once, got %d rows", len(res.Rows))
	}
}

func TestSelectUncorrelatedSubqueryInWhere(t *testing.T) {
	e := newTestExecutor()
	seedUsers(t, e)
	res := mustExec(t, e, "SELECT name FROM users WHERE id IN (SELECT id FROM users WHERE age = 25)")
	if len(res.Rows) != 2 {
		t.Errorf("expected 2 rows matching the subquery, got %d", len(res.Rows))
	}
}

func TestSelectCorrelatedExistsSubquery(t *testing.T) {
	e := newTestExecutor()
	mustExec(t, e, "CREATE TABLE users (id INT PRIMARY KEY, name TEXT)")
	mustExec(t, e, "CREATE TABLE orders (id INT PRIMARY KEY, user_id INT)")
	mustExec(t, e, "INSERT INTO users VALUES (1, 'alice')")
	mustExec(t, e, "INSERT INTO users VALUES (2, 'bob')")
	mustExec(t, e, "INSERT INTO orders VALUES (100, 1)")
	res := mustExec(t, e, "SELECT name FROM users WHERE EXISTS (SELECT id FROM orders WHERE orders.user_id = users.id)")
	if len(res.Rows) != 1 || res.Rows[0][0].Text() != "alice" {
		t.Errorf("expected only alice to have a matching order, got %+v", res.Rows)
	}
}

func TestExplainReportsChosenPlan(t *testing.T) {
	e := newTestExecutor()
	seedUsers(t, e)
	res := mustExec(t, e, "EXPLAIN SELECT name FROM users WHERE id = 1")
	if len(res.Rows) != 1 {
		t.Fatalf("expected one EXPLAIN row, got %d", len(res.Rows))
	}
}

func TestAnalyzeRefreshesStatistics(t *testing.T) {
	e := newTestExecutor()
	seedUsers(t, e)
	res := mustExec(t, e, "ANALYZE users")
	if res.RowsAffected != 3 {
		t.Errorf("expected ANALYZE to report 3 rows, got %d", res.RowsAffected)
	}
}

func TestIndexScanAndSeqScanAgree(t *testing.T) {
	withoutIndex := newTestExecutor()
	seedUsers(t, withoutIndex)
	seqRes := mustExec(t, withoutIndex, "SELECT name FROM users WHERE age = 25 ORDER BY name")

	withIndex := newTestExecutor()
	seedUsers(t, withIndex)
	mustExec(t, withIndex, "CREATE INDEX idx_age ON users (age) HASH")
	idxRes := mustExec(t, withIndex, "SELECT name FROM users WHERE age = 25 ORDER BY name")

	if len(seqRes.Rows) != len(idxRes.Rows) {
		t.Fatalf("expected the same row count regardless of scan strategy: seq=%d idx=%d", len(seqRes.Rows), len(idxRes.Rows))
	}
	for i := range seqRes.Rows {
		if seqRes.Rows[i][0].Text() != idxRes.Rows[i][0].Text() {
			t.Errorf("row %d differs between scan strategies: seq=%v idx=%v", i, seqRes.Rows[i], idxRes.Rows[i])
		}
	}
}
