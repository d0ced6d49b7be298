package csvsql

import (
	"errors"
	"testing"

	"github.com/nao1215/csvsql/domain/model"
	"github.com/nao1215/csvsql/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteAll(t *testing.T) {
	t.Parallel()

	t.Run("results follow statement order", func(t *testing.T) {
		t.Parallel()
		ctx := testContext(t)
		db := openTestDB(t)

		results, err := ExecuteAll(ctx, db, []string{
			"create table t (a,b);",
			"insert into t values (1,2);",
			"select * from t;",
		})
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.True(t, results[0].IsEmpty())
		assert.Nil(t, results[0].Tuples())
		assert.True(t, results[1].IsEmpty())
		assert.Equal(t, [][]any{{"a", "b"}, {int64(1), int64(2)}}, results[2].Tuples())
	})

	t.Run("batch is committed", func(t *testing.T) {
		t.Parallel()
		ctx := testContext(t)
		db := openTestDB(t)

		_, err := ExecuteAll(ctx, db, []string{"create table t (a);", "insert into t values ('x');"})
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"x"}}, queryRecords(t, db, "SELECT a FROM t"))
	})

	t.Run("failing statement rolls back the batch", func(t *testing.T) {
		t.Parallel()
		ctx := testContext(t)
		db := openTestDB(t)

		results, err := ExecuteAll(ctx, db, []string{
			"create table t (a);",
			"select * from missing_table;",
			"insert into t values (1);",
		})
		require.Error(t, err)
		assert.Nil(t, results)
		assert.ErrorIs(t, err, ErrStatementFailed)

		var stmtErr *StatementError
		require.True(t, errors.As(err, &stmtErr))
		assert.Equal(t, 1, stmtErr.Index)
		assert.Equal(t, "select * from missing_table;", stmtErr.Statement)
		assert.Contains(t, err.Error(), "statement #2 failed")
		assert.Contains(t, err.Error(), "missing_table")

		tables, err := driver.TableNames(ctx, db)
		require.NoError(t, err)
		assert.Empty(t, tables)
	})

	t.Run("commit inside the batch", func(t *testing.T) {
		t.Parallel()
		ctx := testContext(t)
		db := openTestDB(t)

		results, err := ExecuteAll(ctx, db, []string{
			"create table t (a);",
			"insert into t values ('x');",
			"commit;",
			"insert into t values ('y');",
			"select a from t order by a;",
		})
		require.NoError(t, err)
		assert.Equal(t, [][]any{{"a"}, {"x"}, {"y"}}, LastResult(results).Tuples())
		assert.Equal(t, [][]string{{"x"}, {"y"}}, queryRecords(t, db, "SELECT a FROM t ORDER BY a"))
	})

	t.Run("rollback inside the batch", func(t *testing.T) {
		t.Parallel()
		ctx := testContext(t)
		db := openTestDB(t)

		_, err := ExecuteAll(ctx, db, []string{"create table t (a);", "rollback;"})
		require.NoError(t, err)

		tables, err := driver.TableNames(ctx, db)
		require.NoError(t, err)
		assert.Empty(t, tables)
	})

	t.Run("no statements", func(t *testing.T) {
		t.Parallel()
		ctx := testContext(t)
		db := openTestDB(t)

		_, err := ExecuteAll(ctx, db, nil)
		assert.ErrorIs(t, err, ErrNoStatements)
	})
}

func TestExecuteOne(t *testing.T) {
	t.Parallel()

	t.Run("null and text values", func(t *testing.T) {
		t.Parallel()
		db := openTestDB(t)

		rs, err := ExecuteOne(testContext(t), db, "select null as n, 'x' as s")
		require.NoError(t, err)
		assert.Equal(t, []string{"n", "s"}, rs.Columns)
		assert.Equal(t, [][]any{{nil, "x"}}, rs.Rows)
	})

	t.Run("query without rows keeps its columns", func(t *testing.T) {
		t.Parallel()
		db := openTestDB(t)

		rs, err := ExecuteOne(testContext(t), db, "select 1 as one where 0")
		require.NoError(t, err)
		assert.False(t, rs.IsEmpty())
		assert.Equal(t, 0, rs.Len())
		assert.Equal(t, [][]any{{"one"}}, rs.Tuples())
	})

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()
		db := openTestDB(t)

		_, err := ExecuteOne(testContext(t), db, "selec 1")
		assert.Error(t, err)
	})
}

func TestLastResult(t *testing.T) {
	t.Parallel()

	assert.True(t, LastResult(nil).IsEmpty())

	last := model.NewResultSet([]string{"a"}, [][]any{{"1"}})
	assert.Equal(t, last, LastResult([]model.ResultSet{{}, last}))
}
