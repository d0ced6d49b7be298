package csvsql

import (
	"strings"
	"testing"

	"github.com/nao1215/csvsql/domain/model"
	"github.com/nao1215/csvsql/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportTable(t *testing.T) {
	t.Parallel()

	t.Run("header row names the columns", func(t *testing.T) {
		t.Parallel()
		ctx := testContext(t)
		db := openTestDB(t)

		src := NewDelimitedSource(strings.NewReader("one,two,three\n1,2,3\n4,5,6\n"), DialectCSV)
		require.NoError(t, ImportTable(ctx, db, src, "t", model.HeaderModeWithHeader))

		assert.Equal(t, []string{"one", "two", "three"}, queryColumns(t, db, "t"))
		assert.Equal(t, [][]string{{"1"}, {"4"}}, queryRecords(t, db, "SELECT one FROM t"))
	})

	t.Run("ragged rows grow and pad the table", func(t *testing.T) {
		t.Parallel()
		ctx := testContext(t)
		db := openTestDB(t)

		data := "one,two,three\n1,2,3,4,5\n6\n"
		src := NewDelimitedSource(strings.NewReader(data), DialectCSV)
		require.NoError(t, ImportTable(ctx, db, src, "t", model.HeaderModeWithHeader))

		assert.Equal(t, []string{"one", "two", "three", "__COL4", "__COL5"}, queryColumns(t, db, "t"))
		assert.Equal(t, [][]string{
			{"1", "2", "3", "4", "5"},
			{"6", "", "", "", ""},
		}, queryRecords(t, db, "SELECT * FROM t ORDER BY one"))

		count := queryRecords(t, db, "SELECT count(*) FROM t WHERE two = '' AND __COL5 = ''")
		assert.Equal(t, [][]string{{"1"}}, count, "padding must be empty strings, not NULL")
	})

	t.Run("columns added later read as empty for earlier rows", func(t *testing.T) {
		t.Parallel()
		ctx := testContext(t)
		db := openTestDB(t)

		data := "one,two,three\n4,5,6,7\n8,9,10,11,12\n13,14\n"
		src := NewDelimitedSource(strings.NewReader(data), DialectCSV)
		require.NoError(t, ImportTable(ctx, db, src, "t", model.HeaderModeWithHeader))

		assert.Equal(t, []string{"one", "two", "three", "__COL4", "__COL5"}, queryColumns(t, db, "t"))
		assert.Equal(t, [][]string{
			{"13", "14", "", "", ""},
			{"4", "5", "6", "7", ""},
			{"8", "9", "10", "11", "12"},
		}, queryRecords(t, db, "SELECT * FROM t ORDER BY one"))

		nulls := queryRecords(t, db, "SELECT count(*) FROM t WHERE __COL5 IS NULL")
		assert.Equal(t, [][]string{{"0"}}, nulls)
	})

	t.Run("headerless input keeps the first row", func(t *testing.T) {
		t.Parallel()
		ctx := testContext(t)
		db := openTestDB(t)

		src := NewDelimitedSource(strings.NewReader("1,2\n3,4\n"), DialectCSV)
		require.NoError(t, ImportTable(ctx, db, src, "raw", model.HeaderModeWithoutHeader))

		assert.Equal(t, []string{"__COL1", "__COL2"}, queryColumns(t, db, "raw"))
		assert.Equal(t, [][]string{{"1", "2"}, {"3", "4"}}, queryRecords(t, db, "SELECT * FROM raw ORDER BY __COL1"))
	})

	t.Run("blank header cell is synthesized", func(t *testing.T) {
		t.Parallel()
		ctx := testContext(t)
		db := openTestDB(t)

		src := NewDelimitedSource(strings.NewReader("id,,name\n1,x,alice\n"), DialectCSV)
		require.NoError(t, ImportTable(ctx, db, src, "t", model.HeaderModeWithHeader))
		assert.Equal(t, []string{"id", "__COL2", "name"}, queryColumns(t, db, "t"))
	})

	t.Run("header only creates an empty table", func(t *testing.T) {
		t.Parallel()
		ctx := testContext(t)
		db := openTestDB(t)

		src := NewDelimitedSource(strings.NewReader("a,b\n"), DialectCSV)
		require.NoError(t, ImportTable(ctx, db, src, "t", model.HeaderModeWithHeader))
		assert.Equal(t, []string{"a", "b"}, queryColumns(t, db, "t"))
		assert.Empty(t, queryRecords(t, db, "SELECT * FROM t"))
	})

	t.Run("re-import replaces the table", func(t *testing.T) {
		t.Parallel()
		ctx := testContext(t)
		db := openTestDB(t)

		for range 2 {
			src := NewDelimitedSource(strings.NewReader("a\n1\n2\n"), DialectCSV)
			require.NoError(t, ImportTable(ctx, db, src, "t", model.HeaderModeWithHeader))
		}
		assert.Equal(t, [][]string{{"2"}}, queryRecords(t, db, "SELECT count(*) FROM t"))
	})

	t.Run("quoted identifiers survive", func(t *testing.T) {
		t.Parallel()
		ctx := testContext(t)
		db := openTestDB(t)

		src := NewDelimitedSource(strings.NewReader("\"say \"\"hi\"\"\",select\n1,2\n"), DialectCSV)
		require.NoError(t, ImportTable(ctx, db, src, "my table", model.HeaderModeWithHeader))
		assert.Equal(t, []string{`say "hi"`, "select"}, queryColumns(t, db, "my table"))
	})

	t.Run("empty source", func(t *testing.T) {
		t.Parallel()
		ctx := testContext(t)
		db := openTestDB(t)

		src := NewDelimitedSource(strings.NewReader(""), DialectCSV)
		err := ImportTable(ctx, db, src, "t", model.HeaderModeWithHeader)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptyData)
	})

	t.Run("duplicate header names are rejected", func(t *testing.T) {
		t.Parallel()
		ctx := testContext(t)
		db := openTestDB(t)

		src := NewDelimitedSource(strings.NewReader("id,ID\n1,2\n"), DialectCSV)
		err := ImportTable(ctx, db, src, "t", model.HeaderModeWithHeader)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicateColumnName)

		tables, err := driver.TableNames(ctx, db)
		require.NoError(t, err)
		assert.Empty(t, tables)
	})

	t.Run("added label matching an existing column is rejected", func(t *testing.T) {
		t.Parallel()
		ctx := testContext(t)
		db := openTestDB(t)

		src := newLTSVSource(strings.NewReader("a:1\nA:2\n"), nil)
		err := ImportTable(ctx, db, src, "t", model.HeaderModeWithHeader)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicateColumnName)

		tables, err := driver.TableNames(ctx, db)
		require.NoError(t, err)
		assert.Empty(t, tables)
	})

	t.Run("malformed row rolls back the import", func(t *testing.T) {
		t.Parallel()
		ctx := testContext(t)
		db := openTestDB(t)

		src := NewDelimitedSource(strings.NewReader("a,b\n1,2\n\"broken,3\n"), DialectCSV)
		err := ImportTable(ctx, db, src, "t", model.HeaderModeWithHeader)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "table: t")

		tables, err := driver.TableNames(ctx, db)
		require.NoError(t, err)
		assert.Empty(t, tables)
	})
}

func TestTableImporter_ProgressInterval(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultProgressInterval, newTableImporter(0).progressInterval)
	assert.Equal(t, DefaultProgressInterval, newTableImporter(-5).progressInterval)
	assert.Equal(t, 2, newTableImporter(2).progressInterval)

	ctx := testContext(t)
	db := openTestDB(t)
	src := NewDelimitedSource(strings.NewReader("a\n1\n2\n3\n4\n5\n"), DialectCSV)
	require.NoError(t, newTableImporter(2).importTable(ctx, db, src, "t", model.HeaderModeWithHeader, ""))
	assert.Equal(t, [][]string{{"5"}}, queryRecords(t, db, "SELECT count(*) FROM t"))
}
