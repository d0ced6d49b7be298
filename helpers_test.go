package csvsql

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	csvsqldriver "github.com/nao1215/csvsql/driver"
	"github.com/nao1215/csvsql/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testContext carries a logger that writes to t.Log.
func testContext(t *testing.T) context.Context {
	t.Helper()
	return WithLogger(context.Background(), testutil.NewTestLogger(t))
}

// openTestDB opens an in-memory database that is closed with the test.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := csvsqldriver.Open(context.Background(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// writeTestFile writes content to name under a fresh temporary directory.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// queryRecords runs query and renders every row as strings.
func queryRecords(t *testing.T, db *sql.DB, query string) [][]string {
	t.Helper()
	rs, err := ExecuteOne(context.Background(), db, query)
	require.NoError(t, err)
	records := make([][]string, 0, rs.Len())
	for _, r := range rs.Records() {
		records = append(records, []string(r))
	}
	return records
}

// queryColumns returns the column names of table in schema order.
func queryColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rs, err := ExecuteOne(context.Background(), db, "SELECT * FROM "+csvsqldriver.QuoteIdentifier(table)+" LIMIT 0")
	require.NoError(t, err)
	return rs.Columns
}
