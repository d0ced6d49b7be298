package csvsql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nao1215/csvsql/domain/model"
	"github.com/nao1215/csvsql/driver"
)

// Querier is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ExecuteOne runs one statement and drains its result.
// A statement that produces no columns yields an empty result set.
func ExecuteOne(ctx context.Context, q Querier, statement string) (model.ResultSet, error) {
	rows, err := q.QueryContext(ctx, statement)
	if err != nil {
		return model.ResultSet{}, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return model.ResultSet{}, fmt.Errorf("failed to read columns: %w", err)
	}
	if len(columns) == 0 {
		for rows.Next() {
		}
		return model.ResultSet{}, rows.Err()
	}

	data := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return model.ResultSet{}, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		data = append(data, values)
	}
	if err := rows.Err(); err != nil {
		return model.ResultSet{}, err
	}
	return model.NewResultSet(columns, data), nil
}

// ExecuteAll runs statements in order inside one transaction and commits
// once after the last one. The first failing statement rolls the batch
// back and is reported as a *StatementError.
//
// A COMMIT or ROLLBACK statement ends the transaction early; the statements
// after it run in autocommit mode and are not rolled back on failure.
func ExecuteAll(ctx context.Context, db *sql.DB, statements []string) (results []model.ResultSet, err error) {
	if len(statements) == 0 {
		return nil, ErrNoStatements
	}
	logger := LoggerFrom(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback() // Ignore rollback error since we're already returning an error
		}
	}()

	results = make([]model.ResultSet, 0, len(statements))
	for i, statement := range statements {
		logger.Debug("executing statement", "index", i+1, "sql", driver.SanitizeForLog(statement))
		rs, err := ExecuteOne(ctx, tx, statement)
		if err != nil {
			return nil, &StatementError{Index: i, Statement: statement, Err: err}
		}
		results = append(results, rs)
	}

	if err := tx.Commit(); err != nil {
		if !driver.IsNoActiveTransaction(err) {
			return nil, fmt.Errorf("failed to commit statements: %w", err)
		}
		// A COMMIT or ROLLBACK in the batch already ended the transaction.
		logger.Debug("transaction ended inside the batch")
	}
	logger.Info("executed statements", "count", len(statements))
	return results, nil
}

// LastResult returns the last result set, or an empty one.
func LastResult(results []model.ResultSet) model.ResultSet {
	if len(results) == 0 {
		return model.ResultSet{}
	}
	return results[len(results)-1]
}
