// Package driver provides the SQLite driver behind csvsql.
// It implements database/sql/driver interfaces on top of modernc.org/sqlite.
package driver
