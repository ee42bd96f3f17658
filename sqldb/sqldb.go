package sqldb

import (
	"database/sql"
)

func mustPrepare(db *sql.DB, query string) *sql.Stmt {
	stmt, err := db.Prepare(query)
	if err != nil {
		panic(err)
	}
	return stmt
}

// nullInt converts zero to NULL, for optional foreign keys.
func nullInt(i int) interface{} {
	if i == 0 {
		return nil
	}
	return i
}

// nullString converts the empty string to NULL, for optional columns.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
