package db

// GetDBTX returns the underlying database transaction or connection interface.
// Useful for starting transactions or accessing the raw connection.
func (q *Queries) GetDBTX() DBTX {
	return q.db
}
