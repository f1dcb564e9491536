package sql

import "database/sql"

// TxOf exposes the transaction a repository is bound to.
func TxOf(repo any) *sql.Tx {
	switch r := repo.(type) {
	case *ProductRepository:
		return r.txn
	case *CategoryRepository:
		return r.txn
	case *EventRepository:
		return r.txn
	}
	return nil
}
