package sqlite

import (
	"database/sql"

	"github.com/vantasec/adminauth/internal/admin/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Accounts() store.Accounts { return &accountsRepo{db: t.tx} }
func (t *txStore) Sessions() store.Sessions { return &sessionsRepo{db: t.tx} }
func (t *txStore) AuditLog() store.AuditLog { return &auditRepo{db: t.tx} }
