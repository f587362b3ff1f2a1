package session

import (
	"errors"

	"github.com/dgraph-io/badger/v4"

	apperrors "github.com/adrian-25/talk-glide/errors"
)

var tokenKey = []byte("session:token")

// Vault persists the signed session token in a local BadgerDB so a restart
// can resume the session without asking for credentials again.
type Vault struct {
	db *badger.DB
}

func NewVault(db *badger.DB) *Vault {
	return &Vault{db: db}
}

func (v *Vault) Save(token string) error {
	return v.db.Update(func(txn *badger.Txn) error {
		return txn.Set(tokenKey, []byte(token))
	})
}

// Load returns the persisted token, or ErrNoSession when none was saved.
func (v *Vault) Load() (string, error) {
	var token string
	err := v.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(tokenKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			token = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", apperrors.ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (v *Vault) Delete() error {
	return v.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(tokenKey)
	})
}
