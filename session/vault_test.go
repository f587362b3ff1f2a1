package session

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	apperrors "github.com/adrian-25/talk-glide/errors"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Save_And_Load_Token(t *testing.T) {
	req := require.New(t)
	vault := NewVault(openTestDB(t))

	req.NoError(vault.Save("signed.jwt.token"))

	token, err := vault.Load()
	req.NoError(err)
	req.Equal("signed.jwt.token", token)
}

func Test_Load_Without_Saved_Session(t *testing.T) {
	req := require.New(t)
	vault := NewVault(openTestDB(t))

	_, err := vault.Load()
	req.ErrorIs(err, apperrors.ErrNoSession)
}

func Test_Delete_Removes_Token(t *testing.T) {
	req := require.New(t)
	vault := NewVault(openTestDB(t))

	req.NoError(vault.Save("signed.jwt.token"))
	req.NoError(vault.Delete())

	_, err := vault.Load()
	req.ErrorIs(err, apperrors.ErrNoSession)
}
