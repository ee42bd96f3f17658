package sqldb

import (
	"testing"

	"clubsite/auth"
	"clubsite/core"
	"github.com/stretchr/testify/require"
)

func TestInsertAndLoginUser(t *testing.T) {

	userDB := NewUserDB(testDB(t))

	u, err := userDB.InsertUser("  Alice ", "secret", auth.Author)
	require.NoError(t, err)
	require.Equal(t, "alice", u.Name()) // trimmed and lowercased
	require.True(t, u.Has(auth.Author))
	require.False(t, u.Has(auth.Leader))

	u, err = userDB.LoginUser("alice", "secret")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Name())

	_, err = userDB.LoginUser("alice", "wrong")
	require.Equal(t, auth.ErrAuth, err)

	_, err = userDB.LoginUser("nobody", "secret")
	require.Equal(t, auth.ErrAuth, err)
}

func TestInsertUserDuplicate(t *testing.T) {

	userDB := NewUserDB(testDB(t))

	_, err := userDB.InsertUser("alice", "secret")
	require.NoError(t, err)

	_, err = userDB.InsertUser("Alice", "other") // same name after cleaning
	require.Equal(t, auth.ErrUsernameTaken, err)

	n, err := userDB.CountUsers()
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestInsertUserEmptyPassword(t *testing.T) {

	userDB := NewUserDB(testDB(t))

	_, err := userDB.InsertUser("alice", "")
	require.Equal(t, auth.ErrEmptyPassword, err)
}

func TestSetPermissions(t *testing.T) {

	userDB := NewUserDB(testDB(t))

	u, err := userDB.InsertUser("alice", "secret")
	require.NoError(t, err)

	require.NoError(t, userDB.SetPermissions(u, true, true))
	require.True(t, u.Has(auth.Leader))
	require.True(t, u.Has(auth.Author))

	// the change is persisted
	u, err = userDB.GetUser(u.ID())
	require.NoError(t, err)
	require.True(t, u.Has(auth.Leader))
	require.True(t, u.Has(auth.Author))

	require.NoError(t, userDB.SetPermissions(u, false, true))
	u, err = userDB.GetUser(u.ID())
	require.NoError(t, err)
	require.False(t, u.Has(auth.Leader))
	require.True(t, u.Has(auth.Author))
}

func TestSetPassword(t *testing.T) {

	userDB := NewUserDB(testDB(t))

	u, err := userDB.InsertUser("alice", "secret")
	require.NoError(t, err)

	require.Equal(t, auth.ErrEmptyPassword, userDB.SetPassword(u, ""))
	require.NoError(t, userDB.SetPassword(u, "changed"))

	_, err = userDB.LoginUser("alice", "secret")
	require.Equal(t, auth.ErrAuth, err)

	_, err = userDB.LoginUser("alice", "changed")
	require.NoError(t, err)
}

func TestGetUserNotFound(t *testing.T) {

	userDB := NewUserDB(testDB(t))

	_, err := userDB.GetUser(42)
	require.Equal(t, core.ErrNotFound, err)

	_, err = userDB.GetUserByName("nobody")
	require.Equal(t, core.ErrNotFound, err)
}
