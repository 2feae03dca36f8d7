package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/cardtrack/internal/common"
	"github.com/dmitrijs2005/cardtrack/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	e := newEnv(t)
	e.expectCommit()

	u, err := e.users.Register(context.Background(), RegisterInput{Name: " Alice ", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	assert.NotZero(t, u.ID)
	assert.Equal(t, "Alice", u.Name)
	assert.False(t, u.IsAdmin)
	assert.Equal(t, "hashed:pw", u.Password)
	assert.NotEqual(t, "pw", e.store.users[u.ID].Password)
	require.NoError(t, e.mock.ExpectationsWereMet())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	e := newEnv(t)
	e.seedUser("alice", false)
	e.expectRollback()

	_, err := e.users.Register(context.Background(), RegisterInput{Name: "Other", Email: "alice@example.com", Password: "pw"})

	var ce *common.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, common.UniqueViolation, ce.Kind)
	assert.Equal(t, "Email address already in use", err.Error())
	assert.Len(t, e.store.users, 1)
	require.NoError(t, e.mock.ExpectationsWereMet())
}

func TestRegister_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"name", RegisterInput{Email: "a@example.com", Password: "pw"}, "name"},
		{"blank name", RegisterInput{Name: "   ", Email: "a@example.com", Password: "pw"}, "name"},
		{"email", RegisterInput{Name: "A", Password: "pw"}, "email"},
		{"password", RegisterInput{Name: "A", Email: "a@example.com"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			e.expectRollback()

			_, err := e.users.Register(context.Background(), tt.in)

			var ce *common.ConflictError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, common.NotNull, ce.Kind)
			assert.Equal(t, tt.field, ce.Field)
			assert.Empty(t, e.store.users)
		})
	}
}

func TestRegister_EmptyPasswordIsNotHashed(t *testing.T) {
	e := newEnv(t)
	e.expectRollback()

	_, err := e.users.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com"})
	require.Error(t, err)
	assert.Zero(t, e.hasher.hashed)
}

func TestCreateAdmin(t *testing.T) {
	e := newEnv(t)
	e.expectCommit()

	u, err := e.users.CreateAdmin(context.Background(), RegisterInput{Name: "Root", Email: "root@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
}

func TestLogin_Success(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser("alice", true)

	res, err := e.users.Login(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, res.User.ID)
	assert.True(t, res.User.IsAdmin)

	id, err := auth.GetUserIDFromToken(res.Token, []byte(e.cfg.SecretKey))
	require.NoError(t, err)
	assert.Equal(t, alice.ID, id)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	e := newEnv(t)
	e.seedUser("alice", false)

	_, unknown := e.users.Login(context.Background(), "nobody@example.com", "secret")
	_, wrong := e.users.Login(context.Background(), "alice@example.com", "nope")

	require.Error(t, unknown)
	require.Error(t, wrong)
	assert.True(t, common.IsAuthError(unknown))
	assert.True(t, errors.Is(unknown, common.ErrInvalidCredentials))
	assert.Equal(t, unknown.Error(), wrong.Error())

	// The unknown e-mail path still performs a comparison.
	assert.Equal(t, 2, e.hasher.checked)
}

func TestLogin_StorageError(t *testing.T) {
	e := newEnv(t)
	e.store.userLookupErr = errors.New("db error: conn reset")

	_, err := e.users.Login(context.Background(), "alice@example.com", "secret")
	assert.ErrorIs(t, err, common.ErrInternal)
	assert.ErrorContains(t, err, "conn reset")
	assert.False(t, common.IsAuthError(err))
}

func TestSetAdmin(t *testing.T) {
	e := newEnv(t)
	bob := e.seedUser("bob", false)

	e.expectCommit()
	u, err := e.users.SetAdmin(context.Background(), "bob@example.com", true)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
	assert.True(t, e.store.users[bob.ID].IsAdmin)

	e.expectRollback()
	_, err = e.users.SetAdmin(context.Background(), "ghost@example.com", true)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.EqualError(t, err, "User not found")
}

func TestDeleteUser_CascadesToCardsAndComments(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser("alice", false)
	bob := e.seedUser("bob", false)
	aliceCard := e.seedCard(alice, "mine")
	bobCard := e.seedCard(bob, "bob's")
	e.seedComment(bob, aliceCard, "on alice's card")
	e.seedComment(alice, bobCard, "alice was here")
	kept := e.seedComment(bob, bobCard, "stays")

	e.expectCommit()
	_, err := e.users.DeleteUser(context.Background(), "alice@example.com")
	require.NoError(t, err)

	assert.NotContains(t, e.store.users, alice.ID)
	assert.NotContains(t, e.store.cards, aliceCard.ID)
	assert.Contains(t, e.store.cards, bobCard.ID)
	assert.Len(t, e.store.comments, 1)
	assert.Contains(t, e.store.comments, kept.ID)
}
