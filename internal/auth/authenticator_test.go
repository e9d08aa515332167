package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/task-tracker/internal/domain"
)

type fakeCredentialStore struct {
	existing map[string]bool
	err      error
}

func (f *fakeCredentialStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.existing[username], nil
}

func newTestAuthenticator(store *fakeCredentialStore) (*Authenticator, *TokenManager) {
	tm := NewTokenManager(testSecret, 60)
	return NewAuthenticator(tm, store, zap.NewNop()), tm
}

func TestAuthenticator_ValidToken(t *testing.T) {
	store := &fakeCredentialStore{existing: map[string]bool{"alice": true}}
	a, tm := newTestAuthenticator(store)

	token, _, err := tm.Issue("alice", domain.RoleModerator)
	require.NoError(t, err)

	p := a.Authenticate(context.Background(), "Bearer "+token)
	require.NotNil(t, p)
	require.Equal(t, "alice", p.Subject)
	require.Equal(t, domain.RoleModerator, p.Role)
}

func TestAuthenticator_MissingHeaderIsAnonymous(t *testing.T) {
	a, _ := newTestAuthenticator(&fakeCredentialStore{})

	require.Nil(t, a.Authenticate(context.Background(), ""))
}

func TestAuthenticator_MalformedHeaderIsAnonymous(t *testing.T) {
	a, tm := newTestAuthenticator(&fakeCredentialStore{existing: map[string]bool{"alice": true}})

	token, _, err := tm.Issue("alice", domain.RoleUser)
	require.NoError(t, err)

	require.Nil(t, a.Authenticate(context.Background(), token))
	require.Nil(t, a.Authenticate(context.Background(), "Basic "+token))
}

func TestAuthenticator_BadTokenIsAnonymous(t *testing.T) {
	a, _ := newTestAuthenticator(&fakeCredentialStore{existing: map[string]bool{"alice": true}})

	require.Nil(t, a.Authenticate(context.Background(), "Bearer not-a-token"))
}

func TestAuthenticator_DeletedSubjectIsAnonymous(t *testing.T) {
	store := &fakeCredentialStore{existing: map[string]bool{}}
	a, tm := newTestAuthenticator(store)

	// signature is valid, but the account is gone
	token, _, err := tm.Issue("ghost", domain.RoleAdmin)
	require.NoError(t, err)

	require.Nil(t, a.Authenticate(context.Background(), "Bearer "+token))
}

func TestAuthenticator_StoreErrorIsAnonymous(t *testing.T) {
	store := &fakeCredentialStore{err: errors.New("connection refused")}
	a, tm := newTestAuthenticator(store)

	token, _, err := tm.Issue("alice", domain.RoleUser)
	require.NoError(t, err)

	require.Nil(t, a.Authenticate(context.Background(), "Bearer "+token))
}
