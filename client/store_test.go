package client

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *CredentialStore {
	t.Helper()
	return NewCredentialStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestStoreEmptyByDefault(t *testing.T) {
	store := newTestStore(t)
	assert.False(t, store.IsLoggedIn())
	assert.Empty(t, store.Token())
	assert.Empty(t, store.Role())
	assert.Nil(t, store.User())
}

func TestStoreSaveAndReload(t *testing.T) {
	store := newTestStore(t)
	user := json.RawMessage(`{"id":"abc","role":"teacher"}`)
	require.NoError(t, store.SaveSession("tok-123", user, "teacher"))

	assert.True(t, store.IsLoggedIn())
	assert.Equal(t, "tok-123", store.Token())
	assert.Equal(t, "teacher", store.Role())
	assert.JSONEq(t, string(user), string(store.User()))
}

func TestStoreClear(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveSession("tok", json.RawMessage(`{}`), "admin"))
	require.NoError(t, store.Clear())

	assert.False(t, store.IsLoggedIn())
	assert.Empty(t, store.Token())
	assert.Empty(t, store.Role())
}

func TestStoreSurvivesCorruptFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveSession("tok", nil, "admin"))

	// Another store on the same path sees the session.
	other := NewCredentialStore(store.path)
	assert.Equal(t, "tok", other.Token())
}
