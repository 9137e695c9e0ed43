package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestStore(t *testing.T) *UserStore {
	t.Helper()
	return NewUserStore(filepath.Join(t.TempDir(), "users.json"))
}

func TestLoadCreatesEmptyStore(t *testing.T) {
	store := newTestStore(t)

	users, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, users)

	// The file now exists and holds an empty mapping.
	data, err := os.ReadFile(store.path)
	require.NoError(t, err)
	assert.JSONEq(t, "{}", string(data))
}

func TestAddAndCheck(t *testing.T) {
	store := newTestStore(t)

	ok, err := store.Add("ravi", "secret", RoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)

	valid, role, err := store.Check("ravi", "secret")
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, RoleAdmin, role)

	valid, role, err = store.Check("ravi", "wrong")
	require.NoError(t, err)
	assert.False(t, valid)
	assert.Empty(t, role)
}

func TestAddDuplicateFails(t *testing.T) {
	store := newTestStore(t)

	ok, err := store.Add("ravi", "secret", RoleCustomerAdmin)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Add("ravi", "other", RoleCustomerAdmin)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddCoercesUnknownRole(t *testing.T) {
	store := newTestStore(t)

	ok, err := store.Add("ravi", "secret", "superuser")
	require.NoError(t, err)
	assert.True(t, ok)

	_, role, err := store.Check("ravi", "secret")
	require.NoError(t, err)
	assert.Equal(t, RoleCustomerAdmin, role)
}

func TestCheckUnknownUser(t *testing.T) {
	store := newTestStore(t)

	valid, role, err := store.Check("ghost", "whatever")
	require.NoError(t, err)
	assert.False(t, valid)
	assert.Empty(t, role)
}

func TestLegacyRecordMigratesOnSuccessfulCheck(t *testing.T) {
	store := newTestStore(t)

	// Write a legacy-format store by hand: username → bare hash string.
	hash, err := bcrypt.GenerateFromPassword([]byte("oldpass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	raw := map[string]string{"veteran": string(hash)}
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.path, data, 0o600))

	valid, role, err := store.Check("veteran", "oldpass")
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, RoleAdmin, role)

	// The record has been rewritten to the current format on disk.
	users, err := store.Load()
	require.NoError(t, err)
	rec := users["veteran"]
	assert.False(t, rec.Legacy)
	assert.Equal(t, RoleAdmin, rec.Role)

	// A subsequent check against the same password still succeeds.
	valid, role, err = store.Check("veteran", "oldpass")
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, RoleAdmin, role)
}

func TestLegacyRecordWrongPasswordDoesNotMigrate(t *testing.T) {
	store := newTestStore(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("oldpass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	data, err := json.Marshal(map[string]string{"veteran": string(hash)})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.path, data, 0o600))

	valid, _, err := store.Check("veteran", "wrong")
	require.NoError(t, err)
	assert.False(t, valid)

	users, err := store.Load()
	require.NoError(t, err)
	assert.True(t, users["veteran"].Legacy)
}

func TestCurrentRecordMissingRoleDefaults(t *testing.T) {
	store := newTestStore(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.DefaultCost)
	require.NoError(t, err)
	data := []byte(`{"ravi": {"password": ` + mustJSON(t, string(hash)) + `}}`)
	require.NoError(t, os.WriteFile(store.path, data, 0o600))

	valid, role, err := store.Check("ravi", "pw")
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, RoleCustomerAdmin, role)
}

func mustJSON(t *testing.T, s string) string {
	t.Helper()
	data, err := json.Marshal(s)
	require.NoError(t, err)
	return string(data)
}
