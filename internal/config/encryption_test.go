package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptFieldRoundTrip(t *testing.T) {
	dir := t.TempDir()
	SetAgeDirOverride(dir)
	t.Cleanup(func() { SetAgeDirOverride("") })

	encrypted, err := EncryptField("secret")
	require.NoError(t, err)
	assert.True(t, isEncrypted(encrypted))
	assert.NotContains(t, encrypted, "secret")

	assert.FileExists(t, filepath.Join(dir, identityFileName))
	assert.FileExists(t, filepath.Join(dir, recipientFileName))

	again, err := EncryptField(encrypted)
	require.NoError(t, err)
	assert.Equal(t, encrypted, again)

	plain, err := DecryptField(encrypted)
	require.NoError(t, err)
	assert.Equal(t, "secret", plain)
}

func TestEncryptFieldPassThrough(t *testing.T) {
	SetAgeDirOverride(t.TempDir())
	t.Cleanup(func() { SetAgeDirOverride("") })

	empty, err := EncryptField("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	plain, err := DecryptField("not-encrypted")
	require.NoError(t, err)
	assert.Equal(t, "not-encrypted", plain)

	_, err = DecryptField(encryptionPrefix + "!!!")
	assert.Error(t, err)
}

func TestDecryptWithOtherIdentityFails(t *testing.T) {
	SetAgeDirOverride(t.TempDir())
	t.Cleanup(func() { SetAgeDirOverride("") })

	encrypted, err := EncryptField("secret")
	require.NoError(t, err)

	SetAgeDirOverride(t.TempDir())
	_, err = DecryptField(encrypted)
	assert.Error(t, err)
}

func TestCorruptIdentityFile(t *testing.T) {
	dir := t.TempDir()
	SetAgeDirOverride(dir)
	t.Cleanup(func() { SetAgeDirOverride("") })

	require.NoError(t, os.WriteFile(filepath.Join(dir, identityFileName), []byte("garbage"), 0o600))

	_, err := EncryptField("secret")
	assert.Error(t, err)
}

func TestConfigEncryptSensitiveFields(t *testing.T) {
	SetAgeDirOverride(t.TempDir())
	t.Cleanup(func() { SetAgeDirOverride("") })

	cfg := &Config{Token: "secret"}
	require.NoError(t, cfg.EncryptSensitiveFields())
	assert.True(t, isEncrypted(cfg.Token))

	plain, err := DecryptField(cfg.Token)
	require.NoError(t, err)
	assert.Equal(t, "secret", plain)
}
