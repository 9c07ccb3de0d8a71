package jwt

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymmetricKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hs256.key")
	key := testHS256Key(t)

	require.NoError(t, SaveSymmetricKey(path, key))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "LaJlZbkRC7BBEQvnwefrlc3UJs-Z54Idq07munqE5AQ\n", string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	loaded, err := LoadSymmetricKey(path)
	require.NoError(t, err)
	assert.Equal(t, key.Bytes(), loaded.Bytes())
}

func TestEd25519KeyFiles(t *testing.T) {
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "eddsa.key")
	publicPath := filepath.Join(dir, "eddsa.pub")

	secret := testEd25519SecretKey(t)
	require.NoError(t, SaveEd25519SecretKey(secretPath, secret))
	require.NoError(t, os.WriteFile(publicPath, []byte(secret.PublicKey().Encode()+"\n"), 0o644))

	loadedSecret, err := LoadEd25519SecretKey(secretPath)
	require.NoError(t, err)
	assert.Equal(t, secret.Bytes(), loadedSecret.Bytes())

	loadedPublic, err := LoadEd25519PublicKey(publicPath)
	require.NoError(t, err)
	assert.Equal(t, mustHex(t, ed25519PublicHex), loadedPublic.Bytes())
}

func TestRSAKeyFiles(t *testing.T) {
	dir := t.TempDir()
	privatePath := filepath.Join(dir, "rsa.key")
	publicPath := filepath.Join(dir, "rsa.pub")
	require.NoError(t, os.WriteFile(privatePath, testRSAPrivateKeyPEM(t), 0o600))
	require.NoError(t, os.WriteFile(publicPath, testRSAPublicKeyPEM(t), 0o644))

	priv, err := LoadRSAPrivateKey(privatePath)
	require.NoError(t, err)
	pub, err := LoadRSAPublicKey(publicPath)
	require.NoError(t, err)
	want, err := priv.PublicKey().Encode()
	require.NoError(t, err)
	got, err := pub.Encode()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	signer, err := NewRS256WithPrivateKey(priv)
	require.NoError(t, err)
	verifier, err := NewRS256(pub, nil)
	require.NoError(t, err)

	token, err := newTestEngine(t, signer).Encode(johnDoeClaims())
	require.NoError(t, err)
	_, err = newTestEngine(t, verifier).Decode(token)
	require.NoError(t, err)
}

func TestKeyFileErrors(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing")

	_, err := LoadSymmetricKey(missing)
	require.ErrorIs(t, err, os.ErrNotExist)
	_, err = LoadEd25519SecretKey(missing)
	require.ErrorIs(t, err, os.ErrNotExist)
	_, err = LoadEd25519PublicKey(missing)
	require.ErrorIs(t, err, os.ErrNotExist)
	_, err = LoadRSAPrivateKey(missing)
	require.ErrorIs(t, err, os.ErrNotExist)
	_, err = LoadRSAPublicKey(missing)
	require.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(dir, "garbage")
	require.NoError(t, os.WriteFile(garbage, []byte("not a key!\n"), 0o600))

	_, err = LoadSymmetricKey(garbage)
	require.ErrorIs(t, err, ErrInvalidBase64)
	assert.Contains(t, err.Error(), garbage)

	short := filepath.Join(dir, "short")
	require.NoError(t, os.WriteFile(short, []byte("AAAA\n"), 0o600))
	_, err = LoadSymmetricKey(short)
	require.ErrorIs(t, err, ErrKeyLength)
	_, err = LoadEd25519SecretKey(short)
	require.ErrorIs(t, err, ErrKeyLength)
	_, err = LoadEd25519PublicKey(short)
	require.ErrorIs(t, err, ErrKeyLength)

	_, err = LoadRSAPrivateKey(garbage)
	require.ErrorIs(t, err, ErrKey)
	_, err = LoadRSAPublicKey(garbage)
	require.ErrorIs(t, err, ErrKey)

	err = SaveSymmetricKey(filepath.Join(dir, "no", "such", "dir"), testHS256Key(t))
	require.ErrorIs(t, err, os.ErrNotExist)
}
