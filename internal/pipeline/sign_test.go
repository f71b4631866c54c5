package pipeline

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/anvilbuild/anvil/internal/errors"
)

// writeTestKey generates an unencrypted ed25519 key in OpenSSH format
func writeTestKey(t *testing.T) string {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	block, err := ssh.MarshalPrivateKey(priv, "anvil test key")
	require.NoError(t, err)

	keyPath := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(block), 0o600))
	return keyPath
}

func TestSignFile_RoundTrip(t *testing.T) {
	keyPath := writeTestKey(t)

	path := filepath.Join(t.TempDir(), "checksums.b3")
	require.NoError(t, os.WriteFile(path, []byte("abc123  cli-1.2.3.tar.gz\n"), 0o644))

	sigPath, err := SignFile(path, keyPath)
	require.NoError(t, err)
	assert.Equal(t, path+".sig", sigPath)

	raw, err := os.ReadFile(sigPath)
	require.NoError(t, err)

	var sig Signature
	require.NoError(t, json.Unmarshal(raw, &sig))
	assert.Equal(t, "ssh-ed25519", sig.Format)
	assert.NotEmpty(t, sig.Blob)
	assert.True(t, strings.HasPrefix(sig.PublicKey, "ssh-ed25519 "), "public key = %q", sig.PublicKey)
	assert.True(t, strings.HasPrefix(sig.Fingerprint, "SHA256:"), "fingerprint = %q", sig.Fingerprint)
	assert.False(t, sig.SignedAt.IsZero())

	assert.NoError(t, VerifyFile(path, sigPath))
}

func TestVerifyFile_DetectsTamper(t *testing.T) {
	keyPath := writeTestKey(t)

	path := filepath.Join(t.TempDir(), "checksums.b3")
	require.NoError(t, os.WriteFile(path, []byte("abc123  cli-1.2.3.tar.gz\n"), 0o644))

	sigPath, err := SignFile(path, keyPath)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("def456  cli-1.2.3.tar.gz\n"), 0o644))

	err = VerifyFile(path, sigPath)
	require.Error(t, err)

	var anvilErr *errors.AnvilError
	require.ErrorAs(t, err, &anvilErr)
	assert.Equal(t, errors.ErrCodeSigningFailed, anvilErr.Code)
	assert.Contains(t, anvilErr.Error(), "verification failed")
}

func TestSignFile_MissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checksums.b3")
	require.NoError(t, os.WriteFile(path, []byte("data\n"), 0o644))

	_, err := SignFile(path, filepath.Join(t.TempDir(), "no-such-key"))
	require.Error(t, err)

	var anvilErr *errors.AnvilError
	require.ErrorAs(t, err, &anvilErr)
	assert.Equal(t, errors.ErrCodeSigningFailed, anvilErr.Code)
}

func TestSignFile_UnparseableKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checksums.b3")
	require.NoError(t, os.WriteFile(path, []byte("data\n"), 0o644))

	keyPath := filepath.Join(dir, "id_broken")
	require.NoError(t, os.WriteFile(keyPath, []byte("not a key"), 0o600))

	_, err := SignFile(path, keyPath)
	require.Error(t, err)

	var anvilErr *errors.AnvilError
	require.ErrorAs(t, err, &anvilErr)
	assert.Equal(t, errors.ErrCodeSigningFailed, anvilErr.Code)
}

func TestVerifyFile_BadSidecar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checksums.b3")
	require.NoError(t, os.WriteFile(path, []byte("data\n"), 0o644))

	sigPath := filepath.Join(dir, "checksums.b3.sig")
	require.NoError(t, os.WriteFile(sigPath, []byte("{not json"), 0o644))

	err := VerifyFile(path, sigPath)
	require.Error(t, err)

	var anvilErr *errors.AnvilError
	require.ErrorAs(t, err, &anvilErr)
	assert.Equal(t, errors.ErrCodeSigningFailed, anvilErr.Code)
}
