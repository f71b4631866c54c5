package pipeline

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/anvilbuild/anvil/internal/errors"
)

// Signature is the sidecar written next to a signed file. The public
// key travels with the signature so consumers can verify without
// extra configuration.
type Signature struct {
	Format      string    `json:"format"`
	Blob        string    `json:"signature"`
	PublicKey   string    `json:"public_key"`
	Fingerprint string    `json:"fingerprint"`
	SignedAt    time.Time `json:"signed_at"`
}

// SignFile signs the file's contents with the SSH private key at
// keyPath and writes a JSON sidecar next to it. Returns the sidecar
// path.
func SignFile(path, keyPath string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileReadFailed, "read file for signing", err)
	}

	keyBytes, err := os.ReadFile(keyPath)
	if err != nil {
		return "", errors.NewSigningFailedError(keyPath, err)
	}
	signer, err := ssh.ParsePrivateKey(keyBytes)
	if err != nil {
		return "", errors.NewSigningFailedError(keyPath, err)
	}

	sig, err := signer.Sign(rand.Reader, data)
	if err != nil {
		return "", errors.NewSigningFailedError(keyPath, err)
	}

	publicKey := signer.PublicKey()
	sidecar := Signature{
		Format:      sig.Format,
		Blob:        base64.StdEncoding.EncodeToString(sig.Blob),
		PublicKey:   strings.TrimSpace(string(ssh.MarshalAuthorizedKey(publicKey))),
		Fingerprint: ssh.FingerprintSHA256(publicKey),
		SignedAt:    time.Now().UTC(),
	}

	out, err := json.MarshalIndent(sidecar, "", "  ")
	if err != nil {
		return "", errors.NewSigningFailedError(keyPath, err)
	}

	sigPath := path + ".sig"
	if err := os.WriteFile(sigPath, append(out, '\n'), 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeFileWriteFailed, "write signature file", err)
	}
	return sigPath, nil
}

// VerifyFile checks a sidecar produced by SignFile against the file's
// current contents
func VerifyFile(path, sigPath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileReadFailed, "read signed file", err)
	}
	raw, err := os.ReadFile(sigPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileReadFailed, "read signature file", err)
	}

	var sidecar Signature
	if err := json.Unmarshal(raw, &sidecar); err != nil {
		return errors.Wrap(errors.ErrCodeSigningFailed, "parse signature file", err)
	}

	publicKey, _, _, _, err := ssh.ParseAuthorizedKey([]byte(sidecar.PublicKey))
	if err != nil {
		return errors.Wrap(errors.ErrCodeSigningFailed, "parse signature public key", err)
	}

	blob, err := base64.StdEncoding.DecodeString(sidecar.Blob)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSigningFailed, "decode signature", err)
	}

	sig := &ssh.Signature{Format: sidecar.Format, Blob: blob}
	if err := publicKey.Verify(data, sig); err != nil {
		return errors.Wrap(errors.ErrCodeSigningFailed, "signature verification failed", err).
			WithSuggestion("The signed file changed since it was packed; re-run 'anvil run pack'")
	}
	return nil
}
