package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/grit/pkg/repo"
	"golang.org/x/crypto/ssh"
)

// Commit signatures are stored as a single header value:
// "sshsig-v1:<key format>:<base64 public key>:<base64 signature blob>".
const commitSignaturePrefix = "sshsig-v1"

// defaultKeyNames are tried in order under ~/.ssh when no key is given.
var defaultKeyNames = []string{"id_ed25519", "id_ecdsa", "id_rsa"}

// newSSHCommitSigner loads the SSH private key at keyPath (or probes the
// default key locations when keyPath is empty) and returns a CommitSigner
// along with the path of the key that will be used.
func newSSHCommitSigner(keyPath string) (repo.CommitSigner, string, error) {
	resolved, err := signingKeyPath(keyPath)
	if err != nil {
		return nil, "", err
	}

	pem, err := os.ReadFile(resolved)
	if err != nil {
		return nil, "", fmt.Errorf("read signing key %q: %w", resolved, err)
	}
	key, err := ssh.ParsePrivateKey(pem)
	if err != nil {
		return nil, "", fmt.Errorf("parse signing key %q: %w", resolved, err)
	}
	pubB64 := base64.StdEncoding.EncodeToString(key.PublicKey().Marshal())

	sign := func(payload []byte) (string, error) {
		sig, err := key.Sign(rand.Reader, payload)
		if err != nil {
			return "", err
		}
		parts := []string{
			commitSignaturePrefix,
			sig.Format,
			pubB64,
			base64.StdEncoding.EncodeToString(sig.Blob),
		}
		return strings.Join(parts, ":"), nil
	}
	return sign, resolved, nil
}

// signingKeyPath resolves an explicit key path (with ~ expansion) or falls
// back to the first default key present under the user's ~/.ssh.
func signingKeyPath(path string) (string, error) {
	if path = strings.TrimSpace(path); path != "" {
		if strings.HasPrefix(path, "~/") {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home dir: %w", err)
			}
			path = filepath.Join(home, path[2:])
		}
		return filepath.Abs(path)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	for _, name := range defaultKeyNames {
		candidate := filepath.Join(home, ".ssh", name)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no SSH private key found under %s (tried %s)",
		filepath.Join(home, ".ssh"), strings.Join(defaultKeyNames, ", "))
}
