package git

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// tokenUser is the username GitHub expects alongside a token in HTTP
// basic auth.
const tokenUser = "x-access-token"

// defaultKeyNames are tried in order under ~/.ssh when no agent is running.
var defaultKeyNames = []string{"id_ed25519", "id_rsa", "id_ecdsa"}

// ResolveAuth picks push credentials for the remote URL.
//
//   - http(s): basic auth with GITHUB_TOKEN or GH_TOKEN when set.
//   - ssh: the SSH agent, then the first default key in ~/.ssh.
//   - anything else (file paths, git://): no auth.
//
// A nil AuthMethod lets go-git fall back to its own defaults.
func ResolveAuth(remoteURL string) (transport.AuthMethod, error) {
	ep, err := transport.NewEndpoint(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("parsing remote URL: %w", err)
	}

	switch ep.Protocol {
	case "http", "https":
		return tokenAuth(), nil
	case "ssh":
		return sshAuth(ep.User)
	default:
		return nil, nil
	}
}

func tokenAuth() transport.AuthMethod {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		token = os.Getenv("GH_TOKEN")
	}
	if token == "" {
		return nil
	}
	return &http.BasicAuth{Username: tokenUser, Password: token}
}

func sshAuth(user string) (transport.AuthMethod, error) {
	if user == "" {
		user = "git"
	}

	if os.Getenv("SSH_AUTH_SOCK") != "" {
		if auth, err := ssh.NewSSHAgentAuth(user); err == nil {
			return auth, nil
		}
	}

	keyPath, ok := findDefaultSSHKey()
	if !ok {
		return nil, nil
	}

	keys, err := ssh.NewPublicKeysFromFile(user, keyPath, os.Getenv("EASYTAG_SSH_PASSPHRASE"))
	if err != nil {
		return nil, fmt.Errorf("loading SSH key %s: %w", keyPath, err)
	}
	return keys, nil
}

func findDefaultSSHKey() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	for _, name := range defaultKeyNames {
		path := filepath.Join(home, ".ssh", name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// DescribeAuth names the kind of credentials without exposing them.
func DescribeAuth(auth transport.AuthMethod) string {
	switch auth.(type) {
	case nil:
		return "none"
	case *http.BasicAuth:
		return "token"
	case *ssh.PublicKeysCallback:
		return "ssh-agent"
	case *ssh.PublicKeys:
		return "ssh-key"
	default:
		return auth.Name()
	}
}
