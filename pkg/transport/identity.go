package transport

import (
	"fmt"
	"os"
	"runtime"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
)

// LoadOrCreateIdentity loads an existing node identity from path, or
// generates and persists a new Ed25519 keypair if none exists. An existing
// key file with permissions broader than 0600 is rejected rather than
// silently trusted, since it may have been read by another local user.
func LoadOrCreateIdentity(path string) (crypto.PrivKey, error) {
	if info, err := os.Stat(path); err == nil {
		if runtime.GOOS != "windows" && info.Mode().Perm()&0077 != 0 {
			return nil, fmt.Errorf("identity: %s has insecure permissions %04o, want 0600", path, info.Mode().Perm())
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("identity: read %s: %w", path, err)
		}
		priv, err := crypto.UnmarshalPrivateKey(data)
		if err != nil {
			return nil, fmt.Errorf("identity: unmarshal key from %s: %w", path, err)
		}
		return priv, nil
	}

	priv, _, err := crypto.GenerateKeyPair(crypto.Ed25519, -1)
	if err != nil {
		return nil, fmt.Errorf("identity: generate keypair: %w", err)
	}

	data, err := crypto.MarshalPrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("identity: marshal private key: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return nil, fmt.Errorf("identity: save key to %s: %w", path, err)
	}
	return priv, nil
}

// PeerIDFromKeyFile loads (or creates) a key file and returns the derived peer ID.
func PeerIDFromKeyFile(path string) (peer.ID, error) {
	priv, err := LoadOrCreateIdentity(path)
	if err != nil {
		return "", err
	}
	id, err := peer.IDFromPrivateKey(priv)
	if err != nil {
		return "", fmt.Errorf("identity: derive peer ID: %w", err)
	}
	return id, nil
}
