package transport

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/libp2p/go-libp2p/core/peer"
)

func TestLoadOrCreateIdentity_Creates(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "test.key")

	priv, err := LoadOrCreateIdentity(keyPath)
	if err != nil {
		t.Fatalf("LoadOrCreateIdentity() error = %v", err)
	}
	if priv == nil {
		t.Fatal("LoadOrCreateIdentity() returned nil key")
	}

	info, err := os.Stat(keyPath)
	if err != nil {
		t.Fatalf("key file not created: %v", err)
	}
	if runtime.GOOS != "windows" {
		if mode := info.Mode().Perm(); mode != 0600 {
			t.Errorf("key file permissions = %04o, want 0600", mode)
		}
	}
}

func TestLoadOrCreateIdentity_Loads(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "test.key")

	priv1, err := LoadOrCreateIdentity(keyPath)
	if err != nil {
		t.Fatalf("first LoadOrCreateIdentity() error = %v", err)
	}
	pid1, err := peer.IDFromPrivateKey(priv1)
	if err != nil {
		t.Fatalf("IDFromPrivateKey() error = %v", err)
	}

	priv2, err := LoadOrCreateIdentity(keyPath)
	if err != nil {
		t.Fatalf("second LoadOrCreateIdentity() error = %v", err)
	}
	pid2, err := peer.IDFromPrivateKey(priv2)
	if err != nil {
		t.Fatalf("IDFromPrivateKey() error = %v", err)
	}

	if pid1 != pid2 {
		t.Errorf("peer IDs differ: %s != %s", pid1, pid2)
	}
}

func TestLoadOrCreateIdentity_BadPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file permissions not applicable on Windows")
	}

	dir := t.TempDir()
	keyPath := filepath.Join(dir, "test.key")

	if _, err := LoadOrCreateIdentity(keyPath); err != nil {
		t.Fatalf("LoadOrCreateIdentity() error = %v", err)
	}
	if err := os.Chmod(keyPath, 0644); err != nil {
		t.Fatalf("Chmod() error = %v", err)
	}

	_, err := LoadOrCreateIdentity(keyPath)
	if err == nil {
		t.Fatal("LoadOrCreateIdentity() should fail with insecure permissions")
	}
	if !strings.Contains(err.Error(), "insecure permissions") {
		t.Errorf("error = %q, want it to contain 'insecure permissions'", err.Error())
	}
}
