package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// CreateAccountsDir creates a temp directory holding one descriptor file per
// account name. Cleanup is handled via t.TempDir.
func CreateAccountsDir(t *testing.T, accounts ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range accounts {
		WriteDescriptor(t, dir, name)
	}
	return dir
}

// WriteDescriptor writes a minimal <name>.muttrc into dir.
func WriteDescriptor(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name+".muttrc")
	content := "set from = \"" + name + "@example.org\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write descriptor %s: %v", path, err)
	}
	return path
}

// RemoveDescriptor deletes <name>.muttrc from dir.
func RemoveDescriptor(t *testing.T, dir, name string) {
	t.Helper()

	if err := os.Remove(filepath.Join(dir, name+".muttrc")); err != nil {
		t.Fatalf("failed to remove descriptor %s: %v", name, err)
	}
}
