// Package account discovers mail accounts from a directory of per-account
// descriptor files.
package account

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
)

// DescriptorExt is the extension that marks a file as an account descriptor.
const DescriptorExt = ".muttrc"

// Discover returns one identifier per descriptor file in dir: the file name
// without DescriptorExt. A missing directory yields no accounts and no error.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading accounts directory %s: %w", dir, err)
	}

	accounts := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, DescriptorExt) {
			continue
		}
		id := strings.TrimSuffix(name, DescriptorExt)
		if id == "" {
			continue
		}
		accounts = append(accounts, id)
	}

	sort.Strings(accounts)
	return accounts, nil
}
