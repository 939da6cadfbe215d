package tailscale

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SaveKeysBackup writes the issued keys to a timestamped file under dir and
// returns the file path. The directory is created if it does not exist. The
// file is written with owner-only permissions since it contains key secrets.
func SaveKeysBackup(keys []*AuthKey, dir string, expiryDays int) (string, error) {
	if len(keys) == 0 {
		return "", fmt.Errorf("no keys to back up")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	now := time.Now()
	path := filepath.Join(dir, fmt.Sprintf("tailscale-keys-%s.txt", now.Format("20060102-150405")))

	var b strings.Builder
	fmt.Fprintf(&b, "# Tailscale auth keys issued %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&b, "# Keys: %d\n", len(keys))
	fmt.Fprintf(&b, "# Expiry: %d days\n", expiryDays)
	for _, key := range keys {
		b.WriteString(key.Key)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return "", fmt.Errorf("writing backup file: %w", err)
	}
	return path, nil
}
