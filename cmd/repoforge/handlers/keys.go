package handlers

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/forgeops/repoforge/internal/config"
	"github.com/forgeops/repoforge/internal/platform/tailscale"
)

// KeysIssue issues count auth keys with the configured capabilities and
// prints them. With backup enabled, the keys are also written to a
// timestamped backup file.
func KeysIssue(ctx context.Context, configPath string, count int) error {
	cfg, issuer, err := keyIssuerFromConfig(configPath)
	if err != nil {
		return err
	}
	if count < 1 {
		return fmt.Errorf("count must be positive, got %d", count)
	}

	keyCfg := cfg.Tailscale.Key
	keys, err := issuer.CreateAuthKeys(ctx, count, tailscale.KeyOptions{
		ExpiryDays:    keyCfg.ExpiryDays,
		Reusable:      keyCfg.Reusable,
		Ephemeral:     keyCfg.Ephemeral,
		Preauthorized: keyCfg.Preauthorized,
		Tags:          keyCfg.Tags,
	}, func(current, total int, message string) {
		fmt.Printf("[%d/%d] %s\n", current, total, message)
	})
	if err != nil {
		return err
	}

	fmt.Println()
	for _, key := range keys {
		fmt.Println(key.Key)
	}

	if cfg.Backup.Enabled {
		path, err := tailscale.SaveKeysBackup(keys, cfg.Backup.Directory, keyCfg.ExpiryDays)
		if err != nil {
			return fmt.Errorf("keys issued but backup failed: %w", err)
		}
		fmt.Printf("\nBackup written to %s\n", path)
	}
	return nil
}

// KeysList prints the tailnet's existing auth keys.
func KeysList(ctx context.Context, configPath string) error {
	_, issuer, err := keyIssuerFromConfig(configPath)
	if err != nil {
		return err
	}

	keys, err := issuer.ListKeys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Println("No auth keys found.")
		return nil
	}

	fmt.Printf("%-16s %-22s %s\n", "ID", "CREATED", "EXPIRES")
	for _, key := range keys {
		fmt.Printf("%-16s %-22s %s\n", key.ID,
			formatKeyTime(key.Created), formatKeyTime(key.Expires))
	}
	return nil
}

// KeysDelete revokes one auth key by ID.
func KeysDelete(ctx context.Context, configPath, id string) error {
	_, issuer, err := keyIssuerFromConfig(configPath)
	if err != nil {
		return err
	}
	if err := issuer.DeleteKey(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted key %s\n", id)
	return nil
}

// KeysBackup uploads the newest local backup file to the configured S3
// bucket and lists what is already stored there.
func KeysBackup(ctx context.Context, configPath string) error {
	cfg, err := parseConfig(configPath)
	if err != nil {
		return err
	}
	if !cfg.Backup.S3.Enabled {
		return fmt.Errorf("backup.s3 is not enabled in the configuration")
	}
	s3cfg := cfg.Backup.S3
	if s3cfg.Endpoint == "" || s3cfg.Bucket == "" || s3cfg.AccessKey == "" || s3cfg.SecretKey == "" {
		return fmt.Errorf("backup.s3 requires endpoint, bucket, access_key, and secret_key")
	}

	local, err := newestBackupFile(cfg.Backup.Directory)
	if err != nil {
		return err
	}

	store, err := newBackupStore(cfg.Backup.S3)
	if err != nil {
		return fmt.Errorf("failed to create backup store: %w", err)
	}
	if err := store.EnsureBucket(ctx, cfg.Backup.S3.Bucket); err != nil {
		return err
	}

	key, err := store.UploadBackup(ctx, cfg.Backup.S3.Bucket, cfg.Backup.S3.Prefix, local)
	if err != nil {
		return err
	}
	fmt.Printf("Uploaded %s to s3://%s/%s\n", local, cfg.Backup.S3.Bucket, key)

	stored, err := store.ListBackups(ctx, cfg.Backup.S3.Bucket, cfg.Backup.S3.Prefix)
	if err != nil {
		return err
	}
	fmt.Printf("\nStored backups (%d):\n", len(stored))
	for _, k := range stored {
		fmt.Printf("  %s\n", k)
	}
	return nil
}

// keyIssuerFromConfig skips full config validation so the key commands
// work without github.token; they only check the fields they use.
func keyIssuerFromConfig(configPath string) (*config.Config, tailscale.KeyIssuer, error) {
	cfg, err := parseConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Tailscale.APIKey == "" || cfg.Tailscale.Tailnet == "" {
		return nil, nil, fmt.Errorf("tailscale.api_key and tailscale.tailnet are required (or set TAILSCALE_API_KEY)")
	}
	issuer, err := newKeyIssuer(cfg.Tailscale.APIKey, cfg.Tailscale.Tailnet)
	if err != nil {
		return nil, nil, err
	}
	return cfg, issuer, nil
}

// newestBackupFile returns the most recent backup file in dir. Backup file
// names embed their timestamp, so lexical order is chronological.
func newestBackupFile(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "tailscale-keys-*.txt"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no backup files found in %s", dir)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

func formatKeyTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
