// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/forgeops/repoforge/internal/config"
	"github.com/forgeops/repoforge/internal/platform/github"
	"github.com/forgeops/repoforge/internal/platform/s3"
	"github.com/forgeops/repoforge/internal/platform/tailscale"
	"github.com/forgeops/repoforge/internal/provisioning"
)

const defaultConfigFile = "repoforge.yaml"

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// parseConfigFile loads config without full validation, for commands
	// that only use a slice of it.
	parseConfigFile = config.ParseFile

	// newRepoHost creates the repository-host client.
	newRepoHost = func(ctx context.Context, token string) (github.RepoHost, error) {
		return github.NewRealClient(ctx, token)
	}

	// newKeyIssuer creates the key-issuer client.
	newKeyIssuer = func(apiKey, tailnet string) (tailscale.KeyIssuer, error) {
		return tailscale.NewClient(apiKey, tailnet)
	}

	// newBackupStore creates the S3 backup store.
	newBackupStore = func(cfg config.S3Config) (s3.Store, error) {
		return s3.NewClient(cfg.Endpoint, cfg.Region, cfg.AccessKey, cfg.SecretKey)
	}

	// notifySignals registers for interrupt signals.
	notifySignals = func(ch chan<- os.Signal) {
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	}
)

// Run executes a full provisioning run from the given config file.
//
// The run is cooperative with respect to interrupts: the first SIGINT or
// SIGTERM requests cancellation, the repository currently being provisioned
// finishes, and the run reports what was created.
func Run(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	host, issuer, opts, err := buildClients(ctx, cfg)
	if err != nil {
		return err
	}

	orch := provisioning.New(cfg, host, issuer, opts...)

	sigCh := make(chan os.Signal, 1)
	notifySignals(sigCh)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			log.Println("interrupt received, finishing the current repository...")
			orch.Cancel()
		}
	}()

	result := orch.Run(ctx)
	fmt.Print(renderRunReport(result))

	if !result.Success {
		return errors.New(result.Message)
	}
	return nil
}

// loadConfig loads and validates the configuration. If configPath is empty,
// it looks for repoforge.yaml in the current directory.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		configPath = defaultConfigFile
	}
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		if os.IsNotExist(errors.Unwrap(err)) {
			return nil, fmt.Errorf("no config file at %s\nRun 'repoforge init' to create one", configPath)
		}
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// parseConfig loads the configuration without running full validation.
// The key subcommands use it so they work from configs that only carry
// the Tailscale and backup sections.
func parseConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		configPath = defaultConfigFile
	}
	cfg, err := parseConfigFile(configPath)
	if err != nil {
		if os.IsNotExist(errors.Unwrap(err)) {
			return nil, fmt.Errorf("no config file at %s\nRun 'repoforge init' to create one", configPath)
		}
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// buildClients constructs the API clients the orchestrator needs. The key
// issuer is only built when a secret actually draws from it, and the backup
// store only when S3 backup is enabled.
func buildClients(ctx context.Context, cfg *config.Config) (github.RepoHost, tailscale.KeyIssuer, []provisioning.Option, error) {
	host, err := newRepoHost(ctx, cfg.GitHub.Token)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	var issuer tailscale.KeyIssuer
	if cfg.HasIssuerSecrets() {
		issuer, err = newKeyIssuer(cfg.Tailscale.APIKey, cfg.Tailscale.Tailnet)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create Tailscale client: %w", err)
		}
	}

	var opts []provisioning.Option
	if cfg.Backup.S3.Enabled {
		store, err := newBackupStore(cfg.Backup.S3)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create backup store: %w", err)
		}
		opts = append(opts, provisioning.WithBackupStore(store))
	}

	return host, issuer, opts, nil
}
