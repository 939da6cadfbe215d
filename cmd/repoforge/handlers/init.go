package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/forgeops/repoforge/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the configuration wizard.
	runWizard = config.RunWizard
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return err
	}

	cfg := result.ToConfig()
	if err := cfg.WriteFile(outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("repoforge - bulk repository provisioning")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("This wizard creates a provisioning configuration with sensible defaults.")
	fmt.Println("Edit the generated YAML to add template files, topics, or more secrets.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Run Summary")
	fmt.Println("-----------")
	fmt.Printf("  Repositories: %d (%s strategy)\n", cfg.Repositories.Count, cfg.Repositories.Naming.Strategy)
	if cfg.Repositories.Naming.Prefix != "" {
		fmt.Printf("  Prefix:       %s\n", cfg.Repositories.Naming.Prefix)
	}
	for _, s := range cfg.Secrets.Specs {
		fmt.Printf("  Secret:       %s (%s)\n", s.Name, s.Source)
	}
	fmt.Printf("  Key expiry:   %d days\n", cfg.Tailscale.Key.ExpiryDays)
	fmt.Printf("  Key backup:   %t\n", cfg.Backup.Enabled)
	fmt.Println()

	fmt.Println("Next steps:")
	fmt.Printf("  repoforge validate -c %s --live\n", outputPath)
	fmt.Printf("  repoforge run -c %s\n", outputPath)
}
