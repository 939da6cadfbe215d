package handlers

import (
	"context"
	"fmt"
)

// Validate loads the configuration and reports whether it is usable. Static
// validation happens at load time; with live enabled both API connections
// are verified as well.
func Validate(ctx context.Context, configPath string, live bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	fmt.Printf("Configuration OK: %d repositories, %d secrets, strategy %s\n",
		cfg.Repositories.Count, len(cfg.Secrets.Specs), cfg.Repositories.Naming.Strategy)

	if !live {
		return nil
	}

	host, issuer, _, err := buildClients(ctx, cfg)
	if err != nil {
		return err
	}

	login, err := host.TestConnection(ctx)
	if err != nil {
		return fmt.Errorf("GitHub connection failed: %w", err)
	}
	fmt.Printf("GitHub: %s\n", login)

	if rate, err := host.RateLimit(ctx); err == nil {
		fmt.Printf("Rate limit: %d/%d remaining, resets %s\n",
			rate.Remaining, rate.Limit, rate.Reset.Format("15:04:05"))
	}

	if issuer != nil {
		if err := issuer.TestConnection(ctx); err != nil {
			return fmt.Errorf("Tailscale connection failed: %w", err)
		}
		fmt.Println("Tailscale: connection verified")
	}

	return nil
}
