package provisioning

import (
	"context"
	"fmt"
)

// validate runs the live pre-flight checks before any mutating call: both
// API connections must work, and rate-limit headroom is reported. Static
// config validation has already happened at load time.
func (o *Orchestrator) validate(ctx context.Context, run *Run) error {
	login, err := o.host.TestConnection(ctx)
	if err != nil {
		return fmt.Errorf("repository host connection failed: %w", err)
	}
	o.observer.Printf("authenticated to repository host as %s", login)

	if rate, err := o.host.RateLimit(ctx); err == nil {
		o.observer.Printf("rate limit: %d/%d remaining (resets %s)",
			rate.Remaining, rate.Limit, rate.Reset.Format("15:04:05"))
		// Each repository costs multiple API calls; flag obviously
		// insufficient headroom before starting.
		if rate.Remaining < o.cfg.Repositories.Count*10 {
			run.Warn("rate-limit headroom is low: %d calls remaining for %d repositories",
				rate.Remaining, o.cfg.Repositories.Count)
		}
	}

	if o.cfg.HasIssuerSecrets() {
		if o.issuer == nil {
			return fmt.Errorf("issuer-sourced secrets configured but no key issuer available")
		}
		if err := o.issuer.TestConnection(ctx); err != nil {
			return fmt.Errorf("key issuer connection failed: %w", err)
		}
		o.observer.Printf("key issuer connection verified")
	}

	return nil
}
