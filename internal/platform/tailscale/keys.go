package tailscale

import (
	"context"
	"fmt"
	"net/url"
)

// DefaultKeyExpiryDays is the key lifetime used when none is configured.
const DefaultKeyExpiryDays = 90

type createKeyRequest struct {
	Capabilities capabilities `json:"capabilities"`
	ExpirySecs   int          `json:"expirySeconds"`
	Description  string       `json:"description,omitempty"`
}

type capabilities struct {
	Devices struct {
		Create struct {
			Reusable      bool     `json:"reusable"`
			Ephemeral     bool     `json:"ephemeral"`
			Preauthorized bool     `json:"preauthorized"`
			Tags          []string `json:"tags,omitempty"`
		} `json:"create"`
	} `json:"devices"`
}

// CreateAuthKey issues a single auth key with the given capabilities.
func (c *Client) CreateAuthKey(ctx context.Context, opts KeyOptions) (*AuthKey, error) {
	days := opts.ExpiryDays
	if days <= 0 {
		days = DefaultKeyExpiryDays
	}

	req := createKeyRequest{
		ExpirySecs:  days * 24 * 3600,
		Description: opts.Description,
	}
	req.Capabilities.Devices.Create.Reusable = opts.Reusable
	req.Capabilities.Devices.Create.Ephemeral = opts.Ephemeral
	req.Capabilities.Devices.Create.Preauthorized = opts.Preauthorized
	req.Capabilities.Devices.Create.Tags = opts.Tags

	var key AuthKey
	path := fmt.Sprintf("/tailnet/%s/keys", url.PathEscape(c.tailnet))
	if err := c.do(ctx, "POST", path, req, &key); err != nil {
		return nil, fmt.Errorf("creating auth key: %w", err)
	}
	if key.Key == "" {
		return nil, fmt.Errorf("creating auth key: response contained no key")
	}
	return &key, nil
}

// CreateAuthKeys issues count keys, reporting progress after each attempt.
// Issuance is best effort: a failed key is skipped and the rest are still
// attempted. An error is returned only when no key could be issued at all,
// or when ctx is cancelled.
func (c *Client) CreateAuthKeys(ctx context.Context, count int, opts KeyOptions, progress ProgressFunc) ([]*AuthKey, error) {
	keys := make([]*AuthKey, 0, count)
	var lastErr error

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return keys, err
		}

		key, err := c.CreateAuthKey(ctx, opts)
		if err != nil {
			lastErr = err
			if progress != nil {
				progress(i+1, count, fmt.Sprintf("key %d/%d failed: %v", i+1, count, err))
			}
			continue
		}
		keys = append(keys, key)
		if progress != nil {
			progress(i+1, count, fmt.Sprintf("issued key %d/%d", i+1, count))
		}
	}

	if len(keys) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("no auth keys could be issued: %w", lastErr)
		}
		return nil, fmt.Errorf("no auth keys could be issued")
	}
	return keys, nil
}

// ListKeys returns the tailnet's existing keys. Key secrets are not included
// by the API for previously issued keys.
func (c *Client) ListKeys(ctx context.Context) ([]*AuthKey, error) {
	var body struct {
		Keys []*AuthKey `json:"keys"`
	}
	path := fmt.Sprintf("/tailnet/%s/keys", url.PathEscape(c.tailnet))
	if err := c.do(ctx, "GET", path, nil, &body); err != nil {
		return nil, fmt.Errorf("listing auth keys: %w", err)
	}
	return body.Keys, nil
}

// DeleteKey revokes the key with the given ID.
func (c *Client) DeleteKey(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("key ID is required")
	}
	path := fmt.Sprintf("/tailnet/%s/keys/%s", url.PathEscape(c.tailnet), url.PathEscape(id))
	if err := c.do(ctx, "DELETE", path, nil, nil); err != nil {
		return fmt.Errorf("deleting auth key %s: %w", id, err)
	}
	return nil
}
