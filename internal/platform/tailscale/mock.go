package tailscale

import (
	"context"
	"fmt"
)

// MockKeyIssuer is a function-field test double for KeyIssuer. Unset fields
// behave as successful no-ops: CreateAuthKey returns a deterministic fake
// key, list and delete succeed.
type MockKeyIssuer struct {
	CreateAuthKeyFunc  func(ctx context.Context, opts KeyOptions) (*AuthKey, error)
	CreateAuthKeysFunc func(ctx context.Context, count int, opts KeyOptions, progress ProgressFunc) ([]*AuthKey, error)
	ListKeysFunc       func(ctx context.Context) ([]*AuthKey, error)
	DeleteKeyFunc      func(ctx context.Context, id string) error
	TestConnectionFunc func(ctx context.Context) error

	created int
}

var _ KeyIssuer = (*MockKeyIssuer)(nil)

func (m *MockKeyIssuer) CreateAuthKey(ctx context.Context, opts KeyOptions) (*AuthKey, error) {
	if m.CreateAuthKeyFunc != nil {
		return m.CreateAuthKeyFunc(ctx, opts)
	}
	m.created++
	return &AuthKey{
		ID:  fmt.Sprintf("k%04d", m.created),
		Key: fmt.Sprintf("tskey-auth-mock-%04d", m.created),
	}, nil
}

func (m *MockKeyIssuer) CreateAuthKeys(ctx context.Context, count int, opts KeyOptions, progress ProgressFunc) ([]*AuthKey, error) {
	if m.CreateAuthKeysFunc != nil {
		return m.CreateAuthKeysFunc(ctx, count, opts, progress)
	}
	keys := make([]*AuthKey, 0, count)
	var lastErr error
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return keys, err
		}
		key, err := m.CreateAuthKey(ctx, opts)
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

func (m *MockKeyIssuer) ListKeys(ctx context.Context) ([]*AuthKey, error) {
	if m.ListKeysFunc != nil {
		return m.ListKeysFunc(ctx)
	}
	return nil, nil
}

func (m *MockKeyIssuer) DeleteKey(ctx context.Context, id string) error {
	if m.DeleteKeyFunc != nil {
		return m.DeleteKeyFunc(ctx, id)
	}
	return nil
}

func (m *MockKeyIssuer) TestConnection(ctx context.Context) error {
	if m.TestConnectionFunc != nil {
		return m.TestConnectionFunc(ctx)
	}
	return nil
}
