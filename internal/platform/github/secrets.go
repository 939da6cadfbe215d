package github

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"regexp"

	"github.com/google/go-github/v70/github"
	"golang.org/x/crypto/nacl/box"
)

// secretNamePattern is enforced client-side before any network call.
var secretNamePattern = regexp.MustCompile(`^[A-Z0-9_]+$`)

// ValidateSecretName checks that a secret name is acceptable to the
// platform: uppercase letters, digits, and underscores only.
func ValidateSecretName(name string) error {
	if !secretNamePattern.MatchString(name) {
		return fmt.Errorf("invalid secret name %q: must contain only uppercase letters, numbers, and underscores", name)
	}
	return nil
}

// EncryptSecretValue seals the UTF-8 secret bytes against the repository's
// base64-encoded public key using anonymous public-key encryption
// (crypto_box seal) and returns the base64-encoded ciphertext. This is the
// exact scheme the platform's secret store decrypts with; any other scheme
// produces undecryptable values.
func EncryptSecretValue(publicKeyB64, secretValue string) (string, error) {
	keyBytes, err := base64.StdEncoding.DecodeString(publicKeyB64)
	if err != nil {
		return "", fmt.Errorf("failed to decode repository public key: %w", err)
	}
	if len(keyBytes) != 32 {
		return "", fmt.Errorf("repository public key has unexpected length %d", len(keyBytes))
	}

	var recipientKey [32]byte
	copy(recipientKey[:], keyBytes)

	sealed, err := box.SealAnonymous(nil, []byte(secretValue), &recipientKey, rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// AddSecret creates or updates an Actions secret on the repository. The
// value is sealed-box encrypted with the repository's public key; the
// plaintext never goes over the wire.
func (c *RealClient) AddSecret(ctx context.Context, repoName, secretName, secretValue string) error {
	if err := ValidateSecretName(secretName); err != nil {
		return err
	}

	key, _, err := c.gh.Actions.GetRepoPublicKey(ctx, c.login, repoName)
	if err != nil {
		return fmt.Errorf("cannot access secrets of %s (check repository permissions): %s: %w",
			repoName, apiErrorMessage(err), err)
	}

	encrypted, err := EncryptSecretValue(key.GetKey(), secretValue)
	if err != nil {
		return err
	}

	_, err = c.gh.Actions.CreateOrUpdateRepoSecret(ctx, c.login, repoName, &github.EncryptedSecret{
		Name:           secretName,
		KeyID:          key.GetKeyID(),
		EncryptedValue: encrypted,
	})
	if err != nil {
		return fmt.Errorf("failed to add secret %s to %s: %s: %w", secretName, repoName, apiErrorMessage(err), err)
	}

	c.pause()
	return nil
}
