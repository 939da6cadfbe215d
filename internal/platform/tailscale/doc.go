// Package tailscale provides a client for the Tailscale key-issuance API.
//
// The client covers auth-key creation (single and bulk with progress
// reporting), listing, deletion, and a read-only connectivity check. Bulk
// issuance is best effort: individual failures are counted and whatever
// succeeded is returned. Issued keys can be written to a timestamped local
// backup file.
package tailscale
