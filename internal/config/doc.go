// Package config defines the provisioning configuration, its YAML loader,
// versioned migration of legacy configs, static validation, and the
// interactive setup wizard.
package config
