// Package config handles loading and validating bridge configuration.
//
// This package manages:
//   - Loading configuration from an optional YAML file
//   - Loading a .env file from the working directory
//   - Overriding with BOSE_* environment variables
//   - Validation of values and default handling
//
// Security Considerations:
//   - The account password should be set via the environment or .env file
//   - A config file carrying credentials should have restricted permissions (0600)
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - No runtime overhead after initial load
//
// Usage:
//
//	cfg, err := config.Load("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	creds, complete := cfg.Credentials()
package config
