// Package config provides 12-factor configuration management for PathVault.
//
// Values are layered: built-in defaults, then an optional YAML or TOML file
// named by PATHVAULT_CONFIG, then environment variables. CLI flags can
// override the result for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Vault: base directory, tree depth limit, upload size limit
//   - Logging: Log level and output format
//   - RateLimit: Per-IP and optional server-wide rate limiting
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Serving %s on %s:%s\n", cfg.Vault.BaseDir, cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - VAULT_BASE_DIR, VAULT_MAX_TREE_DEPTH, VAULT_MAX_UPLOAD_BYTES
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_GLOBAL_RPS, RATE_LIMIT_ENABLED
package config
