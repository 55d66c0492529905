// Command pathvault manages folders and files confined to a base directory.
//
// Usage:
//
//	pathvault [--base DIR] [--config FILE] <command> [args]
//
// Commands:
//
//	serve                      serve the HTTP API
//	mkdir, rmdir, rendir, mvdir
//	                           create, delete, rename and move folders
//	tree, ls, find, archive    inspect folders
//	put, get, rename, mv, rm   manage files
//	version                    print build information
//
// Configuration is read from defaults, an optional YAML or TOML file
// (--config or PATHVAULT_CONFIG), a .env file and the environment, in
// increasing order of precedence. --base overrides VAULT_BASE_DIR.
//
// Build with version information:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD)" ./cmd/pathvault
package main
