// Package vault implements PathVault, a filesystem gateway confined to a
// single base directory.
//
// Every operation takes paths relative to the base directory and runs the
// same sequence:
//   - validate: reject any path with a ".." segment
//   - resolve: join the path with the base directory
//   - check: existence and type checks that map to typed error kinds
//   - act: the actual filesystem mutation or read
//
// Failures are returned as *Error values. Use errors.Is with the Err*
// sentinels (or KindOf) to classify them; the underlying cause stays
// reachable through errors.Is / errors.As as well.
//
// A Vault holds no mutable state beyond its configuration and performs no
// locking. Concurrent callers touching the same paths race exactly as the
// filesystem allows.
//
// Example Usage:
//
//	v := vault.New("/srv/files", vault.WithLogger(logger.Logger))
//	dir, err := v.CreateFolder("projects/alpha")
//	if errors.Is(err, vault.ErrFolderAlreadyExists) {
//		...
//	}
package vault
