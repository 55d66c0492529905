// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// The vault core never reaches for a global logger; the server and CLI
// build one here and inject its *zap.Logger.
//
// Example Usage:
//
//	logger, err := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development)
//	if err != nil {
//		return err
//	}
//	defer logger.Sync()
//	logger.Info("Server starting", zap.String("port", "8000"))
package logging
