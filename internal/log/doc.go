// Package log provides secure logging functionality with automatic
// sanitization of sensitive information, built on top of the standard slog
// package.
//
// This package extends slog to provide:
//   - Automatic sanitization of credential values (API keys, tokens)
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Security Features
//
// docs-archiver carries a conversion API credential through its
// configuration, and verbose crawl logging echoes configuration and request
// details. The SecureHandler masks anything that looks like that credential
// before it reaches the log output:
//   - Attribute keys naming secrets (api_key, token, authorization, ...)
//   - Credential-shaped values detected by pattern matching (bearer
//     tokens, Google API keys, long opaque strings)
//
// Even in verbose mode, sensitive values are masked to prevent accidental
// exposure of secrets in logs that may be shared or stored.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("converter ready",
//	    "api_key", cfg.APIKey, // Will be masked
//	    "model", cfg.Model,
//	)
//
//	slog.SetDefault(logger)
package log
