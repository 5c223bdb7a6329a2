// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// Site profiles can carry session cookies and authentication headers for
// catalogs that sit behind a login. Those values must never appear in log
// output, even in verbose mode, because logs are routinely shared in bug
// reports and CI output.
//
// The SecureHandler automatically sanitizes:
//   - HTTP credentials (Authorization, Cookie, X-Api-Key)
//   - Secret values detected by key name (passwords, tokens, keys)
//   - Bearer/Basic/JWT shaped values regardless of key name
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//	logger.Debug("request prepared",
//	    "cookie", "session=abc123", // sanitized to ***REDACTED***
//	    "url", "https://shop.example.com/item/1",
//	)
//	slog.SetDefault(logger)
package log
