// Package log provides redacting logging built on top of the standard slog
// package.
//
// Tracking URLs in marketing email carry recipient identifiers in their
// query strings and fragments. The RedactingHandler masks those parts of
// every URL-valued attribute (href, src, target, url and any key ending in
// _target or _url), so debug logs of a transform can be shared without
// leaking who the email was sent to. It also masks values under
// secret-looking keys and values that look like credentials.
//
// # Usage
//
//	logger := log.NewRedactingLogger(os.Stderr, verbose)
//	logger.Debug("redirected link",
//	    "href", "https://t.example/click?uid=42", // logged as https://t.example/click?***REDACTED***
//	)
//	slog.SetDefault(logger)
package log
