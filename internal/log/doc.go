// Package log provides the slog setup used by swaggercov.
//
// Log records pass through a RedactingHandler that masks credentials before
// they reach the output: basic-auth passwords, cookies, Authorization
// headers and URLs carrying user info. The doc request is the only place
// swaggercov handles secrets, and it logs its inputs at debug level, so the
// masking applies in verbose mode too.
//
// Usage:
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
