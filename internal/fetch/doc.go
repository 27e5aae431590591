// Package fetch retrieves API description documents over HTTP.
//
// A Client wraps net/http with the options a doc request needs: TLS
// verification on or off, an optional SOCKS5 proxy, a cookie jar and basic
// auth. Non-2xx responses are returned as *StatusError carrying the status
// code, the request URL and the response body so the caller can report why
// the document could not be pulled. Requests are never retried.
//
// Basic-auth passwords may be kept in the OS keyring instead of the project
// file; see LookupPassword and StorePassword.
package fetch
