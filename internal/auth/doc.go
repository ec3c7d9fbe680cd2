// Package auth implements user accounts and request authentication.
//
// Two authentication paths are supported: session cookies for browser
// clients (scs-backed, stored in SQLite alongside the rest of the data)
// and bearer API tokens for programmatic clients. Tokens are stored
// hashed; the plaintext is shown to the user exactly once.
//
// The session layer also carries the per-session set of viewed entry IDs
// used by the search engine to count each view at most once per session.
package auth
