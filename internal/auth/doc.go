// Package auth implements the identity and session lifecycle: bearer token
// issuance and validation, password strength policy, password digests and
// resolution of a bearer token or email/password pair into a live user.
//
// Nothing in this package holds mutable shared state. The signing secret,
// clock and user store are injected at construction so that callers (and
// tests) can rotate secrets and control time.
package auth
