// Package sanitizer normalizes free-text fields arriving from external
// systems before they are persisted. Identity-provider payloads are the
// only source of user-entered text in this worker, so the surface is
// deliberately small: whitespace normalization for display names and
// canonicalization for email addresses.
package sanitizer
