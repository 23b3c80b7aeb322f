// Package client contains the client-side building blocks for talking to the
// document review service.
//
// # Overview
//
// The package provides:
//  1. The remote API contract (see the Client interface): Login, the catalog
//     reads (Categories, Documents, Entries), UpdateFields and the category
//     export (DownloadCategory).
//  2. An HTTP/JSON implementation (see HTTPClient) that keeps the bearer
//     token in memory, stamps every request with an X-Request-ID and maps
//     HTTP statuses to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying the embedded goose migrations.
//
// # Error Handling
//
// Sentinel errors are matched with errors.Is: ErrUnavailable,
// ErrUnauthorized, ErrNotFound, ErrNoSession, ErrUnexpectedStatus.
// Typed errors carry details and are matched with errors.As: *AuthError for
// rejected credentials, *NetworkError for failed calls (it unwraps to one of
// the sentinels) and *DownloadError for refused exports.
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every call takes a context.Context
// and honors cancellation on top of the configured request timeout.
package client
