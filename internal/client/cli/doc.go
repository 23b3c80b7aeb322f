// Package cli provides the interactive reviewer client.
//
// It wires configuration, the local session store, the review API services
// and an interactive REPL. Typical flow: restore a persisted session or log
// in, pick a category, page through its documents, edit fields and save.
//
// Key features:
//   - Login / Logout with the session token sealed in the local store
//   - Category and tab selection, next/prev/show navigation
//   - Field editing (set, edit, diff, revert) and save
//   - Image viewport commands and a full-screen inspector (view)
//   - Thumbnail preview and export of reviewed documents to a directory or S3
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
