// Package cli provides the interactive records command-line client.
//
// It wires configuration, the listing cache store, the record service client
// and an interactive REPL that keeps working offline from the cached
// listing. Typical flow: probe the service, load the listing, browse it,
// then open a record in the editor, fill in the wizard sections and save.
//
// Key features:
//   - Browse: search, status filter, sort, pagination, refresh
//   - Edit: new / edit, field and row assignment, attachments, wizard steps
//   - Save with concurrent certificate uploads
//   - Delete and active-status toggle
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
