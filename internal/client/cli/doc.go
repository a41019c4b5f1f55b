// Package cli provides the interactive CertApply command-line client.
//
// It wires configuration, the local session database, the API services and
// an interactive REPL whose command set is scoped by the stored principal's
// role. Typical flow: prompt for credentials, start a background
// notification poller, and execute user commands.
//
// Key features:
//   - Login / Register / Logout with a persisted session
//   - Applicant: apply, status, edit
//   - Reviewer: pending queue, decide, document download
//   - Admin: reviewer accounts, user listing, dashboard counts
//   - Notifications merged from a background poller, with a this-week view
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
