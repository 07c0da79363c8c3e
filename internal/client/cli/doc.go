// Package cli provides the interactive fieldcheck command-line client.
//
// It wires configuration, the local token cache, the platform client and
// an interactive REPL. Typical flow: login (paste the authorization code),
// projects, project <name>, search <text>, select <location ids>, update.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command table.
package cli
