// Package cli provides the interactive recipebook command-line client.
//
// It wires configuration, the persisted session, the service gateway and an
// interactive REPL. The prompt carries a status line, "(alice online)" or
// "(anonymous)", which is re-rendered whenever the session changes, including
// changes made by another client sharing the same session storage.
//
// Commands:
//   - register, login, logout, whoami
//   - list, show <id>
//   - addrecipe, editrecipe <id>, delrecipe <id>
//   - rate <recipeID>, editrating <id>, delrating <id>
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See NewApp and runREPL for details.
package cli
