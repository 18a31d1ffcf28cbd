// Package cli provides the interactive admindash terminal client.
//
// It wires configuration, the local SQLite database, the REST transport,
// the session service and one data-sync store per collection, then runs a
// REPL over them. Collections are loaded the first time they are shown.
// Edits and deletes show up at once and are rolled back with an error toast
// when the backend refuses them; new records appear once the backend has
// stored them.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// and waits for background deletes before closing the stores.
package cli
