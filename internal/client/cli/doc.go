// Package cli implements the interactive clinic console.
//
// The console runs an in-process clinic service over the configured storage
// backend. Commands prompt for their fields one line at a time; passwords
// are read without echo when stdin is a terminal. The state is saved on
// exit and on demand with "save".
package cli
