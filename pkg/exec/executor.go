// Package exec starts the external processes the dev server launches on
// behalf of the client.
package exec

import "context"

// Launcher starts external programs without waiting for them.
type Launcher interface {
	// LookPath resolves file against PATH.
	LookPath(file string) (string, error)

	// Start launches name with args and returns the child's pid. The child
	// outlives ctx only if ctx is never cancelled.
	Start(ctx context.Context, name string, arg ...string) (int, error)
}
