package sync

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingRemoteManifest indicates the remote project has no manifest
// file to compare against; the project is in a state the engine cannot
// repair.
var ErrMissingRemoteManifest = errors.New("remote project has no manifest file")

// ErrEmptyRemoteFileSet indicates a pull found zero remote files, which
// never occurs for a valid script project.
var ErrEmptyRemoteFileSet = errors.New("remote project contains no files")

// ExtensionConflict describes one remote name that two or more local files
// would collide on.
type ExtensionConflict struct {
	Name  string   // the colliding remote name
	Paths []string // every local path mapping to it
}

// ConflictError aborts a push when local files would silently overwrite
// each other remotely. Each colliding name is reported once with all of its
// paths.
type ConflictError struct {
	Conflicts []ExtensionConflict
}

func (e *ConflictError) Error() string {
	var b strings.Builder
	b.WriteString("conflicting file extensions: ")
	for i, c := range e.Conflicts {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s (%s)", c.Name, strings.Join(c.Paths, ", "))
	}
	return b.String()
}
