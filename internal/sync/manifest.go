package sync

import (
	"strings"

	"github.com/google/clasp-sub000/internal/types"
)

// manifestRemoteName is the manifest's extensionless remote name.
var manifestRemoteName = strings.TrimSuffix(types.ManifestFileName, ".json")

// HasManifestChanged reports whether the local manifest source differs from
// the remote project's manifest. Line endings are normalized before
// comparison so the result is not defeated by OS newline conventions.
//
// Returns ErrMissingRemoteManifest when the remote file set has no manifest
// at all.
func HasManifestChanged(localManifestSource string, remoteFiles []types.RemoteFile) (bool, error) {
	var remote *types.RemoteFile
	for i := range remoteFiles {
		if remoteFiles[i].Name == manifestRemoteName && remoteFiles[i].Type == types.JSON {
			remote = &remoteFiles[i]
			break
		}
	}
	if remote == nil {
		return false, ErrMissingRemoteManifest
	}

	return normalizeEOL(localManifestSource) != normalizeEOL(remote.Source), nil
}

// normalizeEOL rewrites CRLF and bare CR line endings to LF.
func normalizeEOL(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
