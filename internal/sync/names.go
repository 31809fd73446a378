package sync

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/clasp-sub000/internal/types"
)

// ToRemoteName converts a local path into its remote file name: the
// extension is stripped, the path is made relative to rootDir (taken as-is
// when rootDir is empty) and separators are normalized to '/'.
func ToRemoteName(localPath, rootDir string) (string, error) {
	p := localPath
	if rootDir != "" {
		rel, err := filepath.Rel(rootDir, localPath)
		if err != nil {
			return "", fmt.Errorf("computing path of %s relative to %s: %w", localPath, rootDir, err)
		}
		if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("path %s is outside root directory %s", localPath, rootDir)
		}
		p = rel
	}

	p = strings.TrimSuffix(p, filepath.Ext(p))
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")

	return p, nil
}

// ToLocalPath converts a remote file name back to a local path under
// rootDir, appending the extension derived from the remote type.
// fileExtension overrides the default extension for server scripts only.
func ToLocalPath(remoteName string, remoteType types.FileType, rootDir, fileExtension string) string {
	p := filepath.FromSlash(remoteName) + "." + remoteType.Extension(fileExtension)
	return filepath.Join(rootDir, p)
}
