package sync

import (
	"path/filepath"
	"strings"

	"github.com/google/clasp-sub000/internal/types"
)

// Classification is the outcome of mapping one local path to a remote file
// type. Unsupported files are not an error; they are excluded from the
// upload set silently.
type Classification struct {
	Type        types.FileType
	TypeScript  bool // ServerJS that must be transpiled before upload
	Unsupported bool
}

// Classify maps a local path's extension to a remote file type. The
// reserved manifest filename classifies as JSON regardless of directory;
// extension matching is case-insensitive.
func Classify(path string) Classification {
	base := filepath.Base(path)
	if strings.EqualFold(base, types.ManifestFileName) {
		return Classification{Type: types.JSON}
	}

	switch strings.ToLower(filepath.Ext(base)) {
	case ".gs", ".js":
		return Classification{Type: types.ServerJS}
	case ".ts":
		return Classification{Type: types.ServerJS, TypeScript: true}
	case ".html":
		return Classification{Type: types.HTML}
	default:
		return Classification{Unsupported: true}
	}
}
