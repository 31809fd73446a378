package sync

import (
	"sort"

	"github.com/google/clasp-sub000/internal/types"
)

// Order total-orders files for upload. Files named in preference come
// first, in the order given; everything else follows sorted
// lexicographically by name. The remote execution environment creates files
// in upload order, and some projects depend on load order, so the result
// must be deterministic across runs.
//
// Preference entries are written as local-style paths in the settings file
// (for example "util/b.js") and are normalized through the same name
// mapping as the files, so they match irrespective of extension.
func Order(files []types.RemoteFile, preference []string) []types.RemoteFile {
	rank := make(map[string]int, len(preference))
	for i, entry := range preference {
		name, err := ToRemoteName(entry, "")
		if err != nil || name == "" {
			continue
		}
		if _, seen := rank[name]; !seen {
			rank[name] = i
		}
	}

	indexOf := func(name string) int {
		if i, ok := rank[name]; ok {
			return i
		}
		return len(preference) // past every declared entry
	}

	ordered := make([]types.RemoteFile, len(files))
	copy(ordered, files)

	// Composite key (preference index, name) keeps the sort total and
	// stable under equal-preference ties.
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, rj := indexOf(ordered[i].Name), indexOf(ordered[j].Name)
		if ri != rj {
			return ri < rj
		}
		return ordered[i].Name < ordered[j].Name
	})

	return ordered
}
