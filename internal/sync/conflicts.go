package sync

import (
	"sort"
)

// FindConflicts scans candidate relative paths for extension collisions:
// distinct local files whose computed remote names coincide (most commonly
// a .gs and a .js sharing a basename). Each colliding name is reported once
// with every path that maps to it. Conflicts are returned sorted by name
// for deterministic error output.
func FindConflicts(relPaths []string) ([]ExtensionConflict, error) {
	byName := make(map[string][]string)
	for _, p := range relPaths {
		name, err := ToRemoteName(p, "")
		if err != nil {
			return nil, err
		}
		byName[name] = append(byName[name], p)
	}

	var conflicts []ExtensionConflict
	for name, paths := range byName {
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)
		conflicts = append(conflicts, ExtensionConflict{Name: name, Paths: paths})
	}

	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].Name < conflicts[j].Name
	})

	return conflicts, nil
}
